// Package service holds the write paths for listings, bookings and reviews:
// validation, reference checks, merging of partial updates and event
// publication.  Storage is reached through the small interfaces below so the
// services can be exercised without a database.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/queue"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// ListingStore is the listing persistence used by the services.
type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f repository.ListingFilter) ([]model.Listing, int64, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id uuid.UUID) (repository.DeleteResult, error)
}

// BookingStore is the booking persistence used by BookingService.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error)
	List(ctx context.Context, f repository.BookingFilter) ([]model.BookingDetail, int64, error)
	Update(ctx context.Context, b *model.Booking) error
	SetStatus(ctx context.Context, id uuid.UUID, to model.BookingStatus, from ...model.BookingStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewStore is the review persistence used by ReviewService.
type ReviewStore interface {
	Create(ctx context.Context, r *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewDetail, error)
	List(ctx context.Context, f repository.ReviewFilter) ([]model.ReviewDetail, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventPublisher delivers booking events.  *queue.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Compile-time checks.
var (
	_ ListingStore   = (*repository.ListingRepo)(nil)
	_ BookingStore   = (*repository.BookingRepo)(nil)
	_ ReviewStore    = (*repository.ReviewRepo)(nil)
	_ EventPublisher = (*queue.Publisher)(nil)
)

// MissingListing is the rejection of a reference to an unknown listing.
func MissingListing(id uuid.UUID) *validation.Error {
	return validation.NewError("listing", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", id))
}

// checkListing combines the outcome of field validation with the
// existence check of the referenced listing.  A missing listing is a field
// error, so cross-field failures are dropped in that case.
func checkListing(ctx context.Context, listings ListingStore, id *uuid.UUID, verr error) error {
	errs, ok := validation.AsErrors(verr)
	if verr != nil && !ok {
		return verr
	}
	if id == nil || errs.Field("listing") != nil {
		return asError(errs)
	}
	exists, err := listings.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if exists {
		return asError(errs)
	}
	out := validation.Errors{}
	for _, e := range errs {
		if e.Field != validation.NonFieldErrors {
			out = append(out, e)
		}
	}
	return append(out, MissingListing(*id))
}

// asError returns nil for an empty set so callers never see a typed nil.
func asError(errs validation.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
