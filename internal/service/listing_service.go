package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// ListingService creates, updates and deletes listings.
type ListingService struct {
	listings ListingStore
	log      *slog.Logger
}

// NewListingService panics when listings is nil.
func NewListingService(listings ListingStore, logger *slog.Logger) *ListingService {
	if listings == nil {
		panic("nil store passed to NewListingService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{listings: listings, log: logger}
}

// Create validates a full candidate and stores it.
func (s *ListingService) Create(ctx context.Context, c model.ListingCandidate) (*model.Listing, error) {
	if err := validation.ValidateListing(c, validation.Full); err != nil {
		return nil, err
	}
	var l model.Listing
	c.Apply(&l)
	if err := s.listings.Create(ctx, &l); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "listing created", "listing_id", l.ID, "host_id", l.HostID)
	return &l, nil
}

// Get returns a listing or repository.ErrListingNotFound.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

// List returns a page of listings and the total count.
func (s *ListingService) List(ctx context.Context, f repository.ListingFilter) ([]model.Listing, int64, error) {
	return s.listings.List(ctx, f)
}

// Update applies c to the stored listing.  In Partial mode only supplied
// fields are checked up front; the merged result is then checked as a
// whole before it is written.
func (s *ListingService) Update(ctx context.Context, id uuid.UUID, c model.ListingCandidate, mode validation.Mode) (*model.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateListing(c, mode); err != nil {
		return nil, err
	}
	c.Apply(l)
	if err := validation.ValidateListing(model.ListingCandidateFrom(*l), validation.Full); err != nil {
		return nil, err
	}
	if err := s.listings.Update(ctx, l); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "listing updated", "listing_id", l.ID)
	return l, nil
}

// Delete removes the listing and every booking and review referencing it.
func (s *ListingService) Delete(ctx context.Context, id uuid.UUID) (repository.DeleteResult, error) {
	res, err := s.listings.Delete(ctx, id)
	if err != nil {
		return res, err
	}
	s.log.InfoContext(ctx, "listing deleted", "listing_id", id, "bookings", res.Bookings, "reviews", res.Reviews)
	return res, nil
}
