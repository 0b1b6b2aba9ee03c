package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/queue"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/validation"
)

const publishTimeout = 3 * time.Second

// BookingService manages bookings and their status transitions.
type BookingService struct {
	bookings BookingStore
	listings ListingStore
	events   EventPublisher // optional
	log      *slog.Logger
	now      func() time.Time
}

// NewBookingService panics when a store is nil.  events may be nil, in
// which case no events are published.
func NewBookingService(bookings BookingStore, listings ListingStore, events EventPublisher, logger *slog.Logger) *BookingService {
	if bookings == nil || listings == nil {
		panic("nil store passed to NewBookingService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{bookings: bookings, listings: listings, events: events, log: logger, now: time.Now}
}

// Create validates c, checks that the listing exists and stores the
// booking.  A missing status means pending.
func (s *BookingService) Create(ctx context.Context, c model.BookingCandidate) (*model.BookingDetail, error) {
	verr := validation.ValidateBooking(c, validation.Full)
	if err := checkListing(ctx, s.listings, c.ListingID, verr); err != nil {
		return nil, err
	}
	var b model.Booking
	c.Apply(&b)
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return nil, err
	}
	d, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "booking created", "booking_id", d.ID, "listing_id", d.ListingID, "status", d.Status)
	s.publish(ctx, queue.BookingCreated, d)
	return d, nil
}

// Get returns a booking with its listing name and location.
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	return s.bookings.GetByID(ctx, id)
}

// List returns a page of bookings and the total count.
func (s *BookingService) List(ctx context.Context, f repository.BookingFilter) ([]model.BookingDetail, int64, error) {
	return s.bookings.List(ctx, f)
}

// Update applies c to the stored booking and re-validates the merged
// result.  A status change made here publishes the matching event.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, c model.BookingCandidate, mode validation.Mode) (*model.BookingDetail, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	verr := validation.ValidateBooking(c, mode)
	if err := checkListing(ctx, s.listings, c.ListingID, verr); err != nil {
		return nil, err
	}
	b := current.Booking
	c.Apply(&b)
	if err := validation.ValidateBooking(model.BookingCandidateFrom(b), validation.Full); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, &b); err != nil {
		return nil, err
	}
	d, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "booking updated", "booking_id", id)
	if d.Status != current.Status {
		switch d.Status {
		case model.StatusConfirmed:
			s.publish(ctx, queue.BookingConfirmed, d)
		case model.StatusCanceled:
			s.publish(ctx, queue.BookingCanceled, d)
		}
	}
	return d, nil
}

// Confirm moves a pending booking to confirmed.  Any other current status
// yields repository.ErrConflict.
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	return s.transition(ctx, id, queue.BookingConfirmed, model.StatusConfirmed, model.StatusPending)
}

// Cancel moves a pending or confirmed booking to canceled.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	return s.transition(ctx, id, queue.BookingCanceled, model.StatusCanceled, model.StatusPending, model.StatusConfirmed)
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, ev queue.EventType, to model.BookingStatus, from ...model.BookingStatus) (*model.BookingDetail, error) {
	if err := s.bookings.SetStatus(ctx, id, to, from...); err != nil {
		return nil, err
	}
	d, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "booking status changed", "booking_id", id, "status", to)
	s.publish(ctx, ev, d)
	return d, nil
}

// Delete removes a booking.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "booking deleted", "booking_id", id)
	return nil
}

// publish sends the event and logs a failure; the booking write has
// already succeeded at this point.
func (s *BookingService) publish(ctx context.Context, t queue.EventType, d *model.BookingDetail) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, queue.NewBookingEvent(t, *d, s.now())); err != nil {
		s.log.WarnContext(ctx, "publish booking event failed", "type", t, "booking_id", d.ID, "err", err)
	}
}
