// Package servicetest provides in-memory stores and an event recorder for
// tests of the services and of the code built on them.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/queue"
	"github.com/iliyamo/travel-listings/internal/repository"
)

// Store keeps listings, bookings and reviews in memory and joins the
// listing name on read the way the MySQL repositories do.  The maps may be
// inspected directly once the code under test has returned.
type Store struct {
	mu       sync.Mutex
	Listings map[uuid.UUID]model.Listing
	Bookings map[uuid.UUID]model.Booking
	Reviews  map[uuid.UUID]model.Review
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		Listings: map[uuid.UUID]model.Listing{},
		Bookings: map[uuid.UUID]model.Booking{},
		Reviews:  map[uuid.UUID]model.Review{},
	}
}

// ListingStore returns the listing view of s.
func (s *Store) ListingStore() ListingStore { return ListingStore{s} }

// BookingStore returns the booking view of s.
func (s *Store) BookingStore() BookingStore { return BookingStore{s} }

// ReviewStore returns the review view of s.
func (s *Store) ReviewStore() ReviewStore { return ReviewStore{s} }

// ListingStore implements service.ListingStore over a Store.
type ListingStore struct{ *Store }

// BookingStore implements service.BookingStore over a Store.
type BookingStore struct{ *Store }

// ReviewStore implements service.ReviewStore over a Store.
type ReviewStore struct{ *Store }

func (m ListingStore) Create(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.New()
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	m.Listings[l.ID] = *l
	return nil
}

func (m ListingStore) GetByID(_ context.Context, id uuid.UUID) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.Listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return &l, nil
}

func (m ListingStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Listings[id]
	return ok, nil
}

func (m ListingStore) List(_ context.Context, f repository.ListingFilter) ([]model.Listing, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Listing{}
	for _, l := range m.Listings {
		if f.HostID != nil && l.HostID != *f.HostID {
			continue
		}
		if f.Location != "" && l.Location != f.Location {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (m ListingStore) Update(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Listings[l.ID]; !ok {
		return repository.ErrListingNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	m.Listings[l.ID] = *l
	return nil
}

func (m ListingStore) Delete(_ context.Context, id uuid.UUID) (repository.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res repository.DeleteResult
	if _, ok := m.Listings[id]; !ok {
		return res, repository.ErrListingNotFound
	}
	for rid, r := range m.Reviews {
		if r.ListingID == id {
			delete(m.Reviews, rid)
			res.Reviews++
		}
	}
	for bid, b := range m.Bookings {
		if b.ListingID == id {
			delete(m.Bookings, bid)
			res.Bookings++
		}
	}
	delete(m.Listings, id)
	return res, nil
}

func (m BookingStore) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Listings[b.ListingID]; !ok {
		return &repository.ConstraintViolation{Constraint: "foreign_key", Err: errors.New("no listing")}
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	m.Bookings[b.ID] = *b
	return nil
}

func (m BookingStore) detail(b model.Booking) model.BookingDetail {
	l := m.Listings[b.ListingID]
	return model.BookingDetail{Booking: b, ListingName: l.Name, ListingLocation: l.Location}
}

func (m BookingStore) GetByID(_ context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	d := m.detail(b)
	return &d, nil
}

func (m BookingStore) List(_ context.Context, f repository.BookingFilter) ([]model.BookingDetail, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.BookingDetail{}
	for _, b := range m.Bookings {
		if f.ListingID != nil && b.ListingID != *f.ListingID {
			continue
		}
		out = append(out, m.detail(b))
	}
	return out, int64(len(out)), nil
}

func (m BookingStore) Update(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	m.Bookings[b.ID] = *b
	return nil
}

func (m BookingStore) SetStatus(_ context.Context, id uuid.UUID, to model.BookingStatus, from ...model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if !slices.Contains(from, b.Status) {
		return fmt.Errorf("booking is %s: %w", b.Status, repository.ErrConflict)
	}
	b.Status = to
	m.Bookings[id] = b
	return nil
}

func (m BookingStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(m.Bookings, id)
	return nil
}

func (m ReviewStore) Create(_ context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Rating < model.MinRating || r.Rating > model.MaxRating {
		return &repository.ConstraintViolation{Constraint: "check", Err: errors.New("rating_range")}
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	m.Reviews[r.ID] = *r
	return nil
}

func (m ReviewStore) GetByID(_ context.Context, id uuid.UUID) (*model.ReviewDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	return &model.ReviewDetail{Review: r, ListingName: m.Listings[r.ListingID].Name}, nil
}

func (m ReviewStore) List(_ context.Context, f repository.ReviewFilter) ([]model.ReviewDetail, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.ReviewDetail{}
	for _, r := range m.Reviews {
		if f.ListingID != nil && r.ListingID != *f.ListingID {
			continue
		}
		if f.Rating != nil && r.Rating != *f.Rating {
			continue
		}
		out = append(out, model.ReviewDetail{Review: r, ListingName: m.Listings[r.ListingID].Name})
	}
	return out, int64(len(out)), nil
}

func (m ReviewStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(m.Reviews, id)
	return nil
}

// Recorder captures published events.  Publish returns Err after
// recording.
type Recorder struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	Err    error
}

// Publish records ev.
func (r *Recorder) Publish(_ context.Context, ev queue.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.Err
}

// Types returns the types of the recorded events in publish order.
func (r *Recorder) Types() []queue.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]queue.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
