// Package seed fills an empty database with sample listings, bookings and
// reviews.  Every row goes through the services, so the usual validation
// applies.
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/service"
)

// Seeder creates the sample data set.
type Seeder struct {
	Listings *service.ListingService
	Bookings *service.BookingService
	Reviews  *service.ReviewService

	// Clear removes existing rows before seeding.  Nil keeps them.
	Clear func(ctx context.Context) error
	// Today anchors booking dates; defaults to the current UTC date.
	Today func() time.Time
	Out   io.Writer
}

// Result lists what Run created.
type Result struct {
	Listings []model.Listing
	Bookings []model.BookingDetail
	Reviews  []model.ReviewDetail
	Users    []uuid.UUID
}

type listingSeed struct {
	name, description, location, price string
}

var listingSeeds = []listingSeed{
	{"Cozy Beach House", "Beautiful beach house with stunning ocean views. Perfect for a relaxing getaway.", "Malibu, California", "250.00"},
	{"Mountain Cabin Retreat", "Rustic cabin in the mountains with hiking trails and wildlife.", "Aspen, Colorado", "180.00"},
	{"Downtown Luxury Apartment", "Modern apartment in the heart of the city with all amenities.", "New York, New York", "350.00"},
	{"Tropical Paradise Villa", "Luxurious villa with private pool and tropical gardens.", "Miami, Florida", "450.00"},
	{"Historic Victorian Home", "Charming Victorian home with period features and modern comforts.", "San Francisco, California", "200.00"},
}

type reviewSeed struct {
	listing, user, rating int
	comment               string
}

var reviewSeeds = []reviewSeed{
	{0, 0, 5, "Amazing place! The ocean view was breathtaking and the host was very accommodating."},
	{1, 1, 4, "Great cabin for a mountain getaway. Very peaceful and well-maintained."},
	{2, 2, 5, "Perfect location in downtown! Walking distance to everything we wanted to see."},
	{0, 1, 5, "Would definitely stay here again. The beach access was incredible!"},
	{3, 0, 4, "Beautiful villa with amazing pool. Tropical gardens were stunning."},
}

const (
	bookedListings = 3
	nights         = 3
	userCount      = 3
)

// Run clears (unless Clear is nil) and seeds the database.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	out := printer{w: s.Out}
	if s.Out == nil {
		out.w = io.Discard
	}
	today := time.Now().UTC()
	if s.Today != nil {
		today = s.Today().UTC()
	}
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	out.line("Seeding database...")
	if s.Clear != nil {
		if err := s.Clear(ctx); err != nil {
			return res, fmt.Errorf("clear: %w", err)
		}
		out.success("Cleared existing data")
	}

	for _, ls := range listingSeeds {
		price := decimal.RequireFromString(ls.price)
		l, err := s.Listings.Create(ctx, model.ListingCandidate{
			HostID:        ptr(uuid.New()),
			Name:          ptr(ls.name),
			Description:   ptr(ls.description),
			Location:      ptr(ls.location),
			PricePerNight: &price,
		})
		if err != nil {
			return res, fmt.Errorf("listing %q: %w", ls.name, err)
		}
		res.Listings = append(res.Listings, *l)
		out.line("Created listing: %s", l.Name)
	}
	out.success("Successfully created %d listings", len(res.Listings))

	for range userCount {
		res.Users = append(res.Users, uuid.New())
	}

	for i, l := range res.Listings[:bookedListings] {
		start := today.AddDate(0, 0, (i+1)*7)
		end := start.AddDate(0, 0, nights)
		total := l.PricePerNight.Mul(decimal.NewFromInt(nights))
		b, err := s.Bookings.Create(ctx, model.BookingCandidate{
			ListingID:  &l.ID,
			UserID:     &res.Users[i%len(res.Users)],
			StartDate:  &start,
			EndDate:    &end,
			TotalPrice: &total,
			Status:     ptr(model.StatusConfirmed),
		})
		if err != nil {
			return res, fmt.Errorf("booking for %q: %w", l.Name, err)
		}
		res.Bookings = append(res.Bookings, *b)
		out.line("Created booking for: %s", b.ListingName)
	}
	out.success("Successfully created %d bookings", len(res.Bookings))

	for _, rs := range reviewSeeds {
		r, err := s.Reviews.Create(ctx, model.ReviewCandidate{
			ListingID: &res.Listings[rs.listing].ID,
			UserID:    &res.Users[rs.user],
			Rating:    ptr(rs.rating),
			Comment:   ptr(rs.comment),
		})
		if err != nil {
			return res, fmt.Errorf("review: %w", err)
		}
		res.Reviews = append(res.Reviews, *r)
		out.line("Created review for: %s", r.ListingName)
	}
	out.success("Successfully created %d reviews", len(res.Reviews))
	out.success("Database seeding completed successfully!")

	out.section("Summary:")
	out.muted("  - Listings: %d", len(res.Listings))
	out.muted("  - Bookings: %d", len(res.Bookings))
	out.muted("  - Reviews: %d", len(res.Reviews))
	return res, nil
}

func ptr[T any](v T) *T { return &v }
