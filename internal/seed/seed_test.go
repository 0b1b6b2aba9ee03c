package seed

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/service"
	"github.com/iliyamo/travel-listings/internal/service/servicetest"
)

func TestRun(t *testing.T) {
	store := servicetest.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cleared := false
	var out bytes.Buffer

	s := &Seeder{
		Listings: service.NewListingService(store.ListingStore(), logger),
		Bookings: service.NewBookingService(store.BookingStore(), store.ListingStore(), nil, logger),
		Reviews:  service.NewReviewService(store.ReviewStore(), store.ListingStore(), logger),
		Clear:    func(context.Context) error { cleared = true; return nil },
		Today:    func() time.Time { return time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC) },
		Out:      &out,
	}

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Len(t, res.Listings, 5)
	assert.Len(t, res.Bookings, 3)
	assert.Len(t, res.Reviews, 5)
	assert.Len(t, store.Listings, 5)

	first := res.Bookings[0]
	assert.Equal(t, model.StatusConfirmed, first.Status)
	assert.Equal(t, "2024-03-17", first.StartDate.Format(time.DateOnly))
	assert.Equal(t, "2024-03-20", first.EndDate.Format(time.DateOnly))
	assert.Equal(t, "750.00", first.TotalPrice.StringFixed(2))
	assert.Equal(t, "2024-03-31", res.Bookings[2].StartDate.Format(time.DateOnly))
	assert.Equal(t, "1050.00", res.Bookings[2].TotalPrice.StringFixed(2))

	assert.Equal(t, "Cozy Beach House", res.Reviews[3].ListingName)
	assert.Equal(t, res.Users[1], res.Reviews[3].UserID)

	text := out.String()
	assert.Contains(t, text, "Created listing: Historic Victorian Home")
	assert.Contains(t, text, "Created booking for: Downtown Luxury Apartment")
	assert.Contains(t, text, "Successfully created 5 reviews")
	assert.Contains(t, text, "Reviews: 5")
}
