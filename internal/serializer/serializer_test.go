package serializer

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/validation"
)

var (
	listingID = uuid.MustParse("6f1c2a7e-3b54-4a0e-9d55-0d5e8f6b1a01")
	hostID    = uuid.MustParse("0b8f9c3d-7e21-4f6a-8c4b-5a2d1e0f9b02")
	userID    = uuid.MustParse("a3e5d7c9-1b2f-4c6e-8a0d-2f4b6d8e0c03")
	created   = time.Date(2025, 5, 20, 9, 30, 15, 123456000, time.UTC)
)

func TestRenderListing(t *testing.T) {
	l := model.Listing{
		ID:            listingID,
		HostID:        hostID,
		Name:          "Cozy Beach House",
		Description:   "Ocean views.",
		Location:      "Malibu, California",
		PricePerNight: decimal.RequireFromString("250"),
		CreatedAt:     created,
		UpdatedAt:     created.Add(time.Hour),
	}
	b, err := json.Marshal(RenderListing(l))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, listingID.String(), got["listing_id"])
	assert.Equal(t, hostID.String(), got["host_id"])
	assert.Equal(t, "250.00", got["price_per_night"])
	assert.Equal(t, "2025-05-20T09:30:15.123456Z", got["created_at"])
	assert.Equal(t, "2025-05-20T10:30:15.123456Z", got["updated_at"])
	assert.Len(t, got, 8)
}

func TestRenderBooking_DerivedFields(t *testing.T) {
	b := model.BookingDetail{
		Booking: model.Booking{
			ID:         uuid.New(),
			ListingID:  listingID,
			UserID:     userID,
			StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			TotalPrice: decimal.RequireFromString("750"),
			Status:     model.StatusPending,
			CreatedAt:  created,
		},
		ListingName:     "Cozy Beach House",
		ListingLocation: "Malibu, California",
	}
	r := RenderBooking(b)
	assert.Equal(t, listingID.String(), r.Listing)
	assert.Equal(t, "Cozy Beach House", r.ListingName)
	assert.Equal(t, "Malibu, California", r.ListingLocation)
	assert.Equal(t, "2025-06-01", r.StartDate)
	assert.Equal(t, "2025-06-04", r.EndDate)
	assert.Equal(t, "750.00", r.TotalPrice)
	assert.Equal(t, "pending", r.Status)
}

func TestRenderReview(t *testing.T) {
	r := RenderReview(model.ReviewDetail{
		Review:      model.Review{ID: uuid.New(), ListingID: listingID, UserID: userID, Rating: 4, Comment: "nice", CreatedAt: created},
		ListingName: "Mountain Cabin Retreat",
	})
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, "Mountain Cabin Retreat", r.ListingName)
	assert.Equal(t, listingID.String(), r.Listing)
}

func TestParseListing_IgnoresOutputOnlyKeys(t *testing.T) {
	body := `{"listing_id":"` + uuid.NewString() + `","created_at":"x","host_id":"` + hostID.String() +
		`","name":"Cabin","description":"d","location":"Aspen","price_per_night":"180.00"}`
	c, err := ParseListing([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, c.PricePerNight)
	assert.True(t, c.PricePerNight.Equal(decimal.RequireFromString("180")))
	assert.Equal(t, hostID, *c.HostID)
	assert.Equal(t, "Cabin", *c.Name)
}

func TestParseListing_NumericPrice(t *testing.T) {
	c, err := ParseListing([]byte(`{"price_per_night": 99.5}`))
	require.NoError(t, err)
	assert.Equal(t, "99.50", c.PricePerNight.StringFixed(2))
	assert.Nil(t, c.Name)
}

func TestParseListing_TypeErrors(t *testing.T) {
	_, err := ParseListing([]byte(`{"host_id":"nope","name":5,"price_per_night":"abc","location":null}`))
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, map[string][]string{
		"host_id":         {msgUUID},
		"name":            {msgString},
		"price_per_night": {msgNumber},
		"location":        {msgNull},
	}, errs.Messages())
}

func TestParse_Malformed(t *testing.T) {
	for _, body := range []string{``, `[]`, `{"name":`, `"text"`} {
		_, err := ParseListing([]byte(body))
		assert.True(t, errors.Is(err, ErrMalformed), "body %q", body)
	}
}

func TestParseBooking(t *testing.T) {
	body := `{"listing":"` + listingID.String() + `","user_id":"` + userID.String() +
		`","start_date":"2025-06-01","end_date":"2025-06-04","total_price":750,"listing_name":"ignored"}`
	c, err := ParseBooking([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, listingID, *c.ListingID)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), *c.EndDate)
	assert.Nil(t, c.Status)
}

func TestParseBooking_Errors(t *testing.T) {
	_, err := ParseBooking([]byte(`{"start_date":"06/01/2025","status":"archived"}`))
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, msgDate, errs.Field("start_date").Message)
	assert.Equal(t, `"archived" is not a valid choice.`, errs.Field("status").Message)
}

func TestParseReview_Rating(t *testing.T) {
	c, err := ParseReview([]byte(`{"rating":"4"}`))
	require.NoError(t, err)
	assert.Equal(t, 4, *c.Rating)

	_, err = ParseReview([]byte(`{"rating":4.5}`))
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, msgInteger, errs.Field("rating").Message)
}

func TestParse_ExponentNotationBounded(t *testing.T) {
	tests := []struct {
		name  string
		parse func([]byte) error
		body  string
		field string
		msg   string
	}{
		{"huge price", listingErr, `{"price_per_night": 1e999999999}`, "price_per_night", msgNumber},
		{"tiny price", listingErr, `{"price_per_night": "1e-999999999"}`, "price_per_night", msgNumber},
		{"huge total", bookingErr, `{"total_price": 1e20000000}`, "total_price", msgNumber},
		{"huge rating", reviewErr, `{"rating": 1e20000000}`, "rating", msgInteger},
		{"tiny rating", reviewErr, `{"rating": 1e-999999999}`, "rating", msgInteger},
		{"rating beyond int32", reviewErr, `{"rating": 4294967296}`, "rating", msgInteger},
		{"long literal", listingErr, `{"price_per_night": 1.00000000000000000000000000000000000000000001}`, "price_per_night", msgNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			err := tt.parse([]byte(tt.body))
			assert.Less(t, time.Since(start), 100*time.Millisecond)
			errs, ok := validation.AsErrors(err)
			require.True(t, ok, "got %v", err)
			require.NotNil(t, errs.Field(tt.field))
			assert.Equal(t, tt.msg, errs.Field(tt.field).Message)
		})
	}
}

func TestParse_ExponentWithinBounds(t *testing.T) {
	c, err := ParseListing([]byte(`{"price_per_night": 2.5e2}`))
	require.NoError(t, err)
	assert.Equal(t, "250.00", c.PricePerNight.StringFixed(2))

	r, err := ParseReview([]byte(`{"rating": 5e0}`))
	require.NoError(t, err)
	assert.Equal(t, 5, *r.Rating)
}

func listingErr(b []byte) error {
	_, err := ParseListing(b)
	return err
}

func bookingErr(b []byte) error {
	_, err := ParseBooking(b)
	return err
}

func reviewErr(b []byte) error {
	_, err := ParseReview(b)
	return err
}
