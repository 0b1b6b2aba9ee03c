package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-listings/internal/handler"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/router"
	"github.com/iliyamo/travel-listings/internal/service"
	"github.com/iliyamo/travel-listings/internal/service/servicetest"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type api struct {
	e     *echo.Echo
	store *servicetest.Store
}

func newAPI(t *testing.T, secret string) *api {
	t.Helper()
	store := servicetest.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	listings := service.NewListingService(store.ListingStore(), logger)
	bookings := service.NewBookingService(store.BookingStore(), store.ListingStore(), &servicetest.Recorder{}, logger)
	reviews := service.NewReviewService(store.ReviewStore(), store.ListingStore(), logger)

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Health:   &handler.HealthHandler{DB: pinger{}},
		Listings: handler.NewListingHandler(listings, bookings, reviews),
		Bookings: handler.NewBookingHandler(bookings),
		Reviews:  handler.NewReviewHandler(reviews),
	}, router.Options{JWTSecret: secret})
	return &api{e: e, store: store}
}

func (a *api) call(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const listingBody = `{
	"host_id": "5b0e1c52-4b8f-4e5e-9d36-8f3f7d2b1a10",
	"name": "Cozy Beach House",
	"description": "Steps from the sand",
	"location": "Malibu",
	"price_per_night": "250.00"
}`

func (a *api) createListing(t *testing.T) string {
	t.Helper()
	rec := a.call(http.MethodPost, "/v1/listings", listingBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["listing_id"].(string)
}

func bookingBody(listing, start, end string) string {
	return `{"listing":"` + listing + `","user_id":"` + uuid.NewString() + `","start_date":"` + start + `","end_date":"` + end + `","total_price":"750.00"}`
}

func TestHealth(t *testing.T) {
	a := newAPI(t, "")
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/readyz", "").Code)

	h := &handler.HealthHandler{DB: pinger{err: errors.New("down")}}
	e := echo.New()
	e.GET("/readyz", h.Ready)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateListing(t *testing.T) {
	a := newAPI(t, "")

	rec := a.call(http.MethodPost, "/v1/listings", listingBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "250.00", got["price_per_night"])
	assert.Equal(t, "Cozy Beach House", got["name"])
	assert.NotEmpty(t, got["listing_id"])

	zero := strings.Replace(listingBody, `"250.00"`, `"0"`, 1)
	rec = a.call(http.MethodPost, "/v1/listings", zero)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"price_per_night":["Price per night must be greater than zero."]}`, rec.Body.String())
	assert.Len(t, a.store.Listings, 1)
}

func TestMalformedBodyAndBadPath(t *testing.T) {
	a := newAPI(t, "")

	rec := a.call(http.MethodPost, "/v1/listings", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/listings/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/listings/"+uuid.NewString(), "").Code)
}

func TestBookingLifecycle(t *testing.T) {
	a := newAPI(t, "")
	listing := a.createListing(t)

	rec := a.call(http.MethodPost, "/v1/bookings", bookingBody(listing, "2024-06-05", "2024-06-05"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"non_field_errors":["End date must be after start date."]}`, rec.Body.String())

	missing := uuid.NewString()
	rec = a.call(http.MethodPost, "/v1/bookings", bookingBody(missing, "2024-06-01", "2024-06-04"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"listing":["Invalid pk \"`+missing+`\" - object does not exist."]}`, rec.Body.String())

	rec = a.call(http.MethodPost, "/v1/bookings", bookingBody(listing, "2024-06-01", "2024-06-04"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := decode(t, rec)
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, "Cozy Beach House", booking["listing_name"])
	assert.Equal(t, "2024-06-01", booking["start_date"])
	id := booking["booking_id"].(string)

	rec = a.call(http.MethodPatch, "/v1/listings/"+listing, `{"name":"Renamed House","location":"Venice"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode(t, a.call(http.MethodGet, "/v1/bookings/"+id, ""))
	assert.Equal(t, "Renamed House", got["listing_name"])
	assert.Equal(t, "Venice", got["listing_location"])

	rec = a.call(http.MethodPost, "/v1/bookings/"+id+"/confirm", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decode(t, rec)["status"])
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/v1/bookings/"+id+"/confirm", "").Code)
	assert.Equal(t, http.StatusOK, a.call(http.MethodPost, "/v1/bookings/"+id+"/cancel", "").Code)
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/v1/bookings/"+id+"/cancel", "").Code)

	list := decode(t, a.call(http.MethodGet, "/v1/listings/"+listing+"/bookings", ""))
	assert.EqualValues(t, 1, list["total"])
	assert.EqualValues(t, 1, list["page"])
	assert.EqualValues(t, 20, list["page_size"])
}

func TestBookingListRejectsBadFilters(t *testing.T) {
	a := newAPI(t, "")
	rec := a.call(http.MethodGet, "/v1/bookings?listing=nope&from=June&status=done", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode(t, rec)
	assert.Contains(t, got, "listing")
	assert.Contains(t, got, "from")
	assert.Contains(t, got, "status")
}

func TestReviewRatingOutOfRange(t *testing.T) {
	a := newAPI(t, "")
	listing := a.createListing(t)

	rec := a.call(http.MethodPost, "/v1/reviews", `{"listing":"`+listing+`","rating":6,"comment":"Too good"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, []any{"Rating must be between 1 and 5."}, got["rating"])
	assert.Empty(t, a.store.Reviews)
}

func TestDeleteListingCascades(t *testing.T) {
	a := newAPI(t, "")
	listing := a.createListing(t)

	rec := a.call(http.MethodPost, "/v1/bookings", bookingBody(listing, "2024-06-01", "2024-06-04"))
	require.Equal(t, http.StatusCreated, rec.Code)
	booking := decode(t, rec)["booking_id"].(string)
	rec = a.call(http.MethodPost, "/v1/reviews", `{"listing":"`+listing+`","user_id":"`+uuid.NewString()+`","rating":5,"comment":"Great"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	review := decode(t, rec)["review_id"].(string)

	assert.Equal(t, http.StatusNoContent, a.call(http.MethodDelete, "/v1/listings/"+listing, "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/bookings/"+booking, "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/reviews/"+review, "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodDelete, "/v1/listings/"+listing, "").Code)
}

func TestWritesRequireTokenWhenSecretSet(t *testing.T) {
	const secret = "test-secret"
	a := newAPI(t, secret)

	assert.Equal(t, http.StatusUnauthorized, a.call(http.MethodPost, "/v1/listings", listingBody).Code)
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/listings", "").Code)

	host := uuid.New()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   host.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	body := `{"name":"Mountain Cabin Retreat","description":"Quiet","location":"Aspen","price_per_night":180}`
	rec := a.call(http.MethodPost, "/v1/listings", body, echo.HeaderAuthorization, "Bearer "+tok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, host.String(), decode(t, rec)["host_id"])
}

func TestExponentNumbersRejectedQuickly(t *testing.T) {
	a := newAPI(t, "")
	listing := a.createListing(t)

	tests := []struct {
		method, target, body, field string
	}{
		{http.MethodPost, "/v1/reviews", `{"listing":"` + listing + `","user_id":"` + uuid.NewString() + `","rating":1e20000000}`, "rating"},
		{http.MethodPatch, "/v1/listings/" + listing, `{"price_per_night": 1e20000000}`, "price_per_night"},
		{http.MethodPatch, "/v1/listings/" + listing, `{"price_per_night": 1e-20000000}`, "price_per_night"},
	}
	for _, tt := range tests {
		start := time.Now()
		rec := a.call(tt.method, tt.target, tt.body)
		assert.Less(t, time.Since(start), time.Second, tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		assert.Contains(t, decode(t, rec), tt.field)
	}
}

func TestListPageBeyondRangeIsClamped(t *testing.T) {
	a := newAPI(t, "")
	rec := a.call(http.MethodGet, "/v1/listings?page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode(t, rec)
	assert.EqualValues(t, repository.MaxPage, got["page"])
}
