package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-listings/internal/middleware"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/serializer"
	"github.com/iliyamo/travel-listings/internal/service"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// ListingHandler serves /v1/listings and the per-listing booking and
// review collections.
type ListingHandler struct {
	Listings *service.ListingService // Listings serves the listing routes
	Bookings *service.BookingService // Bookings lists the bookings of a listing
	Reviews  *service.ReviewService  // Reviews lists the reviews of a listing
}

// NewListingHandler panics if any dependency is nil.
func NewListingHandler(listings *service.ListingService, bookings *service.BookingService, reviews *service.ReviewService) *ListingHandler {
	if listings == nil || bookings == nil || reviews == nil {
		panic("nil service passed to NewListingHandler")
	}
	return &ListingHandler{Listings: listings, Bookings: bookings, Reviews: reviews}
}

// List handles GET /v1/listings?host_id=&location=&page=&page_size=.
func (h *ListingHandler) List(c echo.Context) error {
	q := newQuery(c)
	f := repository.ListingFilter{
		HostID:   q.uuid("host_id"),
		Location: c.QueryParam("location"),
		Page:     q.page(),
	}
	if err := q.err(); err != nil {
		return writeError(c, err)
	}
	ls, total, err := h.Listings.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, serializer.RenderListings(ls), total, f.Page)
}

// Create handles POST /v1/listings.  An omitted host_id is taken from the
// bearer token.
func (h *ListingHandler) Create(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return writeError(c, err)
	}
	cand, err := serializer.ParseListing(body)
	if err != nil {
		return writeError(c, err)
	}
	if sub, ok := middleware.Subject(c); ok && cand.HostID == nil {
		cand.HostID = &sub
	}
	l, err := h.Listings.Create(c.Request().Context(), cand)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.RenderListing(*l))
}

// Get handles GET /v1/listings/:id.
func (h *ListingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	l, err := h.Listings.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, serializer.RenderListing(*l))
}

// Replace handles PUT /v1/listings/:id.
func (h *ListingHandler) Replace(c echo.Context) error {
	return h.update(c, validation.Full)
}

// Patch handles PATCH /v1/listings/:id.
func (h *ListingHandler) Patch(c echo.Context) error {
	return h.update(c, validation.Partial)
}

func (h *ListingHandler) update(c echo.Context, mode validation.Mode) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	body, err := readBody(c)
	if err != nil {
		return writeError(c, err)
	}
	cand, err := serializer.ParseListing(body)
	if err != nil {
		return writeError(c, err)
	}
	l, err := h.Listings.Update(c.Request().Context(), id, cand, mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, serializer.RenderListing(*l))
}

// Delete handles DELETE /v1/listings/:id.  Bookings and reviews of the
// listing are removed with it in one transaction.  It responds 204 with
// no body, or 404 when the listing does not exist.
func (h *ListingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	if _, err := h.Listings.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /v1/listings/:id/bookings.
func (h *ListingHandler) ListBookings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	ctx := c.Request().Context()
	if _, err := h.Listings.Get(ctx, id); err != nil {
		return writeError(c, err)
	}
	f := repository.BookingFilter{ListingID: &id, Page: newQuery(c).page()}
	bs, total, err := h.Bookings.List(ctx, f)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, serializer.RenderBookings(bs), total, f.Page)
}

// ListReviews handles GET /v1/listings/:id/reviews.
func (h *ListingHandler) ListReviews(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	ctx := c.Request().Context()
	if _, err := h.Listings.Get(ctx, id); err != nil {
		return writeError(c, err)
	}
	f := repository.ReviewFilter{ListingID: &id, Page: newQuery(c).page()}
	rs, total, err := h.Reviews.List(ctx, f)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, serializer.RenderReviews(rs), total, f.Page)
}
