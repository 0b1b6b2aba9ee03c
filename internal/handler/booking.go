package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-listings/internal/middleware"
	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/serializer"
	"github.com/iliyamo/travel-listings/internal/service"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// BookingHandler serves /v1/bookings.
type BookingHandler struct {
	Bookings *service.BookingService // Bookings performs every booking operation
}

// NewBookingHandler panics if svc is nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: svc}
}

// List handles GET /v1/bookings?listing=&user_id=&status=&from=&to=.
// from/to select bookings whose stay overlaps [from, to).
func (h *BookingHandler) List(c echo.Context) error {
	q := newQuery(c)
	f := repository.BookingFilter{
		ListingID: q.uuid("listing"),
		UserID:    q.uuid("user_id"),
		From:      q.date("from"),
		To:        q.date("to"),
		Page:      q.page(),
	}
	if s := c.QueryParam("status"); s != "" {
		st := model.BookingStatus(s)
		if !st.Valid() {
			q.errs = append(q.errs, validation.NewError("status", `"`+s+`" is not a valid choice.`))
		}
		f.Status = &st
	}
	if err := q.err(); err != nil {
		return writeError(c, err)
	}
	bs, total, err := h.Bookings.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, serializer.RenderBookings(bs), total, f.Page)
}

// Create handles POST /v1/bookings.  An omitted user_id is taken from the
// bearer token.
func (h *BookingHandler) Create(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return writeError(c, err)
	}
	cand, err := serializer.ParseBooking(body)
	if err != nil {
		return writeError(c, err)
	}
	if sub, ok := middleware.Subject(c); ok && cand.UserID == nil {
		cand.UserID = &sub
	}
	b, err := h.Bookings.Create(c.Request().Context(), cand)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.RenderBooking(*b))
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	b, err := h.Bookings.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, serializer.RenderBooking(*b))
}

// Replace handles PUT /v1/bookings/:id.
func (h *BookingHandler) Replace(c echo.Context) error { return h.update(c, validation.Full) }

// Patch handles PATCH /v1/bookings/:id.
func (h *BookingHandler) Patch(c echo.Context) error { return h.update(c, validation.Partial) }

func (h *BookingHandler) update(c echo.Context, mode validation.Mode) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	body, err := readBody(c)
	if err != nil {
		return writeError(c, err)
	}
	cand, err := serializer.ParseBooking(body)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.Bookings.Update(c.Request().Context(), id, cand, mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, serializer.RenderBooking(*b))
}

// Confirm handles POST /v1/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.Bookings.Confirm)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.Bookings.Cancel)
}

type transitionFunc func(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error)

func (h *BookingHandler) transition(c echo.Context, fn transitionFunc) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	b, err := fn(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, serializer.RenderBooking(*b))
}

// Delete handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
