package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-listings/internal/middleware"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/serializer"
	"github.com/iliyamo/travel-listings/internal/service"
)

// ReviewHandler serves /v1/reviews.  Reviews are created and deleted but
// never edited.
type ReviewHandler struct {
	Reviews *service.ReviewService // Reviews performs every review operation
}

// NewReviewHandler panics if svc is nil.
func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	if svc == nil {
		panic("nil service passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: svc}
}

// List handles GET /v1/reviews?listing=&user_id=&rating=.
func (h *ReviewHandler) List(c echo.Context) error {
	q := newQuery(c)
	f := repository.ReviewFilter{
		ListingID: q.uuid("listing"),
		UserID:    q.uuid("user_id"),
		Rating:    q.integer("rating"),
		Page:      q.page(),
	}
	if err := q.err(); err != nil {
		return writeError(c, err)
	}
	rs, total, err := h.Reviews.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, serializer.RenderReviews(rs), total, f.Page)
}

// Create handles POST /v1/reviews.  An omitted user_id is taken from the
// bearer token.
func (h *ReviewHandler) Create(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return writeError(c, err)
	}
	cand, err := serializer.ParseReview(body)
	if err != nil {
		return writeError(c, err)
	}
	if sub, ok := middleware.Subject(c); ok && cand.UserID == nil {
		cand.UserID = &sub
	}
	r, err := h.Reviews.Create(c.Request().Context(), cand)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.RenderReview(*r))
}

// Get handles GET /v1/reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	r, err := h.Reviews.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, serializer.RenderReview(*r))
}

// Delete handles DELETE /v1/reviews/:id.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.Reviews.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
