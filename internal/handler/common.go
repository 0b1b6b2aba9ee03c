// Package handler exposes the HTTP handlers of the listings API.  Handlers
// parse requests through the serializer package, delegate to the services
// and map errors to status codes in one place.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/serializer"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeError maps service errors to responses:
//
//	validation.Errors                 400 {"<field>": ["<message>"]}
//	serializer.ErrMalformed           400 {"error": "invalid request body"}
//	repository.ErrNotFound            404
//	*repository.ConstraintViolation   409
//	repository.ErrConflict            409
//	anything else                     500
func writeError(c echo.Context, err error) error {
	if errs, ok := validation.AsErrors(err); ok {
		return c.JSON(http.StatusBadRequest, errs.Messages())
	}
	var cv *repository.ConstraintViolation
	switch {
	case errors.Is(err, serializer.ErrMalformed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &cv):
		return c.JSON(http.StatusConflict, echo.Map{"error": "constraint violation", "constraint": cv.Constraint})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	slog.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method, "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// notFound is returned for path ids that are not UUIDs; no such row can
// exist.
func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// readBody reads the request body up to maxBodyBytes.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return nil, serializer.ErrMalformed
	}
	return body, nil
}

// listResponse is the envelope of every collection response.
type listResponse struct {
	Data     any   `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func writeList(c echo.Context, data any, total int64, p repository.Page) error {
	p = p.Normalize()
	return c.JSON(http.StatusOK, listResponse{Data: data, Total: total, Page: p.Page, PageSize: p.PageSize})
}

// query parses filter parameters and collects one error per bad key.
type query struct {
	c    echo.Context
	errs validation.Errors
}

func newQuery(c echo.Context) *query { return &query{c: c} }

func (q *query) uuid(key string) *uuid.UUID {
	v := q.c.QueryParam(key)
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		q.errs = append(q.errs, validation.NewError(key, "Must be a valid UUID."))
		return nil
	}
	return &id
}

func (q *query) date(key string) *time.Time {
	v := q.c.QueryParam(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		q.errs = append(q.errs, validation.NewError(key, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."))
		return nil
	}
	return &t
}

func (q *query) integer(key string) *int {
	v := q.c.QueryParam(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errs = append(q.errs, validation.NewError(key, "A valid integer is required."))
		return nil
	}
	return &n
}

// page reads page and page_size; values that do not parse fall back to
// the defaults.
func (q *query) page() repository.Page {
	var p repository.Page
	p.Page, _ = strconv.Atoi(q.c.QueryParam("page"))
	p.PageSize, _ = strconv.Atoi(q.c.QueryParam("page_size"))
	return p.Normalize()
}

func (q *query) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return q.errs
}
