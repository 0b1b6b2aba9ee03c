// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/travel-listings/internal/config"
	"github.com/iliyamo/travel-listings/internal/handler"
	"github.com/iliyamo/travel-listings/internal/middleware"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Health   *handler.HealthHandler
	Listings *handler.ListingHandler
	Bookings *handler.BookingHandler
	Reviews  *handler.ReviewHandler
}

// Options configure the middleware applied to /v1.  A nil Redis client
// disables caching and rate limiting; an empty JWTSecret leaves writes
// unauthenticated.
type Options struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// RegisterRoutes mounts the health probes and the /v1 API on e.  Reads are
// public; writes go through JWTAuth when a secret is configured.
func RegisterRoutes(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/healthz", h.Health.Live)
	e.GET("/readyz", h.Health.Ready)

	v1 := e.Group("/v1",
		middleware.NewTokenBucket(opts.RateLimit, opts.Redis),
		middleware.NewRedisCache(opts.Cache, opts.Redis),
	)

	// write holds the middleware of mutating routes.
	var write []echo.MiddlewareFunc
	if opts.JWTSecret != "" {
		write = append(write, middleware.JWTAuth(opts.JWTSecret))
	}

	v1.GET("/listings", h.Listings.List)
	v1.POST("/listings", h.Listings.Create, write...)
	v1.GET("/listings/:id", h.Listings.Get)
	v1.PUT("/listings/:id", h.Listings.Replace, write...)
	v1.PATCH("/listings/:id", h.Listings.Patch, write...)
	v1.DELETE("/listings/:id", h.Listings.Delete, write...)
	v1.GET("/listings/:id/bookings", h.Listings.ListBookings)
	v1.GET("/listings/:id/reviews", h.Listings.ListReviews)

	v1.GET("/bookings", h.Bookings.List)
	v1.POST("/bookings", h.Bookings.Create, write...)
	v1.GET("/bookings/:id", h.Bookings.Get)
	v1.PUT("/bookings/:id", h.Bookings.Replace, write...)
	v1.PATCH("/bookings/:id", h.Bookings.Patch, write...)
	v1.DELETE("/bookings/:id", h.Bookings.Delete, write...)
	v1.POST("/bookings/:id/confirm", h.Bookings.Confirm, write...)
	v1.POST("/bookings/:id/cancel", h.Bookings.Cancel, write...)

	v1.GET("/reviews", h.Reviews.List)
	v1.POST("/reviews", h.Reviews.Create, write...)
	v1.GET("/reviews/:id", h.Reviews.Get)
	v1.DELETE("/reviews/:id", h.Reviews.Delete, write...)
}
