// Command server runs the listings API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/travel-listings/internal/config"
	"github.com/iliyamo/travel-listings/internal/database"
	"github.com/iliyamo/travel-listings/internal/handler"
	"github.com/iliyamo/travel-listings/internal/queue"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/router"
	"github.com/iliyamo/travel-listings/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Error("connect database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Error("apply schema", "err", err)
		os.Exit(1)
	}

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		logger.Warn("redis unavailable; caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue)
	}
	if cfg.Events.ConsumerEnabled {
		consumer := queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, cfg.Events.LogPath, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", "err", err)
			}
		}()
	}

	listingRepo := repository.NewListingRepo(db)
	listings := service.NewListingService(listingRepo, logger)
	bookings := service.NewBookingService(repository.NewBookingRepo(db), listingRepo, events, logger)
	reviews := service.NewReviewService(repository.NewReviewRepo(db), listingRepo, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))

	router.RegisterRoutes(e, router.Handlers{
		Health:   &handler.HealthHandler{DB: db},
		Listings: handler.NewListingHandler(listings, bookings, reviews),
		Bookings: handler.NewBookingHandler(bookings),
		Reviews:  handler.NewReviewHandler(reviews),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env, "auth", cfg.JWTSecret != "", "events", cfg.Events.Enabled)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
