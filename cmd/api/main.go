package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/sharekit/sharekit-api/internal/config"
	"github.com/sharekit/sharekit-api/internal/domain/booking"
	"github.com/sharekit/sharekit-api/internal/domain/item"
	"github.com/sharekit/sharekit-api/internal/domain/request"
	"github.com/sharekit/sharekit-api/internal/domain/user"
	"github.com/sharekit/sharekit-api/internal/middleware"
	"github.com/sharekit/sharekit-api/internal/pkg/cache"
	"github.com/sharekit/sharekit-api/internal/pkg/clock"
	"github.com/sharekit/sharekit-api/internal/pkg/database"
	"github.com/sharekit/sharekit-api/internal/pkg/logger"
	"github.com/sharekit/sharekit-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting ShareKit API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	itemCache := cache.New(redis, cfg.ItemCacheTTL)
	clk := clock.System()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	itemRepo := item.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	requestRepo := request.NewRepository(db)

	// ---------- Adapters ----------
	bookingUsers := &bookingUserAdapter{repo: userRepo}
	itemUsers := &itemUserAdapter{repo: userRepo}
	requestUsers := &userCheckerAdapter{repo: userRepo}
	items := &itemProviderAdapter{repo: itemRepo}
	bookings := &bookingProviderAdapter{repo: bookingRepo}

	// ---------- Services ----------
	userService := user.NewService(userRepo)
	itemService := item.NewService(itemRepo, bookings, itemUsers, itemCache, clk)
	bookingService := booking.NewService(bookingRepo, items, bookingUsers, clk)

	// ---------- Handlers ----------
	userHandler := user.NewHandler(userService)
	itemHandler := item.NewHandler(itemService)
	bookingHandler := booking.NewHandler(bookingService)
	requestHandler := request.NewHandler(requestRepo, requestUsers)

	identity := middleware.Identity()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Mount("/users", userHandler.Routes())
	r.Mount("/items", itemHandler.Routes(identity))
	r.Mount("/bookings", bookingHandler.Routes(identity))
	r.Mount("/requests", requestHandler.Routes(identity))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Cross-domain adapters. Each domain declares the narrow interface it needs;
// these satisfy them on top of the concrete repositories.

type bookingUserAdapter struct {
	repo user.Repository
}

func (a *bookingUserAdapter) UserInfo(ctx context.Context, userID int64) (*booking.UserInfo, error) {
	u, err := a.repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	return &booking.UserInfo{ID: u.ID, Name: u.Name}, nil
}

type itemUserAdapter struct {
	repo user.Repository
}

func (a *itemUserAdapter) UserInfo(ctx context.Context, userID int64) (*item.UserInfo, error) {
	u, err := a.repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	return &item.UserInfo{ID: u.ID, Name: u.Name}, nil
}

type userCheckerAdapter struct {
	repo user.Repository
}

func (a *userCheckerAdapter) Exists(ctx context.Context, userID int64) (bool, error) {
	u, err := a.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

type itemProviderAdapter struct {
	repo item.Repository
}

func (a *itemProviderAdapter) ItemInfo(ctx context.Context, itemID int64) (*booking.ItemInfo, error) {
	i, err := a.repo.GetByID(ctx, itemID)
	if err != nil || i == nil {
		return nil, err
	}
	return &booking.ItemInfo{
		ID:        i.ID,
		Name:      i.Name,
		OwnerID:   i.OwnerID,
		Available: i.Available,
	}, nil
}

type bookingProviderAdapter struct {
	repo booking.Repository
}

func (a *bookingProviderAdapter) LastApproved(ctx context.Context, itemID int64, before time.Time) (*item.BookingShortInfo, error) {
	b, err := a.repo.LastForItem(ctx, itemID, before, booking.StatusApproved)
	if err != nil || b == nil {
		return nil, err
	}
	return &item.BookingShortInfo{ID: b.ID, BookerID: b.BookerID}, nil
}

func (a *bookingProviderAdapter) NextApproved(ctx context.Context, itemID int64, after time.Time) (*item.BookingShortInfo, error) {
	b, err := a.repo.NextForItem(ctx, itemID, after, booking.StatusApproved)
	if err != nil || b == nil {
		return nil, err
	}
	return &item.BookingShortInfo{ID: b.ID, BookerID: b.BookerID}, nil
}

func (a *bookingProviderAdapter) HasCompletedStay(ctx context.Context, itemID, userID int64, before time.Time) (bool, error) {
	return a.repo.ExistsCompleted(ctx, itemID, userID, before, booking.StatusApproved)
}
