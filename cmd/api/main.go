package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/config"
	"github.com/yosef-agil/thirtys-api/internal/domain/admin"
	"github.com/yosef-agil/thirtys-api/internal/domain/booking"
	"github.com/yosef-agil/thirtys-api/internal/domain/feed"
	"github.com/yosef-agil/thirtys-api/internal/domain/promo"
	"github.com/yosef-agil/thirtys-api/internal/domain/service"
	"github.com/yosef-agil/thirtys-api/internal/domain/timeslot"
	"github.com/yosef-agil/thirtys-api/internal/middleware"
	"github.com/yosef-agil/thirtys-api/internal/pkg/database"
	"github.com/yosef-agil/thirtys-api/internal/pkg/imaging"
	"github.com/yosef-agil/thirtys-api/internal/pkg/jwt"
	"github.com/yosef-agil/thirtys-api/internal/pkg/response"
	"github.com/yosef-agil/thirtys-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting and feed fan-out degraded")
		redisClient = nil
	}
	if redisClient != nil {
		defer database.CloseRedis(redisClient)
	}

	proofStore, err := buildStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize proof storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	processor := imaging.NewProcessor(imaging.DefaultConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := feed.NewHub(redisClient)
	go hub.Run(ctx)

	// repositories
	serviceRepo := service.NewRepository(db)
	timeslotRepo := timeslot.NewRepository(db)
	promoRepo := promo.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// services
	timeslotSvc := timeslot.NewService(timeslotRepo)
	promoSvc := promo.NewService(promoRepo)
	bookingSvc := booking.NewService(bookingRepo, serviceRepo, timeslotRepo, promoSvc, promoRepo, proofStore, processor, hub)
	adminSvc := admin.NewService(adminRepo, jwtService)

	// handlers
	serviceHandler := service.NewHandler(serviceRepo)
	timeslotHandler := timeslot.NewHandler(timeslotSvc)
	promoHandler := promo.NewHandler(promoSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	adminHandler := admin.NewHandler(adminSvc)
	feedHandler := feed.NewHandler(hub, cfg.AllowedOrigins)

	adminAuth := middleware.AdminAuth(jwtService)
	rateLimit := middleware.RateLimit(redisClient, cfg.RateLimitPerMinute)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", adminHandler.Routes(adminAuth, rateLimit))
		r.Mount("/services", serviceHandler.Routes(adminAuth))
		r.Mount("/packages", serviceHandler.PackageRoutes(adminAuth))
		r.Mount("/time-slots", timeslotHandler.Routes(adminAuth))
		r.Mount("/promo-codes", promoHandler.Routes(adminAuth, rateLimit))
		r.Mount("/bookings", bookingHandler.Routes(adminAuth, rateLimit))
	})

	r.With(adminAuth).Get("/ws/admin/feed", feedHandler.Serve)

	// local proof files are served directly; R2 serves from its public URL
	if !cfg.UseR2() {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalStoragePath)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.UseR2() {
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
	}
	return storage.NewLocalStorage(cfg.LocalStoragePath, cfg.LocalStorageURL)
}
