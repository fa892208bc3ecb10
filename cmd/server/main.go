package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/smartway/smartway-backend/internal/cache"
	"github.com/smartway/smartway-backend/internal/config"
	"github.com/smartway/smartway-backend/internal/database"
	"github.com/smartway/smartway-backend/internal/handler"
	"github.com/smartway/smartway-backend/internal/middleware"
	"github.com/smartway/smartway-backend/internal/notify"
	"github.com/smartway/smartway-backend/internal/repository"
	"github.com/smartway/smartway-backend/internal/service"
	"github.com/smartway/smartway-backend/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
			newrelic.ConfigInfoLogger(os.Stdout),
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize New Relic: %v", err)
		} else {
			log.Println("New Relic initialized successfully")
			if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
				log.Printf("Warning: New Relic connection timeout: %v", err)
			}
		}
	}

	// Initialize PostgreSQL
	db, err := database.NewPostgres(
		cfg.DatabaseURL,
		cfg.DBMaxConnections,
		cfg.DBMaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis
	redis, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	log.Println("Connected to Redis")

	// Initialize cache
	policyCache := cache.NewPolicyCache(redis.Client, cfg.PolicyCacheTTL)

	// Initialize notifier
	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramBotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.TelegramBotToken)
		log.Println("Telegram notifications enabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	carRepo := repository.NewCarRepository(db.DB)
	locationRepo := repository.NewLocationRepository(db.DB)
	tripRepo := repository.NewTripRepository(db.DB)
	announcementRepo := repository.NewAnnouncementRepository(db.DB)
	bookingRepo := repository.NewBookingRepository(db.DB)
	reviewRepo := repository.NewReviewRepository(db.DB)
	billingRepo := repository.NewBillingRepository(db.DB)

	// Initialize services
	locationService := service.NewLocationService(locationRepo)
	billingService := service.NewBillingService(billingRepo, userRepo, policyCache, cfg.DefaultViewDelay)
	userService := service.NewUserService(userRepo, carRepo)
	tripService := service.NewTripService(tripRepo, userRepo, carRepo, locationService, billingService, notifier)
	announcementService := service.NewAnnouncementService(db.DB, announcementRepo, bookingRepo, userRepo, carRepo, locationService, notifier)
	bookingService := service.NewBookingService(db.DB, bookingRepo, announcementRepo, userRepo, notifier)
	reviewService := service.NewReviewService(reviewRepo, tripRepo, bookingRepo, announcementRepo, userRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService, reviewService)
	locationHandler := handler.NewLocationHandler(locationService)
	tripHandler := handler.NewTripHandler(tripService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	billingHandler := handler.NewBillingHandler(billingService)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-User-ID"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// New Relic middleware
	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := db.Health(ctx); err != nil {
			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
			return
		}
		if err := redis.Health(ctx); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","services":{"database":"up","redis":"up"}}`))
	})

	rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimitRequests, cfg.RateLimitWindow)
	idempotencyMw := middleware.NewIdempotencyMiddleware(redis.Client)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimiter.Handler)

		// Registration and location lookup do not need an identity
		userHandler.RegisterPublicRoutes(r)
		locationHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(idempotencyMw.Handler)

			userHandler.RegisterRoutes(r)
			locationHandler.RegisterRoutes(r)
			tripHandler.RegisterRoutes(r)
			announcementHandler.RegisterRoutes(r)
			bookingHandler.RegisterRoutes(r)
			reviewHandler.RegisterRoutes(r)
			billingHandler.RegisterRoutes(r)
		})
	})

	// Background expiry sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := worker.NewSweeper(tripRepo, announcementRepo, cfg.SweepInterval)
	go sweeper.Run(sweepCtx)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		stopSweeper()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
