package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/hibiken/asynq"
	_ "github.com/hotelbooking/backend/docs"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/auth"
	"github.com/hotelbooking/backend/internal/config"
	"github.com/hotelbooking/backend/internal/database"
	"github.com/hotelbooking/backend/internal/handlers"
	"github.com/hotelbooking/backend/internal/logger"
	"github.com/hotelbooking/backend/internal/middleware"
	"github.com/hotelbooking/backend/internal/notifications"
	"github.com/hotelbooking/backend/internal/repositories"
	"github.com/hotelbooking/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Hotel Booking API
// @version 1.0
// @description API for hotel search, room pricing, bookings and staff administration
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Hotel Booking Service")

	// Connect to database
	db, err := database.OpenMySQL(cfg.DSN(), database.APIPool)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrationsSource, err := database.MigrationsSource()
	if err != nil {
		logger.Logger.Fatal("Failed to locate migrations", zap.Error(err))
	}
	if err := database.Migrate(db, migrationsSource); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to redis (search preferences, token revocation)
	rdb, err := database.OpenRedis(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Initialize session components
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	revocationStore := auth.NewRevocationStore(rdb)
	notifier := access.NewNotifier(0, 0)

	// Create Asynq client for booking emails
	asynqClient := asynq.NewClient(notifications.RedisOpt(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB))
	defer asynqClient.Close()
	publisher := notifications.NewPublisher(asynqClient, logger.Logger)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	hotelRepo := repositories.NewHotelRepository(db, logger.Logger)
	bookingRepo := repositories.NewBookingRepository(db, logger.Logger)
	preferencesRepo := repositories.NewPreferencesRepository(rdb, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, revocationStore, notifier, logger.Logger)
	hotelService := services.NewHotelService(hotelRepo, logger.Logger)
	bookingService := services.NewBookingService(bookingRepo, hotelRepo, publisher, logger.Logger)
	preferencesService := services.NewPreferencesService(preferencesRepo, logger.Logger)
	adminService := services.NewAdminService(userRepo, logger.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	hotelHandler := handlers.NewHotelHandler(hotelService, logger.Logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger.Logger)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger.Logger)

	// Route guard shared by every protected route
	guard := middleware.NewGuard(notifier, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	r.Use(middleware.Authenticate(tokenGenerator, revocationStore, logger.Logger))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	healthHandler.RegisterRoutes(r)

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, guard)
		hotelHandler.RegisterRoutes(r, guard)
		bookingHandler.RegisterRoutes(r, guard)
		preferencesHandler.RegisterRoutes(r, guard)
		adminHandler.RegisterRoutes(r, guard)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
