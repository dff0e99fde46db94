// Command worker delivers booking confirmation and check-in reminder emails
// queued by the API and the scheduler.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/hotelbooking/backend/internal/config"
	"github.com/hotelbooking/backend/internal/database"
	"github.com/hotelbooking/backend/internal/logger"
	"github.com/hotelbooking/backend/internal/notifications"
	"github.com/hotelbooking/backend/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Hotel Booking Notification Worker",
		zap.String("smtp_host", cfg.SMTP.Host),
		zap.Int("smtp_port", cfg.SMTP.Port),
	)

	// Booking details are read straight from MySQL when a task runs
	db, err := database.OpenMySQL(cfg.DSN(), database.WorkerPool)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	bookingRepo := repositories.NewBookingRepository(db, logger.Logger)
	mailer := notifications.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	worker := notifications.NewWorker(bookingRepo, mailer, logger.Logger)

	srv := asynq.NewServer(
		notifications.RedisOpt(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB),
		notifications.ServerConfig(logger.Logger),
	)

	mux := asynq.NewServeMux()
	worker.Register(mux)

	if err := srv.Start(mux); err != nil {
		logger.Logger.Fatal("Failed to start worker", zap.Error(err))
	}
	logger.Logger.Info("Worker started", zap.Any("queues", notifications.Queues))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown waits for in-flight emails up to the configured timeout
	logger.Logger.Info("Shutting down worker...")
	srv.Shutdown()
	logger.Logger.Info("Worker exited")
}
