// Command scheduler queues check-in reminders for the next day's arrivals
// on the REMINDER_CRON schedule.
package main

import (
	"context"
	"flag"
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
	runOnce := flag.Bool("once", false, "queue tomorrow's reminders once and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	db, err := database.OpenMySQL(cfg.DSN(), database.SchedulerPool)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	asynqClient := asynq.NewClient(notifications.RedisOpt(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB))
	defer asynqClient.Close()

	scheduler, err := notifications.NewScheduler(
		cfg.Reminder.Cron,
		repositories.NewBookingRepository(db, logger.Logger),
		notifications.NewPublisher(asynqClient, logger.Logger),
		logger.Logger,
	)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	// Manual catch-up run, e.g. after the scheduler was down at the cron time
	if *runOnce {
		queued := scheduler.EnqueueReminders(context.Background())
		logger.Logger.Info("Reminders queued", zap.Int("count", queued))
		return
	}

	logger.Logger.Info("Starting Hotel Booking Reminder Scheduler", zap.String("cron", cfg.Reminder.Cron))
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down scheduler...")
	scheduler.Stop()
	logger.Logger.Info("Scheduler exited")
}
