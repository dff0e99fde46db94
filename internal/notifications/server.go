package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	workerConcurrency     = 10
	workerShutdownTimeout = 20 * time.Second
)

// RedisOpt returns the asynq connection options for a Redis server
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
}

// ServerConfig returns the asynq server configuration of the notification worker.
// asynq's own logs and every failed task attempt go through logger.
func ServerConfig(logger *zap.Logger) asynq.Config {
	return asynq.Config{
		Concurrency:     workerConcurrency,
		Queues:          Queues,
		ShutdownTimeout: workerShutdownTimeout,
		Logger:          logger.Named("asynq").Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			taskID, _ := asynq.GetTaskID(ctx)

			fields := []zap.Field{
				zap.String("type", task.Type()),
				zap.String("taskId", taskID),
				zap.Int("retried", retried),
				zap.Int("maxRetry", maxRetry),
				zap.Error(err),
			}
			if retried >= maxRetry || errors.Is(err, asynq.SkipRetry) {
				logger.Error("Booking email task failed permanently", fields...)
				return
			}
			logger.Warn("Booking email task failed, will retry", fields...)
		}),
	}
}
