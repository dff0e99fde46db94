package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestServerConfig(t *testing.T) {
	cfg := ServerConfig(zap.NewNop())

	assert.Equal(t, Queues, cfg.Queues)
	assert.Equal(t, workerConcurrency, cfg.Concurrency)
	assert.Equal(t, workerShutdownTimeout, cfg.ShutdownTimeout)
	assert.NotNil(t, cfg.Logger)
	require.NotNil(t, cfg.ErrorHandler)
}

func TestServerConfig_ErrorHandler(t *testing.T) {
	task := asynq.NewTask(TypeBookingConfirmation, []byte("id"))

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "skip retry", err: fmt.Errorf("bad payload: %w", asynq.SkipRetry), message: "Booking email task failed permanently"},
		// Outside a running server the retry budget reads as exhausted
		{name: "retries exhausted", err: errors.New("smtp down"), message: "Booking email task failed permanently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			cfg := ServerConfig(zap.New(core))

			cfg.ErrorHandler.HandleError(context.Background(), task, tt.err)

			entries := logs.FilterMessage(tt.message).All()
			require.Len(t, entries, 1)
			assert.Equal(t, TypeBookingConfirmation, entries[0].ContextMap()["type"])
		})
	}
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt("redis:6379", "secret", 2)

	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
}
