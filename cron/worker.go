package cron

import (
	"context"
	"time"

	"kigalimove/services/tasks"
	"kigalimove/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SMSHandler processes queued order texts.
type SMSHandler interface {
	HandleOrderSMSTask(ctx context.Context, task *asynq.Task) error
}

// QueueRedisOpt returns the asynq connection for the task queue DB.
func QueueRedisOpt() asynq.RedisClientOpt {
	addr, password, db := utils.QueueRedisOpt()
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// InitSMSWorker runs the order SMS worker in background and returns the
// server so the caller can shut it down.
func InitSMSWorker(handler SMSHandler) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOrderSMS, handler.HandleOrderSMSTask)

	go func() {
		logger.Info("Starting SMS worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("SMS worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("SMS worker gave up; order texts will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}
