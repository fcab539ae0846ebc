package tasks

import (
	"encoding/json"

	"kigalimove/models"

	"github.com/hibiken/asynq"
)

const TypeOrderSMS = "order:sms"

// NewOrderSMSTask builds the confirmation text task. It runs at most once.
func NewOrderSMSTask(payload models.OrderSMSPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeOrderSMS, b)
	opts := []asynq.Option{asynq.MaxRetry(0), asynq.Queue("default")}

	return task, opts, nil
}

// ParseOrderSMSTask decodes the payload of an order:sms task.
func ParseOrderSMSTask(task *asynq.Task) (models.OrderSMSPayload, error) {
	var p models.OrderSMSPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
