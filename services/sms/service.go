package sms

import (
	"context"
	"fmt"
	"strings"
	"time"

	orderRepo "kigalimove/database/repository/order"
	smslogRepo "kigalimove/database/repository/smslog"
	"kigalimove/models"
	"kigalimove/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Enqueuer is the subset of *asynq.Client used to queue messages.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// OrderMessage is the confirmation text sent after an order is placed.
func OrderMessage(o *models.Order, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Muraho %s! Your KigaliMove order %s is received. ", o.CustomerName, o.ID)
	fmt.Fprintf(&b, "Total: %s RWF. ", FormatRWF(o.TotalCost))
	if baseURL != "" {
		fmt.Fprintf(&b, "Track it at %s/track/%s", strings.TrimRight(baseURL, "/"), o.ID)
	} else {
		fmt.Fprintf(&b, "Tracking code: %s", o.ID)
	}
	return b.String()
}

var rwfPrinter = message.NewPrinter(language.English)

// FormatRWF groups an amount in thousands: 80000 → "80,000".
func FormatRWF(amount int64) string {
	return rwfPrinter.Sprintf("%d", amount)
}

// QueueNotifier queues order texts on the task queue.
type QueueNotifier struct {
	Client  Enqueuer
	BaseURL string
}

func NewQueueNotifier(client Enqueuer, baseURL string) *QueueNotifier {
	return &QueueNotifier{Client: client, BaseURL: baseURL}
}

func (q *QueueNotifier) EnqueueOrderSMS(ctx context.Context, o *models.Order) error {
	task, opts, err := tasks.NewOrderSMSTask(models.OrderSMSPayload{
		OrderID:     o.ID,
		PhoneNumber: o.PhoneNumber,
		Message:     OrderMessage(o, q.BaseURL),
	})
	if err != nil {
		return err
	}
	_, err = q.Client.EnqueueContext(ctx, task, opts...)
	return err
}

// DefaultSMSService sends queued order texts and records every outcome.
type DefaultSMSService struct {
	Gateway Gateway
	Logs    smslogRepo.SMSLogRepository
	Orders  orderRepo.OrderRepository
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewDefaultSMSService(gw Gateway, logs smslogRepo.SMSLogRepository, orders orderRepo.OrderRepository, logger *zap.Logger) *DefaultSMSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSMSService{Gateway: gw, Logs: logs, Orders: orders, Logger: logger, Now: time.Now}
}

// Deliver sends one message. A gateway failure is recorded, not returned;
// only a failure to record the outcome is an error.
func (s *DefaultSMSService) Deliver(ctx context.Context, p models.OrderSMSPayload) error {
	entry := &models.SMSLog{
		ID:          uuid.New().String(),
		OrderID:     p.OrderID,
		PhoneNumber: p.PhoneNumber,
		Message:     p.Message,
		Status:      models.SMSSent,
		CreatedAt:   s.Now(),
	}
	if err := s.Gateway.Send(ctx, p.PhoneNumber, p.Message); err != nil {
		entry.Status = models.SMSFailed
		entry.Error = err.Error()
		s.Logger.Warn("Order SMS failed", zap.String("orderId", p.OrderID), zap.Error(err))
	} else {
		s.Logger.Info("Order SMS sent", zap.String("orderId", p.OrderID))
	}

	if err := s.Logs.Create(ctx, entry); err != nil {
		return err
	}
	if _, err := s.Orders.UpdateFields(ctx, p.OrderID, bson.M{
		"smsStatus": entry.Status,
		"smsError":  entry.Error,
	}); err != nil {
		return fmt.Errorf("failed to record sms status on order %s: %w", p.OrderID, err)
	}
	return nil
}

// HandleOrderSMSTask is the asynq handler for order:sms.
func (s *DefaultSMSService) HandleOrderSMSTask(ctx context.Context, task *asynq.Task) error {
	p, err := tasks.ParseOrderSMSTask(task)
	if err != nil {
		s.Logger.Error("Invalid order SMS payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return s.Deliver(ctx, p)
}
