package order

import (
	"context"
	"errors"

	"kigalimove/models"
	"kigalimove/services/distance"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrTransitionNotAllowed = errors.New("status change not allowed")
	ErrPersistFailed        = errors.New("failed to save order")
	ErrIDExhausted          = errors.New("could not allocate a unique order id")
)

// Actor is the authenticated caller of an order edit.
type Actor struct {
	UserID   string
	Role     models.Role
	WorkerID string
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	Quote(ctx context.Context, form models.OrderForm) (*models.Quote, error)
	SubmitOrder(ctx context.Context, form models.OrderForm) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, upd models.OrderUpdate, actor Actor) (*models.Order, error)
	ReleaseOrder(ctx context.Context, id, workerID string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	CalculateDistance(ctx context.Context, pickup, delivery string) distance.Estimate
	Stats(ctx context.Context) (*models.OrderStats, error)
}

// DistanceEstimator turns an address pair into kilometres.
type DistanceEstimator interface {
	Estimate(ctx context.Context, pickup, delivery string) distance.Estimate
}

// AssignmentHooks keeps per-service job assignments in step with the order.
type AssignmentHooks interface {
	CreateForOrder(ctx context.Context, order *models.Order) error
	ReleaseTransport(ctx context.Context, orderID, workerID string) error
}

// CommissionRecorder credits the referring agent of a completed order.
type CommissionRecorder interface {
	RecordForOrder(ctx context.Context, order *models.Order) error
}

// SMSNotifier queues the confirmation text for a new order.
type SMSNotifier interface {
	EnqueueOrderSMS(ctx context.Context, order *models.Order) error
}
