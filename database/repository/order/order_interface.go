package orderRepo

import (
	"context"
	"errors"

	"kigalimove/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrDuplicateID   = errors.New("order id already in use")
)

// StatusTotal is the per-status aggregate used by the admin summary.
type StatusTotal struct {
	Status models.OrderStatus `bson:"_id"`
	Count  int64              `bson:"count"`
	Amount int64              `bson:"amount"`
}

// OrderRepository defines methods for order data access.
type OrderRepository interface {
	// Create inserts a new order. A clashing id yields ErrDuplicateID.
	Create(ctx context.Context, order *models.Order) error
	// GetByID retrieves an order by its 6-character code.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Exists reports whether the code is taken.
	Exists(ctx context.Context, id string) (bool, error)
	// UpdateFields applies a $set and returns the updated document.
	UpdateFields(ctx context.Context, id string, set bson.M) (*models.Order, error)
	// List returns orders matching the filter, newest first.
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	// StatusTotals groups orders by status with counts and summed totals.
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
}
