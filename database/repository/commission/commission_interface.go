package commissionRepo

import (
	"context"
	"errors"
	"time"

	"kigalimove/models"
)

var (
	ErrCommissionNotFound = errors.New("commission not found")
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
	ErrStateConflict      = errors.New("record is not in the expected status")
	ErrInsufficientFunds  = errors.New("withdrawal exceeds the unreserved balance")
)

// CommissionRepository stores agent commission lines.
type CommissionRepository interface {
	CreateMany(ctx context.Context, commissions []models.AgentCommission) error
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.AgentCommission, error)
	List(ctx context.Context, status models.CommissionStatus) ([]models.AgentCommission, error)
	SetStatus(ctx context.Context, id string, from, to models.CommissionStatus, at time.Time) (*models.AgentCommission, error)
}

// WithdrawalRepository stores agent payout requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.WithdrawalRequest) error
	ListByAgent(ctx context.Context, agentID string) ([]models.WithdrawalRequest, error)
	List(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error)
	SetStatus(ctx context.Context, id string, from, to models.WithdrawalStatus, notes string) (*models.WithdrawalRequest, error)

	// Reserve atomically adds amount to the agent's reserved total as long as
	// the result stays within approved. It returns ErrInsufficientFunds otherwise.
	Reserve(ctx context.Context, agentID string, amount, approved int64) error
	// Release gives back a reservation whose withdrawal failed.
	Release(ctx context.Context, agentID string, amount int64) error
}
