package commission

import (
	"context"
	"errors"

	"kigalimove/models"
)

var (
	// ErrWithdrawalFailed is the only error a caller sees when the payout handler fails.
	ErrWithdrawalFailed = errors.New("withdrawal request failed")
	ErrNotFound         = errors.New("record not found")
	ErrNotAllowed       = errors.New("status change not allowed")
)

// WithdrawalHandler performs the payout request once local validation passed.
type WithdrawalHandler func(ctx context.Context, agentID string, amount int64, phone string) (*models.WithdrawalRequest, error)

// CommissionService tracks agent earnings and payouts.
type CommissionService interface {
	RecordForOrder(ctx context.Context, order *models.Order) error
	ListForAgent(ctx context.Context, agentID string) ([]models.AgentCommission, error)
	List(ctx context.Context, status models.CommissionStatus) ([]models.AgentCommission, error)
	Balance(ctx context.Context, agentID string) (int64, error)
	RequestWithdrawal(ctx context.Context, agentID string, amount int64, phone string, handler WithdrawalHandler) (*models.WithdrawalRequest, error)
	PersistWithdrawal(ctx context.Context, agentID string, amount int64, phone string) (*models.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, agentID string, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error)
	ApproveCommission(ctx context.Context, id string) (*models.AgentCommission, error)
	RejectCommission(ctx context.Context, id string) (*models.AgentCommission, error)
	SetWithdrawalStatus(ctx context.Context, id string, status models.WithdrawalStatus, notes string) (*models.WithdrawalRequest, error)
}
