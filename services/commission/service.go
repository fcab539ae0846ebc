package commission

import (
	"context"
	"errors"
	"strings"
	"time"

	commissionRepo "kigalimove/database/repository/commission"
	"kigalimove/models"
	"kigalimove/services/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultRate = 0.10

// DefaultCommissionService implements CommissionService.
type DefaultCommissionService struct {
	Commissions commissionRepo.CommissionRepository
	Withdrawals commissionRepo.WithdrawalRepository
	Rate        decimal.Decimal
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewDefaultCommissionService(c commissionRepo.CommissionRepository, w commissionRepo.WithdrawalRepository, rate float64, logger *zap.Logger) *DefaultCommissionService {
	if rate <= 0 {
		rate = defaultRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCommissionService{
		Commissions: c,
		Withdrawals: w,
		Rate:        decimal.NewFromFloat(rate),
		Logger:      logger,
		Now:         time.Now,
	}
}

func (s *DefaultCommissionService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Lines computes one commission per billable line of the order, rounded half-up.
func (s *DefaultCommissionService) Lines(o *models.Order) []models.AgentCommission {
	now := s.now()
	var out []models.AgentCommission
	for _, line := range order.PriceLines(o.Services) {
		amount := decimal.NewFromInt(line.Amount).Mul(s.Rate).Round(0).IntPart()
		out = append(out, models.AgentCommission{
			ID:          uuid.New().String(),
			AgentID:     o.AgentID,
			OrderID:     o.ID,
			ServiceType: line.Name,
			Amount:      amount,
			Status:      models.CommissionPending,
			CreatedAt:   now,
		})
	}
	return out
}

// RecordForOrder credits the referring agent once per completed order.
func (s *DefaultCommissionService) RecordForOrder(ctx context.Context, o *models.Order) error {
	if o.AgentID == "" || o.Status != models.OrderCompleted {
		return nil
	}
	exists, err := s.Commissions.ExistsForOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	lines := s.Lines(o)
	if err := s.Commissions.CreateMany(ctx, lines); err != nil {
		return err
	}
	s.Logger.Info("Recorded agent commission",
		zap.String("orderId", o.ID),
		zap.String("agentId", o.AgentID),
		zap.Int("lines", len(lines)))
	return nil
}

func (s *DefaultCommissionService) ListForAgent(ctx context.Context, agentID string) ([]models.AgentCommission, error) {
	return s.Commissions.ListByAgent(ctx, agentID)
}

func (s *DefaultCommissionService) List(ctx context.Context, status models.CommissionStatus) ([]models.AgentCommission, error) {
	return s.Commissions.List(ctx, status)
}

// Balance is approved commissions minus withdrawals in processing or paid.
func (s *DefaultCommissionService) Balance(ctx context.Context, agentID string) (int64, error) {
	_, available, err := s.balances(ctx, agentID)
	return available, err
}

func (s *DefaultCommissionService) balances(ctx context.Context, agentID string) (approved, available int64, err error) {
	commissions, err := s.Commissions.ListByAgent(ctx, agentID)
	if err != nil {
		return 0, 0, err
	}
	withdrawals, err := s.Withdrawals.ListByAgent(ctx, agentID)
	if err != nil {
		return 0, 0, err
	}
	approved = AvailableBalance(commissions)
	return approved, approved - CommittedWithdrawals(withdrawals), nil
}

// RequestWithdrawal validates locally, reserves the amount against the
// approved total, then calls handler exactly once.
func (s *DefaultCommissionService) RequestWithdrawal(ctx context.Context, agentID string, amount int64, phone string, handler WithdrawalHandler) (*models.WithdrawalRequest, error) {
	phone = strings.TrimSpace(phone)
	approved, available, err := s.balances(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if err := ValidateWithdrawal(amount, available, phone); err != nil {
		return nil, err
	}

	err = s.Withdrawals.Reserve(ctx, agentID, amount, approved)
	if errors.Is(err, commissionRepo.ErrInsufficientFunds) {
		return nil, models.NewValidationError("amount", "Amount exceeds available balance")
	}
	if err != nil {
		return nil, err
	}

	if handler == nil {
		handler = s.PersistWithdrawal
	}
	req, err := handler(ctx, agentID, amount, phone)
	if err != nil {
		s.Logger.Error("Withdrawal handler failed",
			zap.String("agentId", agentID),
			zap.Int64("amount", amount),
			zap.Error(err))
		s.release(ctx, agentID, amount)
		return nil, ErrWithdrawalFailed
	}
	return req, nil
}

func (s *DefaultCommissionService) release(ctx context.Context, agentID string, amount int64) {
	if err := s.Withdrawals.Release(ctx, agentID, amount); err != nil {
		s.Logger.Error("Failed to release withdrawal reservation",
			zap.String("agentId", agentID),
			zap.Int64("amount", amount),
			zap.Error(err))
	}
}

// PersistWithdrawal is the default handler: it records a processing request.
func (s *DefaultCommissionService) PersistWithdrawal(ctx context.Context, agentID string, amount int64, phone string) (*models.WithdrawalRequest, error) {
	now := s.now()
	req := &models.WithdrawalRequest{
		ID:          uuid.New().String(),
		AgentID:     agentID,
		Amount:      amount,
		PhoneNumber: phone,
		Status:      models.WithdrawalProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Withdrawals.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *DefaultCommissionService) ListWithdrawals(ctx context.Context, agentID string, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	if agentID != "" {
		return s.Withdrawals.ListByAgent(ctx, agentID)
	}
	return s.Withdrawals.List(ctx, status)
}

func (s *DefaultCommissionService) reviewCommission(ctx context.Context, id string, to models.CommissionStatus) (*models.AgentCommission, error) {
	c, err := s.Commissions.SetStatus(ctx, id, models.CommissionPending, to, s.now())
	switch {
	case errors.Is(err, commissionRepo.ErrCommissionNotFound):
		return nil, ErrNotFound
	case errors.Is(err, commissionRepo.ErrStateConflict):
		return nil, ErrNotAllowed
	}
	return c, err
}

func (s *DefaultCommissionService) ApproveCommission(ctx context.Context, id string) (*models.AgentCommission, error) {
	return s.reviewCommission(ctx, id, models.CommissionApproved)
}

func (s *DefaultCommissionService) RejectCommission(ctx context.Context, id string) (*models.AgentCommission, error) {
	return s.reviewCommission(ctx, id, models.CommissionRejected)
}

// SetWithdrawalStatus settles a processing withdrawal as paid or failed.
func (s *DefaultCommissionService) SetWithdrawalStatus(ctx context.Context, id string, status models.WithdrawalStatus, notes string) (*models.WithdrawalRequest, error) {
	if status != models.WithdrawalPaid && status != models.WithdrawalFailed {
		return nil, models.NewValidationError("status", "Withdrawals can only be marked paid or failed")
	}
	w, err := s.Withdrawals.SetStatus(ctx, id, models.WithdrawalProcessing, status, strings.TrimSpace(notes))
	switch {
	case errors.Is(err, commissionRepo.ErrWithdrawalNotFound):
		return nil, ErrNotFound
	case errors.Is(err, commissionRepo.ErrStateConflict):
		return nil, ErrNotAllowed
	case err != nil:
		return nil, err
	}
	if w.Status == models.WithdrawalFailed {
		s.release(ctx, w.AgentID, w.Amount)
	}
	return w, nil
}
