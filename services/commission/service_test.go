package commission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	commissionRepo "kigalimove/database/repository/commission"
	"kigalimove/models"
)

type memCommissions struct {
	list []models.AgentCommission
}

func (m *memCommissions) CreateMany(_ context.Context, list []models.AgentCommission) error {
	m.list = append(m.list, list...)
	return nil
}

func (m *memCommissions) ExistsForOrder(_ context.Context, orderID string) (bool, error) {
	for _, c := range m.list {
		if c.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCommissions) ListByAgent(_ context.Context, agentID string) ([]models.AgentCommission, error) {
	var out []models.AgentCommission
	for _, c := range m.list {
		if c.AgentID == agentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCommissions) List(context.Context, models.CommissionStatus) ([]models.AgentCommission, error) {
	return m.list, nil
}

func (m *memCommissions) SetStatus(_ context.Context, id string, from, to models.CommissionStatus, at time.Time) (*models.AgentCommission, error) {
	for i := range m.list {
		if m.list[i].ID != id {
			continue
		}
		if m.list[i].Status != from {
			return nil, commissionRepo.ErrStateConflict
		}
		m.list[i].Status = to
		m.list[i].ApprovedAt = &at
		c := m.list[i]
		return &c, nil
	}
	return nil, commissionRepo.ErrCommissionNotFound
}

type memWithdrawals struct {
	mu       sync.Mutex
	list     []models.WithdrawalRequest
	reserved map[string]int64
	// onList runs before ListByAgent reads, so tests can line up callers.
	onList func()
}

func (m *memWithdrawals) Create(_ context.Context, w *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *w)
	return nil
}

func (m *memWithdrawals) ListByAgent(_ context.Context, agentID string) ([]models.WithdrawalRequest, error) {
	if m.onList != nil {
		m.onList()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WithdrawalRequest
	for _, w := range m.list {
		if w.AgentID == agentID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memWithdrawals) List(context.Context, models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.WithdrawalRequest(nil), m.list...), nil
}

func (m *memWithdrawals) SetStatus(_ context.Context, id string, from, to models.WithdrawalStatus, notes string) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID != id {
			continue
		}
		if m.list[i].Status != from {
			return nil, commissionRepo.ErrStateConflict
		}
		m.list[i].Status = to
		m.list[i].Notes = notes
		w := m.list[i]
		return &w, nil
	}
	return nil, commissionRepo.ErrWithdrawalNotFound
}

func (m *memWithdrawals) Reserve(_ context.Context, agentID string, amount, approved int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserved == nil {
		m.reserved = map[string]int64{}
	}
	if m.reserved[agentID]+amount > approved {
		return commissionRepo.ErrInsufficientFunds
	}
	m.reserved[agentID] += amount
	return nil
}

func (m *memWithdrawals) Release(_ context.Context, agentID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserved[agentID] < amount {
		return commissionRepo.ErrStateConflict
	}
	m.reserved[agentID] -= amount
	return nil
}

func newService(commissions ...models.AgentCommission) (*DefaultCommissionService, *memCommissions, *memWithdrawals) {
	c := &memCommissions{list: commissions}
	w := &memWithdrawals{}
	return NewDefaultCommissionService(c, w, 0.10, nil), c, w
}

func approved(agentID string, amount int64) models.AgentCommission {
	return models.AgentCommission{ID: fmt.Sprintf("%s-%d", agentID, amount), AgentID: agentID, Amount: amount, Status: models.CommissionApproved}
}

func TestAvailableBalance(t *testing.T) {
	list := []models.AgentCommission{
		{Amount: 3000, Status: models.CommissionApproved},
		{Amount: 2000, Status: models.CommissionApproved},
		{Amount: 9000, Status: models.CommissionPending},
		{Amount: 4000, Status: models.CommissionRejected},
	}
	if got := AvailableBalance(list); got != 5000 {
		t.Fatalf("AvailableBalance = %d, want 5000", got)
	}
}

func TestValidateWithdrawal(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		phone  string
		field  string
	}{
		{"ok", 5000, "0781234567", ""},
		{"zero", 0, "0781234567", "amount"},
		{"negative", -10, "0781234567", "amount"},
		{"over balance", 6000, "0781234567", "amount"},
		{"short phone", 1000, "078123456", "phoneNumber"},
		{"letters in phone", 1000, "07812345a7", "phoneNumber"},
		{"international prefix", 1000, "+250781234567", "phoneNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithdrawal(tt.amount, 5000, tt.phone)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			var vErr *models.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}
}

func TestRequestWithdrawalEndToEnd(t *testing.T) {
	svc, _, _ := newService(approved("agent-1", 3000), approved("agent-1", 2000))
	ctx := context.Background()

	balance, err := svc.Balance(ctx, "agent-1")
	if err != nil || balance != 5000 {
		t.Fatalf("Balance = %d, %v; want 5000", balance, err)
	}

	calls := 0
	handler := func(_ context.Context, agentID string, amount int64, phone string) (*models.WithdrawalRequest, error) {
		calls++
		return &models.WithdrawalRequest{AgentID: agentID, Amount: amount, PhoneNumber: phone, Status: models.WithdrawalProcessing}, nil
	}

	if _, err := svc.RequestWithdrawal(ctx, "agent-1", 6000, "0781234567", handler); err == nil {
		t.Fatal("6000 should be rejected")
	}
	if calls != 0 {
		t.Fatalf("handler called %d times for a rejected request", calls)
	}

	req, err := svc.RequestWithdrawal(ctx, "agent-1", 5000, "0781234567", handler)
	if err != nil {
		t.Fatalf("RequestWithdrawal: %v", err)
	}
	if calls != 1 || req.Amount != 5000 {
		t.Fatalf("handler calls = %d, amount = %d", calls, req.Amount)
	}
}

func TestRequestWithdrawalHandlerFailureIsGeneric(t *testing.T) {
	svc, _, w := newService(approved("agent-1", 5000))
	calls := 0
	handler := func(context.Context, string, int64, string) (*models.WithdrawalRequest, error) {
		calls++
		return nil, errors.New("mobile money gateway: 502")
	}

	_, err := svc.RequestWithdrawal(context.Background(), "agent-1", 1000, "0781234567", handler)
	if !errors.Is(err, ErrWithdrawalFailed) {
		t.Fatalf("err = %v, want ErrWithdrawalFailed", err)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if w.reserved["agent-1"] != 0 {
		t.Fatalf("reservation kept after handler failure: %d", w.reserved["agent-1"])
	}
}

func TestDefaultHandlerReducesBalance(t *testing.T) {
	svc, _, w := newService(approved("agent-1", 5000))
	ctx := context.Background()

	if _, err := svc.RequestWithdrawal(ctx, "agent-1", 2000, "0781234567", nil); err != nil {
		t.Fatalf("RequestWithdrawal: %v", err)
	}
	if len(w.list) != 1 || w.list[0].Status != models.WithdrawalProcessing {
		t.Fatalf("withdrawal not persisted: %+v", w.list)
	}
	balance, _ := svc.Balance(ctx, "agent-1")
	if balance != 3000 {
		t.Fatalf("Balance = %d, want 3000", balance)
	}

	if _, err := svc.SetWithdrawalStatus(ctx, w.list[0].ID, models.WithdrawalFailed, "wrong number"); err != nil {
		t.Fatalf("SetWithdrawalStatus: %v", err)
	}
	balance, _ = svc.Balance(ctx, "agent-1")
	if balance != 5000 {
		t.Fatalf("failed withdrawal should release funds, balance = %d", balance)
	}
	if w.reserved["agent-1"] != 0 {
		t.Fatalf("reserved = %d after failed withdrawal, want 0", w.reserved["agent-1"])
	}
	if _, err := svc.RequestWithdrawal(ctx, "agent-1", 5000, "0781234567", nil); err != nil {
		t.Fatalf("full balance not withdrawable after release: %v", err)
	}
}

func TestConcurrentWithdrawalsCannotOverdraw(t *testing.T) {
	svc, _, w := newService(approved("agent-1", 5000))
	ctx := context.Background()

	var arrived sync.WaitGroup
	arrived.Add(2)
	w.onList = func() {
		arrived.Done()
		arrived.Wait()
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestWithdrawal(ctx, "agent-1", 5000, "0781234567", nil)
			mu.Lock()
			defer mu.Unlock()
			var vErr *models.ValidationError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &vErr) && vErr.Field == "amount":
				rejected++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()
	w.onList = nil

	if succeeded != 1 || rejected != 1 {
		t.Fatalf("succeeded = %d, rejected = %d; want 1 and 1", succeeded, rejected)
	}
	if len(w.list) != 1 {
		t.Fatalf("persisted %d withdrawals, want 1", len(w.list))
	}
	balance, err := svc.Balance(ctx, "agent-1")
	if err != nil || balance != 0 {
		t.Fatalf("Balance = %d, %v; want 0", balance, err)
	}
}

func TestRecordForOrder(t *testing.T) {
	svc, c, _ := newService()
	o := &models.Order{
		ID:       "ORD001",
		AgentID:  "agent-1",
		Status:   models.OrderCompleted,
		Services: models.Services{Transport: true, Helpers: 2, Cleaning: true},
	}

	if err := svc.RecordForOrder(context.Background(), o); err != nil {
		t.Fatalf("RecordForOrder: %v", err)
	}
	want := map[string]int64{models.ServiceFeeLine: 1500, "transport": 4000, "helpers": 2000, "cleaning": 500}
	if len(c.list) != len(want) {
		t.Fatalf("got %d lines, want %d", len(c.list), len(want))
	}
	for _, line := range c.list {
		if want[line.ServiceType] != line.Amount || line.Status != models.CommissionPending {
			t.Errorf("line %+v", line)
		}
	}

	if err := svc.RecordForOrder(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if len(c.list) != len(want) {
		t.Fatalf("second call duplicated commissions: %d lines", len(c.list))
	}
}

func TestRecordForOrderSkipsUnreferredOrIncomplete(t *testing.T) {
	svc, c, _ := newService()
	_ = svc.RecordForOrder(context.Background(), &models.Order{ID: "A", Status: models.OrderCompleted})
	_ = svc.RecordForOrder(context.Background(), &models.Order{ID: "B", AgentID: "agent-1", Status: models.OrderPending})
	if len(c.list) != 0 {
		t.Fatalf("unexpected commissions %+v", c.list)
	}
}

func TestReviewCommission(t *testing.T) {
	svc, _, _ := newService(models.AgentCommission{ID: "c1", AgentID: "agent-1", Amount: 100, Status: models.CommissionPending})
	ctx := context.Background()

	if _, err := svc.ApproveCommission(ctx, "c1"); err != nil {
		t.Fatalf("ApproveCommission: %v", err)
	}
	if _, err := svc.RejectCommission(ctx, "c1"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("reject after approve: err = %v", err)
	}
	if _, err := svc.ApproveCommission(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}
