package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	userRepo "kigalimove/database/repository/user"
	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/models"
	"kigalimove/utils"

	"golang.org/x/crypto/bcrypt"
)

type stubUsers struct {
	user  *models.UserAccount
	errs  []error
	calls int
}

func (s *stubUsers) GetByPhone(_ context.Context, phone string) (*models.UserAccount, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if s.user == nil || s.user.Phone != phone {
		return nil, userRepo.ErrUserNotFound
	}
	u := *s.user
	return &u, nil
}

func (s *stubUsers) GetByID(context.Context, string) (*models.UserAccount, error) {
	return nil, userRepo.ErrUserNotFound
}
func (s *stubUsers) GetAll(context.Context, models.Role) ([]models.UserAccount, error) {
	return nil, nil
}
func (s *stubUsers) Create(context.Context, *models.UserAccount) error { return nil }
func (s *stubUsers) Delete(context.Context, string) error              { return nil }

type stubWorkers struct {
	workerRepo.WorkerRepository
	byUser map[string]*models.Worker
}

func (s *stubWorkers) GetByUserID(_ context.Context, userID string) (*models.Worker, error) {
	if w, ok := s.byUser[userID]; ok {
		return w, nil
	}
	return nil, workerRepo.ErrWorkerNotFound
}

type memSessions struct {
	saved map[string]utils.AuthSession
}

func newMemSessions() *memSessions {
	return &memSessions{saved: map[string]utils.AuthSession{}}
}

func (m *memSessions) Save(_ context.Context, s utils.AuthSession) error {
	m.saved[s.ID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*utils.AuthSession, error) {
	s, ok := m.saved[id]
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.saved, id)
	return nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func newTestService(t *testing.T, users *stubUsers) (*DefaultAuthService, *memSessions, *[]time.Duration) {
	t.Helper()
	sessions := newMemSessions()
	svc := NewDefaultAuthService(users, nil, sessions, time.Hour, nil)
	var waits []time.Duration
	svc.Sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return svc, sessions, &waits
}

func TestLoginSuccess(t *testing.T) {
	users := &stubUsers{user: &models.UserAccount{
		ID: "u1", Name: "Aline", Phone: "0788000001",
		PasswordHash: hashed(t, "secret1"), Role: "agent",
	}}
	svc, sessions, waits := newTestService(t, users)

	res, err := svc.Login(context.Background(), Credentials{Phone: " 0788000001 ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success || res.Role != models.RoleAgent || res.UserID != "u1" || res.UserName != "Aline" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Dashboard != "/agent" {
		t.Errorf("dashboard = %q", res.Dashboard)
	}
	if len(sessions.saved) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.saved))
	}
	if len(*waits) != 0 {
		t.Errorf("no backoff expected, got %v", *waits)
	}

	session, err := svc.CurrentSession(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if session.UserID != "u1" || session.Role != "agent" {
		t.Errorf("unexpected session %+v", session)
	}

	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.CurrentSession(context.Background(), res.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestLoginRetriesTransientFailures(t *testing.T) {
	transient := errors.New("connection reset")
	users := &stubUsers{
		user: &models.UserAccount{ID: "u1", Phone: "0788000001", PasswordHash: hashed(t, "secret1"), Role: "admin"},
		errs: []error{transient, transient},
	}
	svc, _, waits := newTestService(t, users)

	res, err := svc.Login(context.Background(), Credentials{Phone: "0788000001", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Dashboard != "/admin" {
		t.Errorf("dashboard = %q", res.Dashboard)
	}
	if users.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", users.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*waits) != len(want) || (*waits)[0] != want[0] || (*waits)[1] != want[1] {
		t.Errorf("waits = %v, want %v", *waits, want)
	}
}

func TestLoginGivesUpAfterRetries(t *testing.T) {
	transient := errors.New("timeout")
	users := &stubUsers{errs: []error{transient, transient, transient, transient, transient}}
	svc, _, waits := newTestService(t, users)

	_, err := svc.Login(context.Background(), Credentials{Phone: "0788000001", Password: "secret1"})
	var loginErr *LoginError
	if !errors.As(err, &loginErr) || loginErr.Code != CodeLoginFailed || loginErr.Message != MsgLoginFailed {
		t.Fatalf("expected login_failed, got %v", err)
	}
	if users.calls != 4 {
		t.Errorf("expected 4 attempts, got %d", users.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	if len(*waits) != 3 {
		t.Fatalf("waits = %v, want %v", *waits, want)
	}
	for i := range want {
		if (*waits)[i] != want[i] {
			t.Errorf("wait %d = %v, want %v", i, (*waits)[i], want[i])
		}
	}
}

func TestLoginErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		account  *models.UserAccount
		workers  map[string]*models.Worker
		password string
		code     string
		message  string
	}{
		{
			name:     "unknown phone",
			password: "secret1",
			code:     CodeInvalidCredentials,
			message:  MsgInvalidCredentials,
		},
		{
			name:     "wrong password",
			account:  &models.UserAccount{ID: "u1", Phone: "0788000001", Role: "customer"},
			password: "nope",
			code:     CodeInvalidCredentials,
			message:  MsgInvalidCredentials,
		},
		{
			name:     "missing role",
			account:  &models.UserAccount{ID: "u1", Phone: "0788000001"},
			password: "secret1",
			code:     CodeProfileNotFound,
			message:  MsgProfileNotFound,
		},
		{
			name:     "unknown role",
			account:  &models.UserAccount{ID: "u1", Phone: "0788000001", Role: "superuser"},
			password: "secret1",
			code:     CodeUnknownRole,
			message:  MsgProfileNotFound,
		},
		{
			name:     "driver without worker profile",
			account:  &models.UserAccount{ID: "u1", Phone: "0788000001", Role: "driver"},
			workers:  map[string]*models.Worker{},
			password: "secret1",
			code:     CodeProfileNotFound,
			message:  MsgProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUsers{user: tt.account}
			if tt.account != nil {
				tt.account.PasswordHash = hashed(t, "secret1")
			}
			svc, _, waits := newTestService(t, users)
			if tt.workers != nil {
				svc.Workers = &stubWorkers{byUser: tt.workers}
			}

			_, err := svc.Login(context.Background(), Credentials{Phone: "0788000001", Password: tt.password})
			var loginErr *LoginError
			if !errors.As(err, &loginErr) {
				t.Fatalf("expected LoginError, got %v", err)
			}
			if loginErr.Code != tt.code || loginErr.Message != tt.message {
				t.Errorf("got %s/%q, want %s/%q", loginErr.Code, loginErr.Message, tt.code, tt.message)
			}
			if users.calls != 1 {
				t.Errorf("final errors must not be retried, got %d attempts", users.calls)
			}
			if len(*waits) != 0 {
				t.Errorf("unexpected backoff %v", *waits)
			}
		})
	}
}

func TestLoginCarriesWorkerID(t *testing.T) {
	users := &stubUsers{user: &models.UserAccount{
		ID: "u7", Phone: "0788000007", PasswordHash: hashed(t, "secret1"), Role: "driver",
	}}
	svc, sessions, _ := newTestService(t, users)
	svc.Workers = &stubWorkers{byUser: map[string]*models.Worker{"u7": {ID: "w7", UserID: "u7"}}}

	res, err := svc.Login(context.Background(), Credentials{Phone: "0788000007", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Dashboard != "/worker" {
		t.Errorf("dashboard = %q", res.Dashboard)
	}
	for _, s := range sessions.saved {
		if s.WorkerID != "w7" {
			t.Errorf("session worker id = %q", s.WorkerID)
		}
	}
}

func TestLoginValidatesInput(t *testing.T) {
	users := &stubUsers{}
	svc, _, _ := newTestService(t, users)

	_, err := svc.Login(context.Background(), Credentials{Phone: "", Password: "x"})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "phone" {
		t.Fatalf("expected phone validation error, got %v", err)
	}
	if users.calls != 0 {
		t.Errorf("repository must not be called, got %d", users.calls)
	}
}

func TestCurrentSessionRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t, &stubUsers{})
	if _, err := svc.CurrentSession(context.Background(), "not-a-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestDashboardFor(t *testing.T) {
	tests := map[models.Role]string{
		models.RoleAdmin:    "/admin",
		models.RoleAgent:    "/agent",
		models.RoleDriver:   "/worker",
		models.RoleHelper:   "/worker",
		models.RoleCleaner:  "/worker",
		models.RoleCustomer: "/track",
	}
	for role, want := range tests {
		if got := DashboardFor(role); got != want {
			t.Errorf("DashboardFor(%s) = %q, want %q", role, got, want)
		}
	}
}
