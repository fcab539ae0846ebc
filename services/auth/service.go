package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	userRepo "kigalimove/database/repository/user"
	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/models"
	"kigalimove/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultRetries    = 3
	defaultRetryBase  = time.Second
	defaultSessionTTL = 24 * time.Hour
)

// Credentials is the login form.
type Credentials struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Success   bool        `json:"success"`
	Role      models.Role `json:"role"`
	UserID    string      `json:"userId"`
	UserName  string      `json:"userName"`
	Token     string      `json:"token"`
	Dashboard string      `json:"dashboard"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// SessionStore persists the server side of a login session.
type SessionStore interface {
	Save(ctx context.Context, session utils.AuthSession) error
	Get(ctx context.Context, sessionID string) (*utils.AuthSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthService is the session gate in front of the dashboards.
type AuthService interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentSession(ctx context.Context, token string) (*utils.AuthSession, error)
}

// DefaultAuthService implements AuthService. Workers is optional; when set,
// worker roles must have a worker profile to log in.
type DefaultAuthService struct {
	Users      userRepo.UserRepository
	Workers    workerRepo.WorkerRepository
	Sessions   SessionStore
	SessionTTL time.Duration
	Retries    int
	RetryBase  time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewDefaultAuthService(users userRepo.UserRepository, workers workerRepo.WorkerRepository, sessions SessionStore, ttl time.Duration, logger *zap.Logger) *DefaultAuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAuthService{
		Users:      users,
		Workers:    workers,
		Sessions:   sessions,
		SessionTTL: ttl,
		Retries:    defaultRetries,
		RetryBase:  defaultRetryBase,
		Sleep:      sleepContext,
		Logger:     logger,
		Now:        time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DashboardFor maps a role to the dashboard it lands on.
func DashboardFor(role models.Role) string {
	switch {
	case role == models.RoleAdmin:
		return "/admin"
	case role == models.RoleAgent:
		return "/agent"
	case role.IsWorker():
		return "/worker"
	default:
		return "/track"
	}
}

// Login authenticates by phone and password. Transient failures are retried
// with a linear backoff of RetryBase, 2*RetryBase, ...; a LoginError is final.
func (s *DefaultAuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	creds.Phone = strings.TrimSpace(creds.Phone)
	if creds.Phone == "" {
		return nil, models.NewValidationError("phone", "Phone number is required")
	}
	if creds.Password == "" {
		return nil, models.NewValidationError("password", "Password is required")
	}

	var lastErr error
	for attempt := 0; attempt <= s.Retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * s.RetryBase
			s.Logger.Warn("Retrying login", zap.Int("attempt", attempt), zap.Duration("backoff", wait), zap.Error(lastErr))
			if err := s.Sleep(ctx, wait); err != nil {
				return nil, newLoginError(CodeLoginFailed)
			}
		}

		result, err := s.attemptLogin(ctx, creds)
		if err == nil {
			return result, nil
		}
		var loginErr *LoginError
		if errors.As(err, &loginErr) {
			return nil, loginErr
		}
		lastErr = err
	}

	s.Logger.Error("Login failed after retries", zap.Error(lastErr))
	return nil, newLoginError(CodeLoginFailed)
}

func (s *DefaultAuthService) attemptLogin(ctx context.Context, creds Credentials) (*LoginResult, error) {
	user, err := s.Users.GetByPhone(ctx, creds.Phone)
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return nil, newLoginError(CodeInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, newLoginError(CodeInvalidCredentials)
	}

	if user.Role == "" {
		return nil, newLoginError(CodeProfileNotFound)
	}
	role, err := models.ParseRole(user.Role)
	if err != nil {
		s.Logger.Error("Account has an unknown role", zap.String("userId", user.ID), zap.String("role", user.Role))
		return nil, newLoginError(CodeUnknownRole)
	}

	var workerID string
	if role.IsWorker() && s.Workers != nil {
		w, err := s.Workers.GetByUserID(ctx, user.ID)
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			return nil, newLoginError(CodeProfileNotFound)
		}
		if err != nil {
			return nil, err
		}
		workerID = w.ID
	}

	now := s.Now()
	session := utils.AuthSession{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		Role:      string(role),
		WorkerID:  workerID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.SessionTTL),
	}
	token, err := utils.GenerateToken(user.ID, string(role), session.ID, s.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.Logger.Info("User logged in", zap.String("userId", user.ID), zap.String("role", string(role)))
	return &LoginResult{
		Success:   true,
		Role:      role,
		UserID:    user.ID,
		UserName:  user.Name,
		Token:     token,
		Dashboard: DashboardFor(role),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *DefaultAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

// CurrentSession resolves a bearer token to its live session.
func (s *DefaultAuthService) CurrentSession(ctx context.Context, token string) (*utils.AuthSession, error) {
	claims, err := utils.ParseSessionToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	session, err := s.Sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, utils.ErrSessionNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	return session, nil
}
