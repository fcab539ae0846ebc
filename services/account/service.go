package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	userRepo "kigalimove/database/repository/user"
	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidPhone reports whether phone is a 10 digit local number, the only form a login accepts.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// AccountService creates dashboard logins.
type AccountService interface {
	CreateUser(ctx context.Context, u models.NewUser) (*models.UserAccount, *models.Worker, error)
	BatchCreate(ctx context.Context, users []models.NewUser) []models.CreateResult
	ListUsers(ctx context.Context, role models.Role) ([]models.UserAccount, error)
}

// DefaultAccountService implements AccountService. Worker roles also get a
// worker profile.
type DefaultAccountService struct {
	Users    userRepo.UserRepository
	Workers  workerRepo.WorkerRepository
	HashCost int
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewDefaultAccountService(users userRepo.UserRepository, workers workerRepo.WorkerRepository, logger *zap.Logger) *DefaultAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAccountService{
		Users:    users,
		Workers:  workers,
		HashCost: bcrypt.DefaultCost,
		Logger:   logger,
		Now:      time.Now,
	}
}

// ValidateNewUser checks one entry of an account batch.
func ValidateNewUser(u models.NewUser) error {
	switch {
	case strings.TrimSpace(u.Name) == "":
		return models.NewValidationError("name", "Name is required")
	case !ValidPhone(u.Phone):
		return models.NewValidationError("phone", "Phone number must be 10 digits")
	case len(u.Password) < minPasswordLength:
		return models.NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	case !models.Role(u.Role).IsValid():
		return models.NewValidationError("role", "Unknown role")
	}
	return nil
}

func (s *DefaultAccountService) CreateUser(ctx context.Context, u models.NewUser) (*models.UserAccount, *models.Worker, error) {
	if err := ValidateNewUser(u); err != nil {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.HashCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.UserAccount{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(u.Name),
		Phone:        strings.TrimSpace(u.Phone),
		PasswordHash: string(hash),
		Role:         u.Role,
	}
	if err := s.Users.Create(ctx, account); err != nil {
		if errors.Is(err, userRepo.ErrDuplicatePhone) {
			return nil, nil, models.NewValidationError("phone", "Phone number already registered")
		}
		return nil, nil, err
	}

	role := models.Role(u.Role)
	if !role.IsWorker() || s.Workers == nil {
		return account, nil, nil
	}

	now := s.Now()
	worker := &models.Worker{
		ID:          uuid.New().String(),
		UserID:      account.ID,
		Name:        account.Name,
		Phone:       account.Phone,
		Type:        models.WorkerType(role),
		Available:   true,
		CurrentJobs: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Workers.Create(ctx, worker); err != nil {
		if delErr := s.Users.Delete(ctx, account.ID); delErr != nil {
			s.Logger.Error("Failed to roll back account", zap.String("userId", account.ID), zap.Error(delErr))
		}
		return nil, nil, err
	}
	return account, worker, nil
}

// BatchCreate creates each account independently; one failure never stops the batch.
func (s *DefaultAccountService) BatchCreate(ctx context.Context, users []models.NewUser) []models.CreateResult {
	results := make([]models.CreateResult, 0, len(users))
	for _, u := range users {
		res := models.CreateResult{Phone: strings.TrimSpace(u.Phone)}
		account, _, err := s.CreateUser(ctx, u)
		if err != nil {
			var vErr *models.ValidationError
			if errors.As(err, &vErr) {
				res.Error = vErr.Message
			} else {
				s.Logger.Error("Failed to create account", zap.String("phone", res.Phone), zap.Error(err))
				res.Error = "Failed to create user"
			}
		} else {
			res.Success = true
			res.UserID = account.ID
		}
		results = append(results, res)
	}
	return results
}

func (s *DefaultAccountService) ListUsers(ctx context.Context, role models.Role) ([]models.UserAccount, error) {
	return s.Users.GetAll(ctx, role)
}

const passwordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random initial password of n characters.
func GeneratePassword(n int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
