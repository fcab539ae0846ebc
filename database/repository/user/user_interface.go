package userRepo

import (
	"context"
	"errors"

	"kigalimove/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = errors.New("phone number already registered")
)

// UserRepository defines methods for user account data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.UserAccount, error)
	// GetByPhone retrieves a user by the phone number used to log in.
	GetByPhone(ctx context.Context, phone string) (*models.UserAccount, error)
	// GetAll retrieves accounts, optionally restricted to one role.
	GetAll(ctx context.Context, role models.Role) ([]models.UserAccount, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.UserAccount) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
}
