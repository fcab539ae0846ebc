// models/user.go
package models

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles used for dashboard routing.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleHelper   Role = "helper"
	RoleCleaner  Role = "cleaner"
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleHelper, RoleCleaner, RoleAdmin, RoleAgent:
		return true
	default:
		return false
	}
}

// IsWorker reports whether the role is served by the worker dashboard.
func (r Role) IsWorker() bool {
	return r == RoleDriver || r == RoleHelper || r == RoleCleaner
}

func ParseRole(v string) (Role, error) {
	r := Role(v)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", v)
	}
	return r, nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UserAccount is the login identity behind every dashboard.
type UserAccount struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Phone        string    `bson:"phone" json:"phone"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewUser is one entry of a batch account creation.
type NewUser struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateResult is the per-user outcome of a batch account creation.
type CreateResult struct {
	Phone   string `json:"phone"`
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}
