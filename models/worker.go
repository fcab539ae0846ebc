package models

import (
	"fmt"
	"time"
)

type WorkerType string

const (
	WorkerDriver   WorkerType = "driver"
	WorkerHelper   WorkerType = "helper"
	WorkerCleaner  WorkerType = "cleaner"
	WorkerDelivery WorkerType = "delivery"
)

func (t WorkerType) IsValid() bool {
	switch t {
	case WorkerDriver, WorkerHelper, WorkerCleaner, WorkerDelivery:
		return true
	default:
		return false
	}
}

func (t *WorkerType) UnmarshalText(b []byte) error {
	v := WorkerType(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown worker type %q", string(b))
	}
	*t = v
	return nil
}

// Worker is a driver, helper, cleaner or key courier who can hold job assignments.
type Worker struct {
	ID            string     `bson:"id" json:"id"`
	UserID        string     `bson:"userId,omitempty" json:"userId,omitempty"`
	Name          string     `bson:"name" json:"name"`
	Phone         string     `bson:"phone" json:"phone"`
	Type          WorkerType `bson:"type" json:"type"`
	Available     bool       `bson:"available" json:"available"`
	CurrentJobs   []string   `bson:"currentJobs" json:"currentJobs"`
	CompletedJobs int        `bson:"completedJobs" json:"completedJobs"`
	FCMToken      string     `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}
