package models

import (
	"fmt"
	"time"
)

// AssignmentStatus tracks a single ordered service through its worker.
type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in-progress"
	AssignmentCompleted  AssignmentStatus = "completed"
)

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentPending, AssignmentAssigned, AssignmentInProgress, AssignmentCompleted:
		return true
	default:
		return false
	}
}

func (s *AssignmentStatus) UnmarshalText(b []byte) error {
	v := AssignmentStatus(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown assignment status %q", string(b))
	}
	*s = v
	return nil
}

// JobAssignment binds one ordered service to at most one worker.
type JobAssignment struct {
	ID          string           `bson:"id" json:"id"`
	OrderID     string           `bson:"orderId" json:"orderId"`
	ServiceType ServiceKind      `bson:"serviceType" json:"serviceType"`
	WorkerID    string           `bson:"workerId" json:"workerId,omitempty"`
	Status      AssignmentStatus `bson:"status" json:"status"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
	AssignedAt  *time.Time       `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	AcceptedAt  *time.Time       `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	CompletedAt *time.Time       `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
