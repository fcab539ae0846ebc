package models

import (
	"time"
)

type NotificationType string

const (
	NotificationJobOffer       NotificationType = "job_offer"
	NotificationStatusUpdate   NotificationType = "status_update"
	NotificationTimeoutWarning NotificationType = "timeout_warning"
)

// ServiceNotification is an in-app message addressed to one worker.
type ServiceNotification struct {
	ID              string           `bson:"id" json:"id"`
	WorkerID        string           `bson:"workerId" json:"workerId"`
	JobAssignmentID string           `bson:"jobAssignmentId" json:"jobAssignmentId"`
	Message         string           `bson:"message" json:"message"`
	Type            NotificationType `bson:"type" json:"type"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	ExpiresAt       *time.Time       `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Read            bool             `bson:"read" json:"read"`
	Dismissed       bool             `bson:"dismissed" json:"dismissed"`
}

// IsExpired is advisory: an expired offer is hidden, the assignment itself is untouched.
func (n ServiceNotification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
