package notificationRepo

import (
	"context"
	"errors"

	"kigalimove/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository stores in-app worker notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.ServiceNotification) error
	// ListActive returns the worker's unread, undismissed notifications, newest first.
	ListActive(ctx context.Context, workerID string) ([]models.ServiceNotification, error)
	Dismiss(ctx context.Context, id, workerID string) error
	// MarkAssignment updates every notification of workerID for one assignment.
	MarkAssignment(ctx context.Context, assignmentID, workerID string, read, dismissed bool) error
}
