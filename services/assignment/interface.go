package assignment

import (
	"context"
	"errors"
	"time"

	assignmentRepo "kigalimove/database/repository/assignment"
	"kigalimove/models"
)

var (
	ErrAssignmentNotFound = assignmentRepo.ErrAssignmentNotFound
	ErrAlreadyTaken       = assignmentRepo.ErrAlreadyTaken
	ErrNotAllowed         = errors.New("job assignment is not in a state that allows this action")
	ErrWorkerNotFound     = errors.New("worker not found")
	ErrWorkerMismatch     = errors.New("worker type does not perform this service")
)

// AssignmentService tracks which worker performs each ordered service.
type AssignmentService interface {
	CreateForOrder(ctx context.Context, order *models.Order) error
	Offer(ctx context.Context, assignmentID, workerID string) (*models.ServiceNotification, error)
	AcceptJob(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error)
	DeclineJob(ctx context.Context, assignmentID, workerID string) error
	StartJob(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error)
	CompleteJob(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error)
	ReleaseTransport(ctx context.Context, orderID, workerID string) error
	ListOffers(ctx context.Context, workerID string, now time.Time) ([]models.ServiceNotification, error)
	DismissNotification(ctx context.Context, notificationID, workerID string) error
	ListForWorker(ctx context.Context, workerID string) ([]models.JobAssignment, error)
	ListForOrder(ctx context.Context, orderID string) ([]models.JobAssignment, error)
	ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.JobAssignment, error)
}

// PushSender delivers a push notification to a device token.
type PushSender interface {
	SendWorkerPushNotification(ctx context.Context, token, title, body string, data map[string]string) error
}
