package workerRepo

import (
	"context"
	"errors"

	"kigalimove/models"
)

var ErrWorkerNotFound = errors.New("worker not found")

// WorkerRepository defines methods for worker profile data access.
type WorkerRepository interface {
	Create(ctx context.Context, w *models.Worker) error
	GetByID(ctx context.Context, id string) (*models.Worker, error)
	GetByUserID(ctx context.Context, userID string) (*models.Worker, error)
	List(ctx context.Context, workerType models.WorkerType, availableOnly bool) ([]models.Worker, error)
	SetAvailability(ctx context.Context, id string, available bool) (*models.Worker, error)
	SetFCMToken(ctx context.Context, id, token string) error
	// AddJob records jobID as current and marks the worker unavailable.
	AddJob(ctx context.Context, id, jobID string) error
	// FinishJob drops jobID, bumps the completed count when completed is set,
	// and frees the worker when no jobs remain.
	FinishJob(ctx context.Context, id, jobID string, completed bool) error
}
