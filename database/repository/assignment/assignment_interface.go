package assignmentRepo

import (
	"context"
	"errors"
	"time"

	"kigalimove/models"
)

var (
	ErrAssignmentNotFound = errors.New("job assignment not found")
	// ErrAlreadyTaken is returned to the losing side of a concurrent acceptance.
	ErrAlreadyTaken = errors.New("job assignment already taken")
	// ErrStateConflict means the assignment was not in the expected state or owner.
	ErrStateConflict = errors.New("job assignment is not in the expected state")
)

// AssignmentRepository defines methods for job assignment data access.
type AssignmentRepository interface {
	CreateMany(ctx context.Context, assignments []models.JobAssignment) error
	GetByID(ctx context.Context, id string) (*models.JobAssignment, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.JobAssignment, error)
	ListByWorker(ctx context.Context, workerID string) ([]models.JobAssignment, error)
	ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.JobAssignment, error)
	// Claim binds an unowned pending assignment to workerID in one conditional write.
	Claim(ctx context.Context, id, workerID string, at time.Time) (*models.JobAssignment, error)
	// Advance moves an owned assignment from one status to the next.
	Advance(ctx context.Context, id, workerID string, from, to models.AssignmentStatus, at time.Time) (*models.JobAssignment, error)
	// Release returns an assigned, not yet started assignment to the pool.
	Release(ctx context.Context, id, workerID string) (*models.JobAssignment, error)
}
