package applicationRepo

import (
	"context"
	"errors"
	"time"

	"kigalimove/models"
)

var (
	ErrApplicationNotFound = errors.New("job application not found")
	ErrStateConflict       = errors.New("job application is not pending")
)

// ApplicationRepository stores workforce applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id string) (*models.JobApplication, error)
	List(ctx context.Context, status models.ApplicationStatus) ([]models.JobApplication, error)
	// Review moves a pending application to a terminal status.
	Review(ctx context.Context, id string, to models.ApplicationStatus, at time.Time) (*models.JobApplication, error)
}
