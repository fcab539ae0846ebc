package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	applicationRepo "kigalimove/database/repository/application"
	"kigalimove/models"
	"kigalimove/services/account"
	"kigalimove/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const initialPasswordLength = 10

var (
	ErrApplicationNotFound = applicationRepo.ErrApplicationNotFound
	ErrApplicationClosed   = errors.New("job application has already been reviewed")
	ErrAccountFailed       = errors.New("application approved but the account could not be created")
)

// Document is an optional file attached to an application.
type Document struct {
	Reader   io.Reader
	Filename string
}

// ApplicationService handles workforce applications.
type ApplicationService interface {
	Submit(ctx context.Context, form models.ApplicationForm, doc *Document) (*models.JobApplication, error)
	List(ctx context.Context, status models.ApplicationStatus) ([]models.JobApplication, error)
	Approve(ctx context.Context, id string) (*models.ApprovalResult, error)
	Reject(ctx context.Context, id string) (*models.JobApplication, error)
	DocumentURL(app *models.JobApplication) string
}

// DefaultApplicationService implements ApplicationService. Documents is optional.
type DefaultApplicationService struct {
	Repo      applicationRepo.ApplicationRepository
	Accounts  account.AccountService
	Documents storage.DocumentStore
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultApplicationService(repo applicationRepo.ApplicationRepository, accounts account.AccountService, docs storage.DocumentStore, logger *zap.Logger) *DefaultApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultApplicationService{Repo: repo, Accounts: accounts, Documents: docs, Logger: logger, Now: time.Now}
}

func validateForm(form models.ApplicationForm) error {
	switch {
	case form.Name == "":
		return models.NewValidationError("name", "Name is required")
	case form.Phone == "":
		return models.NewValidationError("phone", "Phone number is required")
	case !account.ValidPhone(form.Phone):
		return models.NewValidationError("phone", "Phone number must be 10 digits")
	}
	if !models.Role(form.Role).IsWorker() {
		return models.NewValidationError("role", "Please choose driver, helper or cleaner")
	}
	return nil
}

func (s *DefaultApplicationService) Submit(ctx context.Context, form models.ApplicationForm, doc *Document) (*models.JobApplication, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Role = strings.TrimSpace(form.Role)
	form.Message = strings.TrimSpace(form.Message)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	app := &models.JobApplication{
		ID:          uuid.New().String(),
		Name:        form.Name,
		Phone:       form.Phone,
		Role:        models.Role(form.Role),
		Message:     form.Message,
		Status:      models.ApplicationPending,
		SubmittedAt: s.Now(),
	}

	if doc != nil {
		if s.Documents == nil {
			s.Logger.Warn("Document storage not configured; dropping attachment", zap.String("applicationId", app.ID))
		} else {
			ref, err := s.Documents.Upload(ctx, doc.Reader, doc.Filename, storage.ApplicationDocumentsFolder)
			if err != nil {
				return nil, fmt.Errorf("failed to upload document: %w", err)
			}
			app.Document = ref
		}
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		if app.Document != nil {
			if delErr := s.Documents.Delete(ctx, *app.Document); delErr != nil {
				s.Logger.Warn("Failed to delete orphaned document",
					zap.String("publicId", app.Document.PublicID), zap.Error(delErr))
			}
		}
		return nil, err
	}
	s.Logger.Info("Job application received", zap.String("applicationId", app.ID), zap.String("role", form.Role))
	return app, nil
}

func (s *DefaultApplicationService) List(ctx context.Context, status models.ApplicationStatus) ([]models.JobApplication, error) {
	return s.Repo.List(ctx, status)
}

func (s *DefaultApplicationService) review(ctx context.Context, id string, to models.ApplicationStatus) (*models.JobApplication, error) {
	app, err := s.Repo.Review(ctx, id, to, s.Now())
	if errors.Is(err, applicationRepo.ErrStateConflict) {
		return nil, ErrApplicationClosed
	}
	return app, err
}

// Approve closes a pending application and opens a login plus worker profile.
// The initial password is only ever returned here.
func (s *DefaultApplicationService) Approve(ctx context.Context, id string) (*models.ApprovalResult, error) {
	app, err := s.review(ctx, id, models.ApplicationApproved)
	if err != nil {
		return nil, err
	}

	password, err := account.GeneratePassword(initialPasswordLength)
	if err != nil {
		return nil, err
	}
	user, worker, err := s.Accounts.CreateUser(ctx, models.NewUser{
		Name:     app.Name,
		Phone:    app.Phone,
		Password: password,
		Role:     string(app.Role),
	})
	if err != nil {
		s.Logger.Error("Failed to create account for approved application", zap.String("applicationId", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAccountFailed, err)
	}

	s.Logger.Info("Job application approved", zap.String("applicationId", id), zap.String("userId", user.ID))
	return &models.ApprovalResult{
		Application:     app,
		Worker:          worker,
		UserID:          user.ID,
		InitialPassword: password,
	}, nil
}

func (s *DefaultApplicationService) Reject(ctx context.Context, id string) (*models.JobApplication, error) {
	return s.review(ctx, id, models.ApplicationRejected)
}

// DocumentURL returns a signed link to the attached document, or "".
func (s *DefaultApplicationService) DocumentURL(app *models.JobApplication) string {
	if app.Document == nil || s.Documents == nil {
		return ""
	}
	link, err := s.Documents.SignedURL(*app.Document)
	if err != nil {
		s.Logger.Warn("Failed to sign document link", zap.String("applicationId", app.ID), zap.Error(err))
		return ""
	}
	return link
}
