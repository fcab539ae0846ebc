package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	applicationRepo "kigalimove/database/repository/application"
	"kigalimove/models"
	"kigalimove/services/account"
)

type memApplications struct {
	apps      map[string]*models.JobApplication
	createErr error
}

func newMemApplications() *memApplications {
	return &memApplications{apps: map[string]*models.JobApplication{}}
}

func (m *memApplications) Create(_ context.Context, a *models.JobApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *a
	m.apps[a.ID] = &cp
	return nil
}

func (m *memApplications) GetByID(_ context.Context, id string) (*models.JobApplication, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, applicationRepo.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memApplications) List(context.Context, models.ApplicationStatus) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, a := range m.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memApplications) Review(_ context.Context, id string, to models.ApplicationStatus, at time.Time) (*models.JobApplication, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, applicationRepo.ErrApplicationNotFound
	}
	if a.Status != models.ApplicationPending {
		return nil, applicationRepo.ErrStateConflict
	}
	a.Status = to
	a.ReviewedAt = &at
	cp := *a
	return &cp, nil
}

type stubAccounts struct {
	created []models.NewUser
	err     error
}

func (s *stubAccounts) CreateUser(_ context.Context, u models.NewUser) (*models.UserAccount, *models.Worker, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.created = append(s.created, u)
	return &models.UserAccount{ID: "user-1", Phone: u.Phone, Role: u.Role},
		&models.Worker{ID: "worker-1", UserID: "user-1", Type: models.WorkerType(u.Role)}, nil
}

func (s *stubAccounts) BatchCreate(context.Context, []models.NewUser) []models.CreateResult {
	return nil
}

func (s *stubAccounts) ListUsers(context.Context, models.Role) ([]models.UserAccount, error) {
	return nil, nil
}

type memDocuments struct {
	uploads map[string]string
}

func (m *memDocuments) Upload(_ context.Context, r io.Reader, filename, folder string) (*models.DocumentRef, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	id := folder + "/" + filename
	m.uploads[id] = string(b)
	return &models.DocumentRef{PublicID: id, ResourceType: "raw"}, nil
}

func (m *memDocuments) Delete(_ context.Context, doc models.DocumentRef) error {
	delete(m.uploads, doc.PublicID)
	return nil
}

func (m *memDocuments) SignedURL(doc models.DocumentRef) (string, error) {
	return "https://cdn.example/" + doc.ResourceType + "/" + doc.PublicID, nil
}

func TestSubmitValidation(t *testing.T) {
	svc := NewDefaultApplicationService(newMemApplications(), &stubAccounts{}, nil, nil)
	tests := []struct {
		form  models.ApplicationForm
		field string
	}{
		{models.ApplicationForm{Phone: "0788123456", Role: "driver"}, "name"},
		{models.ApplicationForm{Name: "Eric", Role: "driver"}, "phone"},
		{models.ApplicationForm{Name: "Eric", Phone: "0788"}, "phone"},
		{models.ApplicationForm{Name: "Eric", Phone: "+250788123456", Role: "driver"}, "phone"},
		{models.ApplicationForm{Name: "Eric", Phone: "0788 123 456", Role: "driver"}, "phone"},
		{models.ApplicationForm{Name: "Eric", Phone: "0788123456"}, "role"},
		{models.ApplicationForm{Name: "Eric", Phone: "0788123456", Role: "admin"}, "role"},
	}
	for _, tt := range tests {
		_, err := svc.Submit(context.Background(), tt.form, nil)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != tt.field {
			t.Errorf("form %+v: expected %s error, got %v", tt.form, tt.field, err)
		}
	}
}

func TestSubmitUploadsDocument(t *testing.T) {
	repo := newMemApplications()
	docs := &memDocuments{uploads: map[string]string{}}
	svc := NewDefaultApplicationService(repo, &stubAccounts{}, docs, nil)

	app, err := svc.Submit(context.Background(),
		models.ApplicationForm{Name: " Eric ", Phone: "0788123456", Role: "helper"},
		&Document{Reader: strings.NewReader("licence"), Filename: "licence.pdf"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if app.Status != models.ApplicationPending || app.Name != "Eric" {
		t.Errorf("unexpected application %+v", app)
	}
	if app.Document == nil || docs.uploads[app.Document.PublicID] != "licence" {
		t.Errorf("document not uploaded: %+v", docs.uploads)
	}
	if got := svc.DocumentURL(app); !strings.HasPrefix(got, "https://cdn.example/") {
		t.Errorf("DocumentURL = %q", got)
	}
}

func TestSubmitWithoutStorageKeepsApplication(t *testing.T) {
	svc := NewDefaultApplicationService(newMemApplications(), &stubAccounts{}, nil, nil)
	app, err := svc.Submit(context.Background(),
		models.ApplicationForm{Name: "Eric", Phone: "0788123456", Role: "cleaner"},
		&Document{Reader: strings.NewReader("x"), Filename: "id.jpg"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if app.Document != nil {
		t.Errorf("expected no document, got %+v", app.Document)
	}
}

func TestSubmitDeletesDocumentWhenSaveFails(t *testing.T) {
	repo := newMemApplications()
	repo.createErr = errors.New("mongo down")
	docs := &memDocuments{uploads: map[string]string{}}
	svc := NewDefaultApplicationService(repo, &stubAccounts{}, docs, nil)

	_, err := svc.Submit(context.Background(),
		models.ApplicationForm{Name: "Eric", Phone: "0788123456", Role: "driver"},
		&Document{Reader: strings.NewReader("licence"), Filename: "licence.pdf"})
	if err == nil {
		t.Fatal("expected the save error")
	}
	if len(docs.uploads) != 0 {
		t.Errorf("orphaned uploads left behind: %v", docs.uploads)
	}
}

func TestSubmitRejectsPhonesLoginsRefuse(t *testing.T) {
	repo := newMemApplications()
	accounts := &stubAccounts{}
	svc := NewDefaultApplicationService(repo, accounts, nil, nil)

	if _, err := svc.Submit(context.Background(), models.ApplicationForm{Name: "Eric", Phone: "+250788123456", Role: "driver"}, nil); err == nil {
		t.Fatal("international format accepted; approval could never create the login")
	}
	if len(repo.apps) != 0 {
		t.Fatalf("rejected application stored: %d", len(repo.apps))
	}

	app, err := svc.Submit(context.Background(), models.ApplicationForm{Name: "Eric", Phone: " 0788123456 ", Role: "driver"}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !account.ValidPhone(app.Phone) {
		t.Fatalf("stored phone %q would fail account creation", app.Phone)
	}
}

func TestApproveCreatesAccountOnce(t *testing.T) {
	repo := newMemApplications()
	accounts := &stubAccounts{}
	svc := NewDefaultApplicationService(repo, accounts, nil, nil)
	app, err := svc.Submit(context.Background(), models.ApplicationForm{Name: "Eric", Phone: "0788123456", Role: "driver"}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	res, err := svc.Approve(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if res.Application.Status != models.ApplicationApproved || res.UserID != "user-1" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.InitialPassword) != initialPasswordLength {
		t.Errorf("initial password length = %d", len(res.InitialPassword))
	}
	if len(accounts.created) != 1 || accounts.created[0].Role != "driver" || accounts.created[0].Password != res.InitialPassword {
		t.Errorf("unexpected account request %+v", accounts.created)
	}

	if _, err := svc.Approve(context.Background(), app.ID); !errors.Is(err, ErrApplicationClosed) {
		t.Errorf("second approval: expected ErrApplicationClosed, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), app.ID); !errors.Is(err, ErrApplicationClosed) {
		t.Errorf("reject after approval: expected ErrApplicationClosed, got %v", err)
	}
	if len(accounts.created) != 1 {
		t.Errorf("account created more than once")
	}
}

func TestApproveReportsAccountFailure(t *testing.T) {
	repo := newMemApplications()
	svc := NewDefaultApplicationService(repo, &stubAccounts{err: errors.New("duplicate")}, nil, nil)
	app, _ := svc.Submit(context.Background(), models.ApplicationForm{Name: "Eric", Phone: "0788123456", Role: "driver"}, nil)

	if _, err := svc.Approve(context.Background(), app.ID); !errors.Is(err, ErrAccountFailed) {
		t.Fatalf("expected ErrAccountFailed, got %v", err)
	}
}

func TestRejectUnknown(t *testing.T) {
	svc := NewDefaultApplicationService(newMemApplications(), &stubAccounts{}, nil, nil)
	if _, err := svc.Reject(context.Background(), "missing"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}
