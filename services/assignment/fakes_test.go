package assignment

import (
	"context"
	"sync"
	"time"

	assignmentRepo "kigalimove/database/repository/assignment"
	notificationRepo "kigalimove/database/repository/notification"
	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/models"
)

// memAssignments mirrors the conditional updates of the Mongo repository under a mutex.
type memAssignments struct {
	mu   sync.Mutex
	byID map[string]models.JobAssignment
}

func newMemAssignments(list ...models.JobAssignment) *memAssignments {
	m := &memAssignments{byID: map[string]models.JobAssignment{}}
	for _, a := range list {
		m.byID[a.ID] = a
	}
	return m
}

func (m *memAssignments) CreateMany(_ context.Context, list []models.JobAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range list {
		m.byID[a.ID] = a
	}
	return nil
}

func (m *memAssignments) GetByID(_ context.Context, id string) (*models.JobAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, assignmentRepo.ErrAssignmentNotFound
	}
	return &a, nil
}

func (m *memAssignments) filter(keep func(models.JobAssignment) bool) []models.JobAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.JobAssignment
	for _, a := range m.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (m *memAssignments) ListByOrder(_ context.Context, orderID string) ([]models.JobAssignment, error) {
	return m.filter(func(a models.JobAssignment) bool { return a.OrderID == orderID }), nil
}

func (m *memAssignments) ListByWorker(_ context.Context, workerID string) ([]models.JobAssignment, error) {
	return m.filter(func(a models.JobAssignment) bool { return a.WorkerID == workerID }), nil
}

func (m *memAssignments) ListByStatus(_ context.Context, status models.AssignmentStatus) ([]models.JobAssignment, error) {
	return m.filter(func(a models.JobAssignment) bool { return a.Status == status }), nil
}

func (m *memAssignments) Claim(_ context.Context, id, workerID string, at time.Time) (*models.JobAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, assignmentRepo.ErrAssignmentNotFound
	}
	if a.Status != models.AssignmentPending || a.WorkerID != "" {
		return nil, assignmentRepo.ErrAlreadyTaken
	}
	a.WorkerID = workerID
	a.Status = models.AssignmentAssigned
	a.AssignedAt = &at
	a.AcceptedAt = &at
	m.byID[id] = a
	return &a, nil
}

func (m *memAssignments) Advance(_ context.Context, id, workerID string, from, to models.AssignmentStatus, at time.Time) (*models.JobAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, assignmentRepo.ErrAssignmentNotFound
	}
	if a.WorkerID != workerID || a.Status != from {
		return nil, assignmentRepo.ErrStateConflict
	}
	a.Status = to
	if to == models.AssignmentCompleted {
		a.CompletedAt = &at
	}
	m.byID[id] = a
	return &a, nil
}

func (m *memAssignments) Release(_ context.Context, id, workerID string) (*models.JobAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, assignmentRepo.ErrAssignmentNotFound
	}
	if a.WorkerID != workerID || a.Status != models.AssignmentAssigned {
		return nil, assignmentRepo.ErrStateConflict
	}
	a.WorkerID = ""
	a.Status = models.AssignmentPending
	a.AssignedAt, a.AcceptedAt = nil, nil
	m.byID[id] = a
	return &a, nil
}

type memWorkers struct {
	mu   sync.Mutex
	byID map[string]*models.Worker
}

func newMemWorkers(list ...models.Worker) *memWorkers {
	m := &memWorkers{byID: map[string]*models.Worker{}}
	for i := range list {
		w := list[i]
		m.byID[w.ID] = &w
	}
	return m
}

func (m *memWorkers) Create(_ context.Context, w *models.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[w.ID] = w
	return nil
}

func (m *memWorkers) GetByID(_ context.Context, id string) (*models.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byID[id]
	if !ok {
		return nil, workerRepo.ErrWorkerNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWorkers) GetByUserID(_ context.Context, userID string) (*models.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.byID {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, workerRepo.ErrWorkerNotFound
}

func (m *memWorkers) List(context.Context, models.WorkerType, bool) ([]models.Worker, error) {
	return nil, nil
}

func (m *memWorkers) SetAvailability(_ context.Context, id string, available bool) (*models.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byID[id]
	if !ok {
		return nil, workerRepo.ErrWorkerNotFound
	}
	w.Available = available
	return w, nil
}

func (m *memWorkers) SetFCMToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].FCMToken = token
	return nil
}

func (m *memWorkers) AddJob(_ context.Context, id, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.byID[id]
	w.CurrentJobs = append(w.CurrentJobs, jobID)
	w.Available = false
	return nil
}

func (m *memWorkers) FinishJob(_ context.Context, id, jobID string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.byID[id]
	kept := w.CurrentJobs[:0]
	for _, j := range w.CurrentJobs {
		if j != jobID {
			kept = append(kept, j)
		}
	}
	w.CurrentJobs = kept
	if completed {
		w.CompletedJobs++
	}
	w.Available = len(kept) == 0
	return nil
}

type memNotifications struct {
	mu   sync.Mutex
	list []models.ServiceNotification
}

func (m *memNotifications) Create(_ context.Context, n *models.ServiceNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *n)
	return nil
}

func (m *memNotifications) ListActive(_ context.Context, workerID string) ([]models.ServiceNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ServiceNotification
	for _, n := range m.list {
		if n.WorkerID == workerID && !n.Read && !n.Dismissed {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) Dismiss(_ context.Context, id, workerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id && m.list[i].WorkerID == workerID {
			m.list[i].Dismissed = true
			return nil
		}
	}
	return notificationRepo.ErrNotificationNotFound
}

func (m *memNotifications) MarkAssignment(_ context.Context, assignmentID, workerID string, read, dismissed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		n := &m.list[i]
		if n.JobAssignmentID == assignmentID && n.WorkerID == workerID {
			n.Read = n.Read || read
			n.Dismissed = n.Dismissed || dismissed
		}
	}
	return nil
}

type recordingPush struct {
	tokens []string
}

func (r *recordingPush) SendWorkerPushNotification(_ context.Context, token, _, _ string, _ map[string]string) error {
	r.tokens = append(r.tokens, token)
	return nil
}
