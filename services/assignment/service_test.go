package assignment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	orderRepo "kigalimove/database/repository/order"
	"kigalimove/models"

	"github.com/golang/mock/gomock"
	"go.mongodb.org/mongo-driver/bson"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc           *DefaultAssignmentService
	assignments   *memAssignments
	workers       *memWorkers
	notifications *memNotifications
	push          *recordingPush
}

func newFixture(assignments []models.JobAssignment, workers ...models.Worker) *fixture {
	f := &fixture{
		assignments:   newMemAssignments(assignments...),
		workers:       newMemWorkers(workers...),
		notifications: &memNotifications{},
		push:          &recordingPush{},
	}
	f.svc = &DefaultAssignmentService{
		Assignments:   f.assignments,
		Workers:       f.workers,
		Notifications: f.notifications,
		Push:          f.push,
		OfferTTL:      15 * time.Minute,
		Now:           func() time.Time { return fixedNow },
	}
	return f
}

func pendingHelpers(id string) models.JobAssignment {
	return models.JobAssignment{ID: id, OrderID: "ORD001", ServiceType: models.ServiceHelpers, Status: models.AssignmentPending}
}

func TestCreateForOrder(t *testing.T) {
	f := newFixture(nil)
	order := &models.Order{ID: "ORD001", Services: models.Services{Transport: true, Helpers: 2, KeyDelivery: true}}

	if err := f.svc.CreateForOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateForOrder: %v", err)
	}
	list, _ := f.svc.ListForOrder(context.Background(), "ORD001")
	if len(list) != 3 {
		t.Fatalf("got %d assignments, want 3", len(list))
	}
	for _, a := range list {
		if a.Status != models.AssignmentPending || a.WorkerID != "" {
			t.Errorf("assignment %+v should be pending and unowned", a)
		}
	}
}

func TestConcurrentAcceptSingleOwner(t *testing.T) {
	f := newFixture(
		[]models.JobAssignment{pendingHelpers("a1")},
		models.Worker{ID: "w1", Type: models.WorkerHelper, Available: true},
		models.Worker{ID: "w2", Type: models.WorkerHelper, Available: true},
	)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, worker := range []string{"w1", "w2"} {
		wg.Add(1)
		go func(workerID string) {
			defer wg.Done()
			_, err := f.svc.AcceptJob(context.Background(), "a1", workerID)
			errs <- err
		}(worker)
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyTaken):
			taken++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if ok != 1 || taken != 1 {
		t.Fatalf("ok=%d taken=%d, want 1 and 1", ok, taken)
	}

	a, _ := f.assignments.GetByID(context.Background(), "a1")
	if a.Status != models.AssignmentAssigned || a.AssignedAt == nil || a.AcceptedAt == nil {
		t.Fatalf("assignment not claimed: %+v", a)
	}
	owner, _ := f.workers.GetByID(context.Background(), a.WorkerID)
	if owner.Available || len(owner.CurrentJobs) != 1 {
		t.Fatalf("owner not marked busy: %+v", owner)
	}
}

func TestAcceptJobWrongWorkerType(t *testing.T) {
	f := newFixture([]models.JobAssignment{pendingHelpers("a1")},
		models.Worker{ID: "c1", Type: models.WorkerCleaner})

	if _, err := f.svc.AcceptJob(context.Background(), "a1", "c1"); !errors.Is(err, ErrWorkerMismatch) {
		t.Fatalf("err = %v, want ErrWorkerMismatch", err)
	}
}

func TestAcceptTransportAssignsDriverToOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(
		[]models.JobAssignment{{ID: "t1", OrderID: "ORD001", ServiceType: models.ServiceTransport, Status: models.AssignmentPending}},
		models.Worker{ID: "d1", Name: "Jean", Phone: "0788000000", Type: models.WorkerDriver},
	)
	orders := orderRepo.NewMockOrderRepository(ctrl)
	f.svc.Orders = orders

	orders.EXPECT().GetByID(gomock.Any(), "ORD001").Return(&models.Order{ID: "ORD001", Status: models.OrderPending}, nil)
	orders.EXPECT().UpdateFields(gomock.Any(), "ORD001", bson.M{
		"status":              models.OrderAssigned,
		"assignedDriver":      "d1",
		"assignedDriverName":  "Jean",
		"assignedDriverPhone": "0788000000",
	}).Return(&models.Order{ID: "ORD001", Status: models.OrderAssigned}, nil)

	if _, err := f.svc.AcceptJob(context.Background(), "t1", "d1"); err != nil {
		t.Fatalf("AcceptJob: %v", err)
	}
}

func TestOfferCreatesExpiringNotification(t *testing.T) {
	f := newFixture([]models.JobAssignment{pendingHelpers("a1")},
		models.Worker{ID: "w1", Type: models.WorkerHelper, FCMToken: "tok-1"})

	n, err := f.svc.Offer(context.Background(), "a1", "w1")
	if err != nil {
		t.Fatalf("Offer: %v", err)
	}
	if n.Type != models.NotificationJobOffer || n.ExpiresAt == nil || !n.ExpiresAt.Equal(fixedNow.Add(15*time.Minute)) {
		t.Fatalf("unexpected notification %+v", n)
	}
	if len(f.push.tokens) != 1 || f.push.tokens[0] != "tok-1" {
		t.Fatalf("push not sent: %v", f.push.tokens)
	}

	active, _ := f.svc.ListOffers(context.Background(), "w1", fixedNow.Add(10*time.Minute))
	if len(active) != 1 {
		t.Fatalf("offer should be visible before expiry, got %d", len(active))
	}
	expired, _ := f.svc.ListOffers(context.Background(), "w1", fixedNow.Add(16*time.Minute))
	if len(expired) != 0 {
		t.Fatalf("offer should be hidden after expiry, got %d", len(expired))
	}

	// Expiry is advisory: the worker can still accept.
	if _, err := f.svc.AcceptJob(context.Background(), "a1", "w1"); err != nil {
		t.Fatalf("AcceptJob after expiry: %v", err)
	}
}

func TestOfferAlreadyTaken(t *testing.T) {
	a := pendingHelpers("a1")
	a.WorkerID = "w2"
	a.Status = models.AssignmentAssigned
	f := newFixture([]models.JobAssignment{a}, models.Worker{ID: "w1", Type: models.WorkerHelper})

	if _, err := f.svc.Offer(context.Background(), "a1", "w1"); !errors.Is(err, ErrAlreadyTaken) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeclineJobKeepsAssignmentPending(t *testing.T) {
	f := newFixture([]models.JobAssignment{pendingHelpers("a1")}, models.Worker{ID: "w1", Type: models.WorkerHelper})
	if _, err := f.svc.Offer(context.Background(), "a1", "w1"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeclineJob(context.Background(), "a1", "w1"); err != nil {
		t.Fatalf("DeclineJob: %v", err)
	}
	offers, _ := f.svc.ListOffers(context.Background(), "w1", fixedNow)
	if len(offers) != 0 {
		t.Fatalf("declined offer still listed")
	}
	a, _ := f.assignments.GetByID(context.Background(), "a1")
	if a.Status != models.AssignmentPending || a.WorkerID != "" {
		t.Fatalf("assignment changed on decline: %+v", a)
	}
}

func TestStartAndCompleteJob(t *testing.T) {
	f := newFixture([]models.JobAssignment{pendingHelpers("a1")}, models.Worker{ID: "w1", Type: models.WorkerHelper, Available: true})
	ctx := context.Background()

	if _, err := f.svc.CompleteJob(ctx, "a1", "w1"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("complete before accept: err = %v", err)
	}
	if _, err := f.svc.AcceptJob(ctx, "a1", "w1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.StartJob(ctx, "a1", "w2"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("start by non-owner: err = %v", err)
	}
	if _, err := f.svc.StartJob(ctx, "a1", "w1"); err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	done, err := f.svc.CompleteJob(ctx, "a1", "w1")
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	w, _ := f.workers.GetByID(ctx, "w1")
	if !w.Available || w.CompletedJobs != 1 || len(w.CurrentJobs) != 0 {
		t.Fatalf("worker not freed: %+v", w)
	}
}

func TestReleaseTransport(t *testing.T) {
	f := newFixture(
		[]models.JobAssignment{{ID: "t1", OrderID: "ORD001", ServiceType: models.ServiceTransport, Status: models.AssignmentPending}},
		models.Worker{ID: "d1", Type: models.WorkerDriver, Available: true},
	)
	ctx := context.Background()
	if _, err := f.svc.AcceptJob(ctx, "t1", "d1"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.ReleaseTransport(ctx, "ORD001", "d1"); err != nil {
		t.Fatalf("ReleaseTransport: %v", err)
	}
	a, _ := f.assignments.GetByID(ctx, "t1")
	if a.Status != models.AssignmentPending || a.WorkerID != "" {
		t.Fatalf("assignment not reopened: %+v", a)
	}
	w, _ := f.workers.GetByID(ctx, "d1")
	if !w.Available || w.CompletedJobs != 0 {
		t.Fatalf("worker state wrong after release: %+v", w)
	}
}

func TestReleaseTransportRefusesStartedJob(t *testing.T) {
	f := newFixture(
		[]models.JobAssignment{{ID: "t1", OrderID: "ORD001", ServiceType: models.ServiceTransport, Status: models.AssignmentPending}},
		models.Worker{ID: "d1", Type: models.WorkerDriver, Available: true},
	)
	ctx := context.Background()
	if _, err := f.svc.AcceptJob(ctx, "t1", "d1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.StartJob(ctx, "t1", "d1"); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.ReleaseTransport(ctx, "ORD001", "d1"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
	a, _ := f.assignments.GetByID(ctx, "t1")
	if a.Status != models.AssignmentInProgress || a.WorkerID != "d1" {
		t.Fatalf("started assignment changed: %+v", a)
	}
}

func TestListByStatus(t *testing.T) {
	f := newFixture(
		[]models.JobAssignment{
			{ID: "a1", OrderID: "ORD001", ServiceType: models.ServiceTransport, Status: models.AssignmentPending},
			{ID: "a2", OrderID: "ORD001", ServiceType: models.ServiceCleaning, Status: models.AssignmentCompleted},
		},
		models.Worker{ID: "d1", Type: models.WorkerDriver, Available: true},
	)
	ctx := context.Background()

	list, err := f.svc.ListByStatus(ctx, models.AssignmentPending)
	if err != nil || len(list) != 1 || list[0].ID != "a1" {
		t.Fatalf("ListByStatus(pending) = %+v, %v", list, err)
	}
	var vErr *models.ValidationError
	if _, err := f.svc.ListByStatus(ctx, "cancelled"); !errors.As(err, &vErr) {
		t.Fatalf("unknown status err = %v, want ValidationError", err)
	}
}
