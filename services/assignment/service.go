package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	assignmentRepo "kigalimove/database/repository/assignment"
	notificationRepo "kigalimove/database/repository/notification"
	orderRepo "kigalimove/database/repository/order"
	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const defaultOfferTTL = 15 * time.Minute

// DefaultAssignmentService implements AssignmentService. Push is optional.
type DefaultAssignmentService struct {
	Assignments   assignmentRepo.AssignmentRepository
	Workers       workerRepo.WorkerRepository
	Notifications notificationRepo.NotificationRepository
	Orders        orderRepo.OrderRepository
	Push          PushSender
	OfferTTL      time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

func (s *DefaultAssignmentService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultAssignmentService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultAssignmentService) offerTTL() time.Duration {
	if s.OfferTTL <= 0 {
		return defaultOfferTTL
	}
	return s.OfferTTL
}

// CreateForOrder opens one unowned assignment per requested service.
func (s *DefaultAssignmentService) CreateForOrder(ctx context.Context, order *models.Order) error {
	kinds := order.Services.Requested()
	if len(kinds) == 0 {
		return nil
	}
	now := s.now()
	assignments := make([]models.JobAssignment, 0, len(kinds))
	for _, kind := range kinds {
		assignments = append(assignments, models.JobAssignment{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ServiceType: kind,
			Status:      models.AssignmentPending,
			CreatedAt:   now,
		})
	}
	return s.Assignments.CreateMany(ctx, assignments)
}

func (s *DefaultAssignmentService) getWorker(ctx context.Context, workerID string) (*models.Worker, error) {
	w, err := s.Workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return w, nil
}

// matchingWorker loads the assignment and the worker and checks the worker type serves it.
func (s *DefaultAssignmentService) matchingWorker(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, *models.Worker, error) {
	a, err := s.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, nil, err
	}
	w, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}
	if a.ServiceType.WorkerType() != w.Type {
		return nil, nil, ErrWorkerMismatch
	}
	return a, w, nil
}

// Offer notifies a worker about a pending assignment. The offer expires after OfferTTL,
// but expiry only hides it; the assignment stays open.
func (s *DefaultAssignmentService) Offer(ctx context.Context, assignmentID, workerID string) (*models.ServiceNotification, error) {
	a, w, err := s.matchingWorker(ctx, assignmentID, workerID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AssignmentPending || a.WorkerID != "" {
		return nil, ErrAlreadyTaken
	}

	message := fmt.Sprintf("New %s job for order %s", a.ServiceType, a.OrderID)
	if s.Orders != nil {
		if order, err := s.Orders.GetByID(ctx, a.OrderID); err == nil {
			message = fmt.Sprintf("New %s job for order %s: %s to %s",
				a.ServiceType, a.OrderID, order.PickupAddress, order.DeliveryAddress)
		}
	}

	now := s.now()
	expires := now.Add(s.offerTTL())
	n := &models.ServiceNotification{
		ID:              uuid.New().String(),
		WorkerID:        w.ID,
		JobAssignmentID: a.ID,
		Message:         message,
		Type:            models.NotificationJobOffer,
		CreatedAt:       now,
		ExpiresAt:       &expires,
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.Push != nil && w.FCMToken != "" {
		data := map[string]string{
			"type":         string(models.NotificationJobOffer),
			"assignmentId": a.ID,
			"orderId":      a.OrderID,
		}
		if err := s.Push.SendWorkerPushNotification(ctx, w.FCMToken, "New job offer", message, data); err != nil {
			s.logger().Warn("Failed to push job offer", zap.String("workerId", w.ID), zap.Error(err))
		}
	}
	return n, nil
}

// AcceptJob claims the assignment for the worker. Exactly one of several
// concurrent callers succeeds; the others get ErrAlreadyTaken.
func (s *DefaultAssignmentService) AcceptJob(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error) {
	_, w, err := s.matchingWorker(ctx, assignmentID, workerID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.Assignments.Claim(ctx, assignmentID, w.ID, s.now())
	if err != nil {
		return nil, err
	}
	s.logger().Info("Job accepted",
		zap.String("assignmentId", claimed.ID),
		zap.String("orderId", claimed.OrderID),
		zap.String("workerId", w.ID))

	if err := s.Workers.AddJob(ctx, w.ID, claimed.ID); err != nil {
		s.logger().Error("Failed to mark worker busy", zap.String("workerId", w.ID), zap.Error(err))
	}
	if claimed.ServiceType == models.ServiceTransport {
		s.assignDriver(ctx, claimed.OrderID, w)
	}
	if err := s.Notifications.MarkAssignment(ctx, claimed.ID, w.ID, true, false); err != nil {
		s.logger().Warn("Failed to mark offer read", zap.String("assignmentId", claimed.ID), zap.Error(err))
	}
	return claimed, nil
}

// assignDriver copies the accepting driver onto a still-pending order.
func (s *DefaultAssignmentService) assignDriver(ctx context.Context, orderID string, w *models.Worker) {
	if s.Orders == nil {
		return
	}
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger().Error("Failed to load order for driver assignment", zap.String("orderId", orderID), zap.Error(err))
		return
	}
	if order.Status != models.OrderPending {
		return
	}
	_, err = s.Orders.UpdateFields(ctx, orderID, bson.M{
		"status":              models.OrderAssigned,
		"assignedDriver":      w.ID,
		"assignedDriverName":  w.Name,
		"assignedDriverPhone": w.Phone,
	})
	if err != nil {
		s.logger().Error("Failed to assign driver to order", zap.String("orderId", orderID), zap.Error(err))
	}
}

// DeclineJob hides the worker's offers for the assignment. Nothing is re-offered.
func (s *DefaultAssignmentService) DeclineJob(ctx context.Context, assignmentID, workerID string) error {
	if _, err := s.Assignments.GetByID(ctx, assignmentID); err != nil {
		return err
	}
	return s.Notifications.MarkAssignment(ctx, assignmentID, workerID, false, true)
}

func (s *DefaultAssignmentService) advance(ctx context.Context, assignmentID, workerID string, from, to models.AssignmentStatus) (*models.JobAssignment, error) {
	a, err := s.Assignments.Advance(ctx, assignmentID, workerID, from, to, s.now())
	if errors.Is(err, assignmentRepo.ErrStateConflict) {
		return nil, ErrNotAllowed
	}
	return a, err
}

func (s *DefaultAssignmentService) StartJob(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error) {
	return s.advance(ctx, assignmentID, workerID, models.AssignmentAssigned, models.AssignmentInProgress)
}

func (s *DefaultAssignmentService) CompleteJob(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error) {
	a, err := s.advance(ctx, assignmentID, workerID, models.AssignmentInProgress, models.AssignmentCompleted)
	if err != nil {
		return nil, err
	}
	if err := s.Workers.FinishJob(ctx, workerID, a.ID, true); err != nil {
		s.logger().Error("Failed to free worker", zap.String("workerId", workerID), zap.Error(err))
	}
	return a, nil
}

// ReleaseTransport reopens the driver's transport assignment of an order.
// Once the driver has started the job it returns ErrNotAllowed and changes nothing.
func (s *DefaultAssignmentService) ReleaseTransport(ctx context.Context, orderID, workerID string) error {
	list, err := s.Assignments.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	var held []models.JobAssignment
	for _, a := range list {
		if a.ServiceType != models.ServiceTransport || a.WorkerID != workerID {
			continue
		}
		if a.Status != models.AssignmentAssigned {
			return ErrNotAllowed
		}
		held = append(held, a)
	}
	for _, a := range held {
		if _, err := s.Assignments.Release(ctx, a.ID, workerID); err != nil {
			if errors.Is(err, assignmentRepo.ErrStateConflict) {
				return ErrNotAllowed
			}
			return err
		}
		if err := s.Workers.FinishJob(ctx, workerID, a.ID, false); err != nil {
			s.logger().Error("Failed to free worker", zap.String("workerId", workerID), zap.Error(err))
		}
	}
	return nil
}

// ListOffers returns the worker's active notifications that have not expired at now.
func (s *DefaultAssignmentService) ListOffers(ctx context.Context, workerID string, now time.Time) ([]models.ServiceNotification, error) {
	all, err := s.Notifications.ListActive(ctx, workerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ServiceNotification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired(now) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *DefaultAssignmentService) DismissNotification(ctx context.Context, notificationID, workerID string) error {
	return s.Notifications.Dismiss(ctx, notificationID, workerID)
}

func (s *DefaultAssignmentService) ListForWorker(ctx context.Context, workerID string) ([]models.JobAssignment, error) {
	return s.Assignments.ListByWorker(ctx, workerID)
}

func (s *DefaultAssignmentService) ListForOrder(ctx context.Context, orderID string) ([]models.JobAssignment, error) {
	return s.Assignments.ListByOrder(ctx, orderID)
}

func (s *DefaultAssignmentService) ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.JobAssignment, error) {
	if !status.IsValid() {
		return nil, models.NewValidationError("status", "Unknown assignment status")
	}
	return s.Assignments.ListByStatus(ctx, status)
}
