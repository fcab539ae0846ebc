package order

import (
	"context"
	"errors"
	"strings"
	"time"

	orderRepo "kigalimove/database/repository/order"
	"kigalimove/models"
	"kigalimove/services/assignment"
	"kigalimove/services/distance"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultOrderService implements OrderService. Assignments, Commissions and SMS are optional.
type DefaultOrderService struct {
	Repo        orderRepo.OrderRepository
	Distance    DistanceEstimator
	Assignments AssignmentHooks
	Commissions CommissionRecorder
	SMS         SMSNotifier
	Logger      *zap.Logger
	Now         func() time.Time
	NewID       func() (string, error)
}

func NewDefaultOrderService(repo orderRepo.OrderRepository, dist DistanceEstimator, logger *zap.Logger) *DefaultOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultOrderService{
		Repo:     repo,
		Distance: dist,
		Logger:   logger,
		Now:      time.Now,
		NewID:    NewOrderID,
	}
}

func (s *DefaultOrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultOrderService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// normaliseForm trims text fields and derives missing addresses from picked locations.
func normaliseForm(form models.OrderForm) models.OrderForm {
	form.CustomerName = strings.TrimSpace(form.CustomerName)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)
	form.PickupAddress = strings.TrimSpace(form.PickupAddress)
	form.DeliveryAddress = strings.TrimSpace(form.DeliveryAddress)
	form.SpecialItems = strings.TrimSpace(form.SpecialItems)
	form.AgentID = strings.TrimSpace(form.AgentID)
	if form.PickupAddress == "" && form.PickupLocation != nil {
		form.PickupAddress = form.PickupLocation.FullAddress()
	}
	if form.DeliveryAddress == "" && form.DeliveryLocation != nil {
		form.DeliveryAddress = form.DeliveryLocation.FullAddress()
	}
	return form
}

// ValidateForm checks the fields a customer must fill before an order is accepted.
func ValidateForm(form models.OrderForm) error {
	switch {
	case form.CustomerName == "":
		return models.NewValidationError("customerName", "Customer name is required")
	case form.PhoneNumber == "":
		return models.NewValidationError("phoneNumber", "Phone number is required")
	case form.PickupAddress == "":
		return models.NewValidationError("pickupAddress", "Pickup address is required")
	case form.DeliveryAddress == "":
		return models.NewValidationError("deliveryAddress", "Delivery address is required")
	}
	return form.Services.Validate()
}

func (s *DefaultOrderService) Quote(ctx context.Context, form models.OrderForm) (*models.Quote, error) {
	form = normaliseForm(form)
	if form.PickupAddress == "" || form.DeliveryAddress == "" {
		return nil, models.NewValidationError("address", "Pickup and delivery addresses are required")
	}
	if err := form.Services.Validate(); err != nil {
		return nil, err
	}
	est := s.Distance.Estimate(ctx, form.PickupAddress, form.DeliveryAddress)
	return &models.Quote{
		Distance:       est.Km,
		DistanceSource: est.Source,
		TotalCost:      CalculateTotal(form.Services, form.VIP),
	}, nil
}

func (s *DefaultOrderService) SubmitOrder(ctx context.Context, form models.OrderForm) (*models.Order, error) {
	form = normaliseForm(form)
	if err := ValidateForm(form); err != nil {
		return nil, err
	}

	est := s.Distance.Estimate(ctx, form.PickupAddress, form.DeliveryAddress)
	km := est.Km
	now := s.now()
	order := &models.Order{
		CustomerName:     form.CustomerName,
		PhoneNumber:      form.PhoneNumber,
		PickupAddress:    form.PickupAddress,
		DeliveryAddress:  form.DeliveryAddress,
		PickupLocation:   form.PickupLocation,
		DeliveryLocation: form.DeliveryLocation,
		Services:         form.Services,
		Distance:         &km,
		DistanceSource:   est.Source,
		TotalCost:        CalculateTotal(form.Services, form.VIP),
		Status:           models.OrderPending,
		VIP:              form.VIP,
		SpecialItems:     form.SpecialItems,
		AgentID:          form.AgentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.insertWithUniqueID(ctx, order); err != nil {
		return nil, err
	}
	s.logger().Info("Order submitted",
		zap.String("orderId", order.ID),
		zap.Int64("totalCost", order.TotalCost),
		zap.String("distanceSource", string(order.DistanceSource)))

	if s.Assignments != nil {
		if err := s.Assignments.CreateForOrder(ctx, order); err != nil {
			s.logger().Error("Failed to create job assignments", zap.String("orderId", order.ID), zap.Error(err))
		}
	}
	if s.SMS != nil {
		if err := s.SMS.EnqueueOrderSMS(ctx, order); err != nil {
			s.logger().Warn("Failed to queue order SMS", zap.String("orderId", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

func (s *DefaultOrderService) insertWithUniqueID(ctx context.Context, order *models.Order) error {
	newID := s.NewID
	if newID == nil {
		newID = NewOrderID
	}
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := newID()
		if err != nil {
			return err
		}
		exists, err := s.Repo.Exists(ctx, id)
		if err != nil {
			s.logger().Error("Failed to check order id", zap.String("orderId", id), zap.Error(err))
			return ErrPersistFailed
		}
		if exists {
			s.logger().Debug("Order id collision", zap.String("orderId", id), zap.Int("attempt", attempt))
			continue
		}

		order.ID = id
		err = s.Repo.Create(ctx, order)
		if errors.Is(err, orderRepo.ErrDuplicateID) {
			continue
		}
		if err != nil {
			s.logger().Error("Failed to save order", zap.Error(err))
			order.ID = ""
			return ErrPersistFailed
		}
		return nil
	}
	order.ID = ""
	return ErrIDExhausted
}

func (s *DefaultOrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, models.NewValidationError("id", "Order ID is required")
	}
	if !IsOrderID(id) {
		return nil, ErrOrderNotFound
	}
	order, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *DefaultOrderService) UpdateOrderStatus(ctx context.Context, id string, upd models.OrderUpdate, actor Actor) (*models.Order, error) {
	if upd.IsEmpty() {
		return nil, models.NewValidationError("update", "Nothing to update")
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, models.NewValidationError("status", "Unknown order status")
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	switch actor.Role {
	case models.RoleAdmin:
		if upd.Status != nil {
			set["status"] = *upd.Status
		}
		if upd.AssignedDriver != nil {
			set["assignedDriver"] = strings.TrimSpace(*upd.AssignedDriver)
		}
		if upd.AssignedDriverName != nil {
			set["assignedDriverName"] = strings.TrimSpace(*upd.AssignedDriverName)
		}
		if upd.AssignedDriverPhone != nil {
			set["assignedDriverPhone"] = strings.TrimSpace(*upd.AssignedDriverPhone)
		}
	case models.RoleDriver:
		if upd.Status == nil || upd.AssignedDriver != nil || upd.AssignedDriverName != nil || upd.AssignedDriverPhone != nil {
			return nil, ErrTransitionNotAllowed
		}
		if actor.WorkerID == "" || current.AssignedDriver != actor.WorkerID {
			return nil, ErrTransitionNotAllowed
		}
		if !CanDriverTransition(current.Status, *upd.Status) {
			return nil, ErrTransitionNotAllowed
		}
		set["status"] = *upd.Status
	default:
		return nil, ErrTransitionNotAllowed
	}

	updated, err := s.Repo.UpdateFields(ctx, current.ID, set)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	s.logger().Info("Order updated",
		zap.String("orderId", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("by", string(actor.Role)))

	if current.Status != models.OrderCompleted && updated.Status == models.OrderCompleted {
		s.onCompleted(ctx, updated)
	}
	return updated, nil
}

func (s *DefaultOrderService) onCompleted(ctx context.Context, order *models.Order) {
	if s.Commissions == nil || order.AgentID == "" {
		return
	}
	if err := s.Commissions.RecordForOrder(ctx, order); err != nil {
		s.logger().Error("Failed to record agent commission", zap.String("orderId", order.ID), zap.Error(err))
	}
}

// ReleaseOrder hands an assigned order back to the pool. Only the assigned driver may do it.
func (s *DefaultOrderService) ReleaseOrder(ctx context.Context, id, workerID string) (*models.Order, error) {
	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if workerID == "" || current.Status != models.OrderAssigned || current.AssignedDriver != workerID {
		return nil, ErrTransitionNotAllowed
	}

	// The assignment goes first so a started job keeps its order.
	if s.Assignments != nil {
		err := s.Assignments.ReleaseTransport(ctx, current.ID, workerID)
		if errors.Is(err, assignment.ErrNotAllowed) {
			return nil, ErrTransitionNotAllowed
		}
		if err != nil {
			return nil, err
		}
	}

	return s.Repo.UpdateFields(ctx, current.ID, bson.M{
		"status":              models.OrderPending,
		"assignedDriver":      "",
		"assignedDriverName":  "",
		"assignedDriverPhone": "",
	})
}

func (s *DefaultOrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.Repo.List(ctx, filter)
}

func (s *DefaultOrderService) CalculateDistance(ctx context.Context, pickup, delivery string) distance.Estimate {
	return s.Distance.Estimate(ctx, pickup, delivery)
}

func (s *DefaultOrderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	totals, err := s.Repo.StatusTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.OrderStats{ByStatus: make(map[models.OrderStatus]int64, len(models.OrderStatuses))}
	for _, st := range models.OrderStatuses {
		stats.ByStatus[st] = 0
	}
	for _, t := range totals {
		stats.Total += t.Count
		stats.ByStatus[t.Status] += t.Count
		if t.Status == models.OrderCompleted {
			stats.Revenue += t.Amount
		}
	}
	return stats, nil
}
