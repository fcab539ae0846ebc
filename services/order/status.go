package order

import "kigalimove/models"

// driverTransitions lists the only moves a driver may make on an order.
var driverTransitions = map[models.OrderStatus]models.OrderStatus{
	models.OrderAssigned:   models.OrderInProgress,
	models.OrderInProgress: models.OrderCompleted,
}

// CanDriverTransition reports whether a driver may move an order from one status to another.
func CanDriverTransition(from, to models.OrderStatus) bool {
	next, ok := driverTransitions[from]
	return ok && next == to
}

// NextDriverStatus returns the status a driver advances to from the given one.
func NextDriverStatus(from models.OrderStatus) (models.OrderStatus, bool) {
	next, ok := driverTransitions[from]
	return next, ok
}
