package models

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAssigned   OrderStatus = "assigned"
	OrderInProgress OrderStatus = "in-progress"
	OrderCompleted  OrderStatus = "completed"
)

// OrderStatuses lists every order state in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderAssigned, OrderInProgress, OrderCompleted}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderAssigned, OrderInProgress, OrderCompleted:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown order status %q", v)
	}
	return s, nil
}

func (s *OrderStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseOrderStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DistanceSource tells whether a distance was measured or substituted.
type DistanceSource string

const (
	DistanceEstimated DistanceSource = "estimated"
	DistanceDefault   DistanceSource = "default"
)

// Order is a customer request for one or more moving services between two addresses.
type Order struct {
	ID               string         `bson:"id" json:"id"`
	CustomerName     string         `bson:"customerName" json:"customerName"`
	PhoneNumber      string         `bson:"phoneNumber" json:"phoneNumber"`
	PickupAddress    string         `bson:"pickupAddress" json:"pickupAddress"`
	DeliveryAddress  string         `bson:"deliveryAddress" json:"deliveryAddress"`
	PickupLocation   *Location      `bson:"pickupLocation,omitempty" json:"pickupLocation,omitempty"`
	DeliveryLocation *Location      `bson:"deliveryLocation,omitempty" json:"deliveryLocation,omitempty"`
	Services         Services       `bson:"services" json:"services"`
	Distance         *float64       `bson:"distance" json:"distance"`
	DistanceSource   DistanceSource `bson:"distanceSource,omitempty" json:"distanceSource,omitempty"`
	TotalCost        int64          `bson:"totalCost" json:"totalCost"`
	Status           OrderStatus    `bson:"status" json:"status"`
	VIP              bool           `bson:"vip" json:"vip"`
	SpecialItems     string         `bson:"specialItems,omitempty" json:"specialItems,omitempty"`
	AgentID          string         `bson:"agentId,omitempty" json:"agentId,omitempty"`

	AssignedDriver      string `bson:"assignedDriver,omitempty" json:"assignedDriver,omitempty"`
	AssignedDriverName  string `bson:"assignedDriverName,omitempty" json:"assignedDriverName,omitempty"`
	AssignedDriverPhone string `bson:"assignedDriverPhone,omitempty" json:"assignedDriverPhone,omitempty"`

	SMSStatus string `bson:"smsStatus,omitempty" json:"smsStatus,omitempty"`
	SMSError  string `bson:"smsError,omitempty" json:"smsError,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OrderForm is the customer-submitted booking form.
type OrderForm struct {
	CustomerName     string    `json:"customerName"`
	PhoneNumber      string    `json:"phoneNumber"`
	PickupAddress    string    `json:"pickupAddress"`
	DeliveryAddress  string    `json:"deliveryAddress"`
	PickupLocation   *Location `json:"pickupLocation,omitempty"`
	DeliveryLocation *Location `json:"deliveryLocation,omitempty"`
	Services         Services  `json:"services"`
	VIP              bool      `json:"vip"`
	SpecialItems     string    `json:"specialItems,omitempty"`
	AgentID          string    `json:"agentId,omitempty"`
}

// OrderUpdate is a partial order edit. Nil fields are left untouched.
type OrderUpdate struct {
	Status              *OrderStatus `json:"status,omitempty"`
	AssignedDriver      *string      `json:"assignedDriver,omitempty"`
	AssignedDriverName  *string      `json:"assignedDriverName,omitempty"`
	AssignedDriverPhone *string      `json:"assignedDriverPhone,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.AssignedDriver == nil && u.AssignedDriverName == nil && u.AssignedDriverPhone == nil
}

// OrderFilter narrows order listings for the dashboards.
type OrderFilter struct {
	Status   OrderStatus
	AgentID  string
	DriverID string
	Search   string
	Limit    int64
}

// OrderStats is the admin dashboard summary.
type OrderStats struct {
	Total    int64                 `json:"total"`
	ByStatus map[OrderStatus]int64 `json:"byStatus"`
	Revenue  int64                 `json:"revenue"`
}

// Quote is a priced but unsaved order.
type Quote struct {
	Distance       float64        `json:"distance"`
	DistanceSource DistanceSource `json:"distanceSource"`
	TotalCost      int64          `json:"totalCost"`
}
