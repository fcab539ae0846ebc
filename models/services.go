package models

import "fmt"

// MaxHelpers is the largest number of moving helpers a single order may request.
const MaxHelpers = 4

// ServiceKind is one independently priced service.
type ServiceKind string

const (
	ServiceTransport   ServiceKind = "transport"
	ServiceHelpers     ServiceKind = "helpers"
	ServiceCleaning    ServiceKind = "cleaning"
	ServiceKeyDelivery ServiceKind = "keyDelivery"
)

func (k ServiceKind) IsValid() bool {
	switch k {
	case ServiceTransport, ServiceHelpers, ServiceCleaning, ServiceKeyDelivery:
		return true
	default:
		return false
	}
}

func (k *ServiceKind) UnmarshalText(b []byte) error {
	v := ServiceKind(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown service type %q", string(b))
	}
	*k = v
	return nil
}

// WorkerType returns the kind of worker that performs this service.
func (k ServiceKind) WorkerType() WorkerType {
	switch k {
	case ServiceTransport:
		return WorkerDriver
	case ServiceHelpers:
		return WorkerHelper
	case ServiceCleaning:
		return WorkerCleaner
	default:
		return WorkerDelivery
	}
}

// Services is the service selection of an order.
type Services struct {
	Transport   bool `bson:"transport" json:"transport"`
	Helpers     int  `bson:"helpers" json:"helpers"`
	Cleaning    bool `bson:"cleaning" json:"cleaning"`
	KeyDelivery bool `bson:"keyDelivery" json:"keyDelivery"`
}

// IncrementHelpers adds one helper unless the maximum is reached.
func (s *Services) IncrementHelpers() {
	if s.Helpers < MaxHelpers {
		s.Helpers++
	}
}

// DecrementHelpers removes one helper unless there are none.
func (s *Services) DecrementHelpers() {
	if s.Helpers > 0 {
		s.Helpers--
	}
}

// Requested lists the selected services in menu order.
func (s Services) Requested() []ServiceKind {
	var kinds []ServiceKind
	if s.Transport {
		kinds = append(kinds, ServiceTransport)
	}
	if s.Helpers > 0 {
		kinds = append(kinds, ServiceHelpers)
	}
	if s.Cleaning {
		kinds = append(kinds, ServiceCleaning)
	}
	if s.KeyDelivery {
		kinds = append(kinds, ServiceKeyDelivery)
	}
	return kinds
}

func (s Services) Validate() error {
	if s.Helpers < 0 || s.Helpers > MaxHelpers {
		return NewValidationError("services.helpers", fmt.Sprintf("must be between 0 and %d", MaxHelpers))
	}
	return nil
}
