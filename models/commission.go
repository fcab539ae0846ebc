package models

import (
	"fmt"
	"time"
)

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionRejected CommissionStatus = "rejected"
)

func (s CommissionStatus) IsValid() bool {
	switch s {
	case CommissionPending, CommissionApproved, CommissionRejected:
		return true
	default:
		return false
	}
}

func (s *CommissionStatus) UnmarshalText(b []byte) error {
	v := CommissionStatus(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown commission status %q", string(b))
	}
	*s = v
	return nil
}

// ServiceFeeLine names the flat booking fee line in commission records.
const ServiceFeeLine = "service_fee"

// AgentCommission is the share of one order line owed to the referring agent.
type AgentCommission struct {
	ID          string           `bson:"id" json:"id"`
	AgentID     string           `bson:"agentId" json:"agentId"`
	OrderID     string           `bson:"orderId" json:"orderId"`
	ServiceType string           `bson:"serviceType" json:"serviceType"`
	Amount      int64            `bson:"amount" json:"amount"`
	Status      CommissionStatus `bson:"status" json:"status"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
	ApprovedAt  *time.Time       `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
}

type WithdrawalStatus string

const (
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalPaid       WithdrawalStatus = "paid"
	WithdrawalFailed     WithdrawalStatus = "failed"
)

func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalProcessing, WithdrawalPaid, WithdrawalFailed:
		return true
	default:
		return false
	}
}

func (s *WithdrawalStatus) UnmarshalText(b []byte) error {
	v := WithdrawalStatus(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown withdrawal status %q", string(b))
	}
	*s = v
	return nil
}

// WithdrawalRequest is an agent's payout request to a mobile-money number.
type WithdrawalRequest struct {
	ID          string           `bson:"id" json:"id"`
	AgentID     string           `bson:"agentId" json:"agentId"`
	Amount      int64            `bson:"amount" json:"amount"`
	PhoneNumber string           `bson:"phoneNumber" json:"phoneNumber"`
	Status      WithdrawalStatus `bson:"status" json:"status"`
	Notes       string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time        `bson:"updatedAt" json:"updatedAt"`
}
