package models

import "time"

const (
	SMSSent   = "sent"
	SMSFailed = "failed"
)

// SMSLog records one attempted order SMS.
type SMSLog struct {
	ID          string    `bson:"id" json:"id"`
	OrderID     string    `bson:"orderId" json:"orderId"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"`
	Message     string    `bson:"message" json:"message"`
	Status      string    `bson:"status" json:"status"`
	Error       string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// OrderSMSPayload is the queued SMS task body.
type OrderSMSPayload struct {
	OrderID     string `json:"orderId"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}
