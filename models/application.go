package models

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	default:
		return false
	}
}

func (s *ApplicationStatus) UnmarshalText(b []byte) error {
	v := ApplicationStatus(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown application status %q", string(b))
	}
	*s = v
	return nil
}

// JobApplication is a request to join the workforce as a driver, helper or cleaner.
type JobApplication struct {
	ID          string            `bson:"id" json:"id"`
	Name        string            `bson:"name" json:"name"`
	Phone       string            `bson:"phone" json:"phone"`
	Role        Role              `bson:"role" json:"role"`
	Message     string            `bson:"message,omitempty" json:"message,omitempty"`
	Document    *DocumentRef      `bson:"document,omitempty" json:"document,omitempty"`
	Status      ApplicationStatus `bson:"status" json:"status"`
	SubmittedAt time.Time         `bson:"submittedAt" json:"submittedAt"`
	ReviewedAt  *time.Time        `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

// DocumentRef locates an uploaded file in the document store.
type DocumentRef struct {
	PublicID     string `bson:"publicId" json:"publicId"`
	ResourceType string `bson:"resourceType" json:"resourceType"`
	Format       string `bson:"format,omitempty" json:"format,omitempty"`
}

// ApplicationForm is the public application form.
type ApplicationForm struct {
	Name    string `json:"name" form:"name"`
	Phone   string `json:"phone" form:"phone"`
	Role    string `json:"role" form:"role"`
	Message string `json:"message" form:"message"`
}

// ApprovalResult is returned once when an application is approved.
type ApprovalResult struct {
	Application     *JobApplication `json:"application"`
	Worker          *Worker         `json:"worker"`
	UserID          string          `json:"userId"`
	InitialPassword string          `json:"initialPassword"`
}
