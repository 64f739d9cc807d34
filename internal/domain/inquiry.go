package domain

import "time"

// InquiryType classifies what a contact-form submission is about.
type InquiryType string

const (
	InquiryGeneral       InquiryType = "general"
	InquiryBooking       InquiryType = "booking"
	InquiryPricing       InquiryType = "pricing"
	InquiryCollaboration InquiryType = "collaboration"
	InquiryOther         InquiryType = "other"
)

// InquiryTypes lists every accepted inquiry type.
var InquiryTypes = []InquiryType{InquiryGeneral, InquiryBooking, InquiryPricing, InquiryCollaboration, InquiryOther}

// Valid reports whether t is one of InquiryTypes.
func (t InquiryType) Valid() bool {
	for _, known := range InquiryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InquiryStatus tracks admin triage of an inquiry.
type InquiryStatus string

const (
	InquiryStatusNew      InquiryStatus = "new"
	InquiryStatusRead     InquiryStatus = "read"
	InquiryStatusReplied  InquiryStatus = "replied"
	InquiryStatusResolved InquiryStatus = "resolved"
	InquiryStatusSpam     InquiryStatus = "spam"
	InquiryStatusArchived InquiryStatus = "archived"
)

// InquiryStatuses lists every accepted status.
var InquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusRead,
	InquiryStatusReplied,
	InquiryStatusResolved,
	InquiryStatusSpam,
	InquiryStatusArchived,
}

// Valid reports whether s is one of InquiryStatuses.
func (s InquiryStatus) Valid() bool {
	for _, known := range InquiryStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Inquiry is an inbound contact-form submission.
type Inquiry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       *string        `json:"phone"`
	Subject     string         `json:"subject"`
	Message     string         `json:"message"`
	InquiryType InquiryType    `json:"inquiryType"`
	Status      InquiryStatus  `json:"status"`
	Source      string         `json:"source"`
	Metadata    map[string]any `json:"metadata"`
	SubmittedAt time.Time      `json:"submittedAt"`
	RespondedAt *time.Time     `json:"respondedAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt"`
}

// CreateInquiryInput holds a contact-form submission. InquiryType defaults
// to general and Source to "website".
type CreateInquiryInput struct {
	Name        string         `json:"name" validate:"required,max=120"`
	Email       string         `json:"email" validate:"required,email,max=254"`
	Phone       *string        `json:"phone" validate:"omitempty,max=40"`
	Subject     string         `json:"subject" validate:"required,max=200"`
	Message     string         `json:"message" validate:"required,min=10,max=5000"`
	InquiryType InquiryType    `json:"inquiryType" validate:"required,inquiry_type"`
	Source      string         `json:"source" validate:"max=100"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateInquiryInput is a partial update used by admin triage. Moving to
// replied or resolved stamps the matching timestamp when it is unset.
type UpdateInquiryInput struct {
	Status      *InquiryStatus `json:"status" validate:"omitempty,inquiry_status"`
	RespondedAt *time.Time     `json:"respondedAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt"`
	Metadata    map[string]any `json:"metadata"`
}

// InquiryFilter narrows FindAll. Default order is submitted_at descending.
type InquiryFilter struct {
	Status      *InquiryStatus `json:"status,omitempty"`
	InquiryType *InquiryType   `json:"inquiryType,omitempty"`
	ListOptions
}

// InquiryStats summarises inquiry volume.
type InquiryStats struct {
	Total     int64                   `json:"total"`
	Today     int64                   `json:"today"`
	ThisWeek  int64                   `json:"thisWeek"`
	ThisMonth int64                   `json:"thisMonth"`
	ByStatus  map[InquiryStatus]int64 `json:"byStatus"`
}
