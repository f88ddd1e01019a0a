// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type UserRole string

const (
	RoleBuyer    UserRole = "Buyer"
	RoleSupplier UserRole = "Supplier"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleBuyer, RoleSupplier:
		return true
	}
	return false
}

type RFPStatus string

const (
	RFPStatusDraft             RFPStatus = "Draft"
	RFPStatusPublished         RFPStatus = "Published"
	RFPStatusResponseSubmitted RFPStatus = "Response Submitted"
	RFPStatusUnderReview       RFPStatus = "Under Review"
	RFPStatusApproved          RFPStatus = "Approved"
	RFPStatusRejected          RFPStatus = "Rejected"
)

func (s RFPStatus) Valid() bool {
	switch s {
	case RFPStatusDraft, RFPStatusPublished, RFPStatusResponseSubmitted,
		RFPStatusUnderReview, RFPStatusApproved, RFPStatusRejected:
		return true
	}
	return false
}

// SupplierVisibleStatuses is the default allow-list of RFP statuses a
// supplier may see without having submitted a response. RFPs that already
// received responses stay listed so other suppliers can still compete.
func SupplierVisibleStatuses() []RFPStatus {
	return []RFPStatus{RFPStatusPublished, RFPStatusResponseSubmitted}
}

// SubmittableStatuses is the set of RFP statuses that accept new responses.
func SubmittableStatuses() []RFPStatus {
	return []RFPStatus{RFPStatusPublished, RFPStatusResponseSubmitted}
}

type ResponseStatus string

const (
	ResponseStatusSubmitted ResponseStatus = "Submitted"
	ResponseStatusApproved  ResponseStatus = "Approved"
	ResponseStatusRejected  ResponseStatus = "Rejected"
)

func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponseStatusSubmitted, ResponseStatusApproved, ResponseStatusRejected:
		return true
	}
	return false
}

// Decidable reports whether a buyer may set this status on a response.
// Submitted is the initial state only, never a decision target.
func (s ResponseStatus) Decidable() bool {
	return s == ResponseStatusApproved || s == ResponseStatusRejected
}
