// internal/models/response.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Response is a supplier's submission against an RFP. RFPID and SupplierID
// are immutable after creation; only the owning buyer changes Status.
type Response struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RFPID        uuid.UUID      `json:"rfp_id" gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID      `json:"supplier_id" gorm:"type:uuid;not null;index"`
	ResponseText string         `json:"response_text" gorm:"type:text;not null"`
	DocumentURL  string         `json:"document_url" gorm:"type:text"`
	Status       ResponseStatus `json:"status" gorm:"type:varchar(20);default:'Submitted';index"`
	SubmittedAt  time.Time      `json:"submitted_at" gorm:"autoCreateTime"`

	// Relationships
	RFP      RFP  `json:"rfp,omitempty" gorm:"foreignKey:RFPID"`
	Supplier User `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// ResponseView decorates a response with its parent RFP title for listings.
type ResponseView struct {
	Response
	RFPTitle string `json:"rfp_title"`
}
