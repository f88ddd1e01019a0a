// internal/models/rfp.go
package models

import (
	"github.com/google/uuid"
)

// RFP is a buyer-authored request for proposals. BuyerID is fixed at
// creation; Version backs the optimistic concurrency check used by the
// response decision cascade.
type RFP struct {
	BaseModel
	BuyerID     uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	DocumentURL string    `json:"document_url" gorm:"type:text"`
	Status      RFPStatus `json:"status" gorm:"type:varchar(20);default:'Draft';index"`
	Version     int64     `json:"-" gorm:"not null;default:1"`

	// Relationships
	Buyer     User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:RFPID"`
}
