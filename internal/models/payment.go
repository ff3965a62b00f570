package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment records the report purchase for a case. Only the approved/not
// distinction matters to the lead flow; provider integration lives outside.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CaseID      uint           `gorm:"uniqueIndex;not null" json:"case_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Currency    string         `gorm:"size:3;default:'BRL'" json:"currency"`
	Provider    string         `gorm:"size:50;not null" json:"provider"`
	ProviderRef string         `gorm:"size:255;uniqueIndex" json:"provider_ref"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, APPROVED, REJECTED, CANCELLED
	ApprovedAt  *time.Time     `json:"approved_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Case Case `gorm:"foreignKey:CaseID" json:"-"`
}

func (Payment) TableName() string { return "payments" }
