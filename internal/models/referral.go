package models

import "time"

// Referral is one exclusivity grant of a case to a lawyer for a bounded
// window. Rows are append-only: a case accumulates one row per attempted
// lawyer, and at most one of them is PENDING at any instant. No soft delete —
// the history is the durable record for reporting.
type Referral struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CaseID   uint `gorm:"not null;index;uniqueIndex:idx_referrals_case_lawyer" json:"case_id"`
	LawyerID uint `gorm:"not null;index;uniqueIndex:idx_referrals_case_lawyer" json:"lawyer_id"`

	Status          string     `gorm:"size:20;default:'PENDING';index" json:"status"`
	SentAt          time.Time  `json:"sent_at"`
	ExpiresAt       time.Time  `gorm:"index" json:"expires_at"`
	RespondedAt     *time.Time `json:"responded_at"`
	ResponseMessage string     `gorm:"type:text" json:"response_message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Case   Case   `gorm:"foreignKey:CaseID" json:"-"`
	Lawyer Lawyer `gorm:"foreignKey:LawyerID" json:"-"`
}

func (Referral) TableName() string { return "referrals" }
