package models

import (
	"time"

	"gorm.io/gorm"
)

// Lawyer holds eligibility attributes and rolling performance counters.
// Counters are mutated only by referral transitions and dispatch, never by
// the ranker, and always inside the same transaction as the transition.
type Lawyer struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string `gorm:"size:255;not null" json:"name"`
	OAB          string `gorm:"uniqueIndex;size:50;not null" json:"oab"`
	Phone        string `gorm:"size:50" json:"phone"`
	PasswordHash string `gorm:"size:255" json:"-"`

	Areas  StringList `gorm:"type:jsonb" json:"areas"`
	Cities StringList `gorm:"type:jsonb" json:"cities"`
	States StringList `gorm:"type:jsonb" json:"states"`
	Bio    string     `gorm:"type:text" json:"bio"`

	// SuccessScore is always accepted/total*100 while total > 0.
	SuccessScore  float64    `gorm:"type:decimal(5,2);default:0" json:"success_score"`
	TotalLeads    int        `gorm:"default:0" json:"total_leads"`
	AcceptedLeads int        `gorm:"default:0" json:"accepted_leads"`
	RejectedLeads int        `gorm:"default:0" json:"rejected_leads"`
	LastLeadAt    *time.Time `json:"last_lead_at"`

	Active   bool `gorm:"default:true;index" json:"active"`
	Verified bool `gorm:"default:false;index" json:"verified"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Subscription *Subscription `gorm:"foreignKey:LawyerID" json:"subscription,omitempty"`
}

func (Lawyer) TableName() string { return "lawyers" }
