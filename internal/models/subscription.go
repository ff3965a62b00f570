package models

import (
	"time"

	"advoga/internal/domain"
)

// Subscription is the single active plan record for a lawyer.
type Subscription struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	LawyerID uint `gorm:"uniqueIndex;not null" json:"lawyer_id"`
	PlanID   uint `gorm:"not null" json:"plan_id"`

	Status      string     `gorm:"size:50;default:'active';index" json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	LeadsUsed      int        `gorm:"default:0" json:"leads_used"`
	DocsUsed       int        `gorm:"default:0" json:"docs_used"`
	SearchesToday  int        `gorm:"default:0" json:"searches_today"`
	LastSearchDate *time.Time `json:"last_search_date"`

	// ExternalRef is the payment-provider subscription id.
	ExternalRef string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Plan Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string { return "subscriptions" }

// LeadEligible applies the subscription half of the hard eligibility filter:
// active, unexpired, plan grants leads, monthly quota not exhausted.
func (s *Subscription) LeadEligible(now time.Time) bool {
	if s.Status != domain.SubscriptionActive {
		return false
	}
	if s.ExpiresAt == nil || !s.ExpiresAt.After(now) {
		return false
	}
	if !s.Plan.AllowsLeads() {
		return false
	}
	return s.Plan.LeadQuotaAvailable(s.LeadsUsed)
}
