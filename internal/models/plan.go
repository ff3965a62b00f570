package models

import (
	"time"

	"advoga/internal/domain"
)

// Plan is a per-period feature/quota bundle. Quotas use
// domain.QuotaUnlimited (-1) for "no cap"; zero means no access.
type Plan struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	PriceCents int64  `gorm:"not null" json:"price_cents"`

	FeatureSearch             bool `gorm:"default:false" json:"feature_search"`
	FeatureAdvancedSearch     bool `gorm:"default:false" json:"feature_advanced_search"`
	FeatureJurimetrics        bool `gorm:"default:false" json:"feature_jurimetrics"`
	FeatureLeads              bool `gorm:"default:false" json:"feature_leads"`
	FeaturePriorityLeads      bool `gorm:"default:false" json:"feature_priority_leads"`
	FeatureDocumentGeneration bool `gorm:"default:false" json:"feature_document_generation"`
	FeaturePremiumTemplates   bool `gorm:"default:false" json:"feature_premium_templates"`

	LeadsPerMonth  int `gorm:"default:0" json:"leads_per_month"`
	DocsPerMonth   int `gorm:"default:0" json:"docs_per_month"`
	SearchesPerDay int `gorm:"default:0" json:"searches_per_day"`

	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Plan) TableName() string { return "plans" }

// AllowsLeads reports whether the plan grants access to the lead feed at all.
func (p *Plan) AllowsLeads() bool {
	return p.FeatureLeads || p.FeaturePriorityLeads
}

// LeadQuotaAvailable reports whether usage is still under the monthly cap.
func (p *Plan) LeadQuotaAvailable(leadsUsed int) bool {
	if p.LeadsPerMonth == domain.QuotaUnlimited {
		return true
	}
	return leadsUsed < p.LeadsPerMonth
}
