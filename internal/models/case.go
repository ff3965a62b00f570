package models

import (
	"time"

	"advoga/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case is the lead payload. Analysis fields are written by the external
// case-analysis pipeline; the case becomes lead-eligible the instant
// ReportPaid flips to true.
type Case struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"public_id"`
	UserID   uint      `gorm:"index" json:"user_id"`

	Description string `gorm:"type:text;not null" json:"description"`
	Area        string `gorm:"size:100;index" json:"area"`
	SubArea     string `gorm:"size:255" json:"sub_area"`
	City        string `gorm:"size:100" json:"city"`
	State       string `gorm:"size:2" json:"state"`

	// Analysis results (external pipeline).
	Typification     string  `gorm:"type:text" json:"typification"`
	Strategies       string  `gorm:"type:text" json:"strategies"`
	Risks            string  `gorm:"type:text" json:"risks"`
	Probability      string  `gorm:"size:20" json:"probability"` // low | medium | high
	CostEstimate     string  `gorm:"type:text" json:"cost_estimate"`
	TimelineEstimate string  `gorm:"type:text" json:"timeline_estimate"`
	ScoreProb        float64 `gorm:"type:decimal(5,2)" json:"score_prob"`

	Status     string     `gorm:"size:20;default:'PENDING';index" json:"status"`
	ReportPaid bool       `gorm:"default:false;index" json:"report_paid"`
	ReportPath string     `gorm:"size:500" json:"-"`
	AnalyzedAt *time.Time `json:"analyzed_at"`
	PaidAt     *time.Time `json:"paid_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Case) TableName() string { return "cases" }

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.PublicID == uuid.Nil {
		c.PublicID = uuid.New()
	}
	return nil
}

// QualityScore grades how attractive the lead looks to a lawyer: base 50,
// bumps for analysis probability and payload richness, capped at 100.
func (c *Case) QualityScore() int {
	score := 50
	switch c.Probability {
	case domain.ProbabilityHigh:
		score += 30
	case domain.ProbabilityMedium:
		score += 20
	default:
		score += 10
	}
	if len(c.Description) > 500 {
		score += 10
	}
	if c.SubArea != "" {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
