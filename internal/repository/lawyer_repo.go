package repository

import (
	"errors"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"
	"advoga/internal/ranker"

	"gorm.io/gorm"
)

type LawyerRepository struct {
	db *gorm.DB
}

func NewLawyerRepository(db *gorm.DB) *LawyerRepository {
	return &LawyerRepository{db: db}
}

func (r *LawyerRepository) Create(l *models.Lawyer) error {
	return r.db.Create(l).Error
}

func (r *LawyerRepository) GetByID(id uint) (*models.Lawyer, error) {
	var l models.Lawyer
	err := r.db.Preload("Subscription").Preload("Subscription.Plan").First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LawyerRepository) GetByEmail(email string) (*models.Lawyer, error) {
	var l models.Lawyer
	err := r.db.Where("email = ?", email).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LawyerRepository) Update(l *models.Lawyer) error {
	return r.db.Save(l).Error
}

func (r *LawyerRepository) SetVerified(id uint, verified bool) error {
	return r.db.Model(&models.Lawyer{}).Where("id = ?", id).Update("verified", verified).Error
}

// EligibleCandidates applies the SQL half of the hard eligibility filter and
// returns lawyer+subscription snapshots with the plan preloaded. Quota
// exhaustion is filtered here too so the candidate set stays small.
func (r *LawyerRepository) EligibleCandidates(area string, now time.Time) ([]ranker.Candidate, error) {
	var lawyers []models.Lawyer
	q := r.db.
		Joins("JOIN subscriptions ON subscriptions.lawyer_id = lawyers.id").
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("lawyers.active = ? AND lawyers.verified = ?", true, true).
		Where("subscriptions.status = ?", domain.SubscriptionActive).
		Where("subscriptions.expires_at > ?", now).
		Where("plans.feature_leads = ? OR plans.feature_priority_leads = ?", true, true).
		Where("plans.leads_per_month = ? OR subscriptions.leads_used < plans.leads_per_month", domain.QuotaUnlimited).
		Preload("Subscription").Preload("Subscription.Plan")
	if area != "" {
		q = q.Where("lawyers.areas @> ?", `["`+area+`"]`)
	}
	if err := q.Find(&lawyers).Error; err != nil {
		return nil, err
	}
	candidates := make([]ranker.Candidate, 0, len(lawyers))
	for i := range lawyers {
		l := lawyers[i]
		if l.Subscription == nil {
			continue
		}
		sub := *l.Subscription
		l.Subscription = nil
		candidates = append(candidates, ranker.Candidate{Lawyer: l, Subscription: sub})
	}
	return candidates, nil
}

// MarkLeadSent bumps the assignment counters for a freshly dispatched lead.
func (r *LawyerRepository) MarkLeadSent(id uint, at time.Time) error {
	return r.db.Model(&models.Lawyer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_leads":  gorm.Expr("total_leads + 1"),
			"last_lead_at": at,
		}).Error
}

// RecordOutcome bumps the accept/reject counter and recomputes the success
// score in one statement, so a crash cannot leave the two out of step.
func (r *LawyerRepository) RecordOutcome(id uint, accepted bool) error {
	column := "rejected_leads"
	if accepted {
		column = "accepted_leads"
	}
	return r.db.Model(&models.Lawyer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			column: gorm.Expr(column + " + 1"),
			"success_score": gorm.Expr(
				"CASE WHEN total_leads > 0 THEN (accepted_leads + ?) * 100.0 / total_leads ELSE success_score END",
				boolToInt(accepted)),
		}).Error
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// StatsForLawyer summarizes a lawyer's lead history for their dashboard.
type LawyerStats struct {
	TotalLeads    int     `json:"total_leads"`
	AcceptedLeads int     `json:"accepted_leads"`
	RejectedLeads int     `json:"rejected_leads"`
	SuccessScore  float64 `json:"success_score"`
	LeadsUsed     int     `json:"leads_used"`
	LeadsPerMonth int     `json:"leads_per_month"`
}

func (r *LawyerRepository) Stats(id uint) (*LawyerStats, error) {
	l, err := r.GetByID(id)
	if err != nil || l == nil {
		return nil, err
	}
	stats := &LawyerStats{
		TotalLeads:    l.TotalLeads,
		AcceptedLeads: l.AcceptedLeads,
		RejectedLeads: l.RejectedLeads,
		SuccessScore:  l.SuccessScore,
	}
	if l.Subscription != nil {
		stats.LeadsUsed = l.Subscription.LeadsUsed
		stats.LeadsPerMonth = l.Subscription.Plan.LeadsPerMonth
	}
	return stats, nil
}
