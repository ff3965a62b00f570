package repository

import (
	"errors"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByLawyerID(lawyerID uint) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.Preload("Plan").Where("lawyer_id = ?", lawyerID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Subscribe creates or replaces the lawyer's subscription with a fresh
// monthly period on the given plan.
func (r *SubscriptionRepository) Subscribe(lawyerID, planID uint, now time.Time) (*models.Subscription, error) {
	expires := now.AddDate(0, 1, 0)
	sub := &models.Subscription{
		LawyerID:  lawyerID,
		PlanID:    planID,
		Status:    domain.SubscriptionActive,
		StartedAt: now,
		ExpiresAt: &expires,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Subscription
		err := tx.Where("lawyer_id = ?", lawyerID).First(&existing).Error
		if err == nil {
			sub.ID = existing.ID
			sub.LeadsUsed = 0
			return tx.Save(sub).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *SubscriptionRepository) Cancel(lawyerID uint, now time.Time) error {
	return r.db.Model(&models.Subscription{}).
		Where("lawyer_id = ? AND status = ?", lawyerID, domain.SubscriptionActive).
		Updates(map[string]interface{}{
			"status":       domain.SubscriptionCancelled,
			"cancelled_at": now,
		}).Error
}

func (r *SubscriptionRepository) IncrementLeadsUsed(lawyerID uint) error {
	return r.db.Model(&models.Subscription{}).
		Where("lawyer_id = ?", lawyerID).
		Update("leads_used", gorm.Expr("leads_used + 1")).Error
}

func (r *SubscriptionRepository) ListPlans() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("active = ?", true).Order("price_cents ASC").Find(&plans).Error
	return plans, err
}
