package repository

import (
	"errors"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(c *models.Case) error {
	return r.db.Create(c).Error
}

func (r *CaseRepository) GetByID(id uint) (*models.Case, error) {
	var c models.Case
	err := r.db.Preload("User").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDForUpdate takes a row lock on the case inside the enclosing
// transaction. Dispatch serializes per case on this lock.
func (r *CaseRepository) GetByIDForUpdate(id uint) (*models.Case, error) {
	var c models.Case
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) GetByPublicID(publicID string) (*models.Case, error) {
	var c models.Case
	err := r.db.Where("public_id = ?", publicID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) Update(c *models.Case) error {
	return r.db.Save(c).Error
}

func (r *CaseRepository) SetStatus(id uint, status string) error {
	return r.db.Model(&models.Case{}).Where("id = ?", id).Update("status", status).Error
}

// MarkPaid flips report_paid exactly once; the second webhook delivery is a
// no-op and reports false.
func (r *CaseRepository) MarkPaid(id uint, at time.Time) (bool, error) {
	res := r.db.Model(&models.Case{}).
		Where("id = ? AND report_paid = ?", id, false).
		Updates(map[string]interface{}{
			"report_paid": true,
			"paid_at":     at,
			"status":      domain.CaseStatusPaid,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *CaseRepository) ListByUser(userID uint, limit, offset int) ([]models.Case, error) {
	var cases []models.Case
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&cases).Error
	return cases, err
}

// ListUnassignable returns paid cases stuck without a live or accepted
// referral — every candidate was tried or none existed. Surfaced to
// operations, not treated as an error.
func (r *CaseRepository) ListUnassignable(limit int) ([]models.Case, error) {
	var cases []models.Case
	err := r.db.
		Where("report_paid = ?", true).
		Where("NOT EXISTS (SELECT 1 FROM referrals WHERE referrals.case_id = cases.id AND referrals.status IN ?)",
			[]string{domain.ReferralStatusPending, domain.ReferralStatusAccepted}).
		Order("paid_at ASC").Limit(limit).Find(&cases).Error
	return cases, err
}
