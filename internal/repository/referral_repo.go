package repository

import (
	"errors"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create inserts a referral attempt. The unique (case_id, lawyer_id) index
// turns a racing duplicate offer into domain.ErrConflict for the caller to
// retry.
func (r *ReferralRepository) Create(ref *models.Referral) error {
	err := r.db.Create(ref).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *ReferralRepository) GetByID(id uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.First(&ref, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferralRepository) PendingByCase(caseID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("case_id = ? AND status = ?", caseID, domain.ReferralStatusPending).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferralRepository) PendingByCaseAndLawyer(caseID, lawyerID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("case_id = ? AND lawyer_id = ? AND status = ?",
		caseID, lawyerID, domain.ReferralStatusPending).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferralRepository) AttemptedLawyerIDs(caseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Referral{}).Where("case_id = ?", caseID).Pluck("lawyer_id", &ids).Error
	return ids, err
}

// CompareAndSwapStatus applies the transition only if the row still holds the
// expected status. RowsAffected tells racing callers apart: exactly one of
// two concurrent accepts sees true.
func (r *ReferralRepository) CompareAndSwapStatus(id uint, from, to string, respondedAt *time.Time, message string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if respondedAt != nil {
		updates["responded_at"] = *respondedAt
	}
	if message != "" {
		updates["response_message"] = message
	}
	res := r.db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListExpiredPending picks up pending referrals whose window lapsed, oldest
// deadline first.
func (r *ReferralRepository) ListExpiredPending(now time.Time, limit int) ([]models.Referral, error) {
	var refs []models.Referral
	err := r.db.Where("status = ? AND expires_at <= ?", domain.ReferralStatusPending, now).
		Order("expires_at ASC").Limit(limit).Find(&refs).Error
	return refs, err
}

// ListPendingByLawyer feeds the lawyer's lead inbox; cases come preloaded.
func (r *ReferralRepository) ListPendingByLawyer(lawyerID uint, now time.Time) ([]models.Referral, error) {
	var refs []models.Referral
	err := r.db.Where("lawyer_id = ? AND status = ? AND expires_at > ?",
		lawyerID, domain.ReferralStatusPending, now).
		Preload("Case").Order("expires_at ASC").Find(&refs).Error
	return refs, err
}

func (r *ReferralRepository) ListByCase(caseID uint) ([]models.Referral, error) {
	var refs []models.Referral
	err := r.db.Where("case_id = ?", caseID).Order("sent_at ASC").Find(&refs).Error
	return refs, err
}

func (r *ReferralRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Referral{}).Select("status, count(*) as n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// CountExpiringWithin counts pending referrals whose window ends inside the
// next d. Powers the "expiring soon" operational widget.
func (r *ReferralRepository) CountExpiringWithin(now time.Time, d time.Duration) (int64, error) {
	var n int64
	err := r.db.Model(&models.Referral{}).
		Where("status = ? AND expires_at > ? AND expires_at <= ?",
			domain.ReferralStatusPending, now, now.Add(d)).
		Count(&n).Error
	return n, err
}
