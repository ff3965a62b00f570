package repository

import (
	"time"

	"advoga/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByLawyer(lawyerID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("lawyer_id = ?", lawyerID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkRead(lawyerID, id uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND lawyer_id = ?", id, lawyerID).
		Update("read_at", time.Now()).Error
}
