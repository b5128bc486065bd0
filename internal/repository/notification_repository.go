package repository

import (
	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Enqueue(n *model.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) FetchBatch(limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Order("created_at ASC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Notification{}, "id = ?", id).Error
}
