package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db}
}

// Create stores the message and, when notify is set, enqueues a
// new-message notification for the counterparty in the same
// transaction.
func (r *MessageRepository) Create(m *model.Message, notify *model.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if notify == nil {
			return nil
		}
		return tx.Create(notify).Error
	})
}

func (r *MessageRepository) FindByID(id uuid.UUID) (*model.Message, error) {
	var m model.Message
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("message not found")
	}
	return &m, err
}

func (r *MessageRepository) ListByCandidature(candidatureID uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("candidature_id = ?", candidatureID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) MarkSeen(id uuid.UUID, at time.Time) error {
	res := r.db.Model(&model.Message{}).
		Where("id = ? AND seen_at IS NULL", id).
		Update("seen_at", at)
	return res.Error
}

func (r *MessageRepository) CountUnseen(candidatureID uuid.UUID, direction model.MessageDirection) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("candidature_id = ? AND direction = ? AND seen_at IS NULL", candidatureID, direction).
		Count(&count).Error
	return count, err
}
