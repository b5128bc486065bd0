package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db}
}

func (r *AttachmentRepository) Create(a *model.Attachment) error {
	return r.db.Create(a).Error
}

func (r *AttachmentRepository) CreateMany(attachments []model.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.Create(&attachments).Error
}

func (r *AttachmentRepository) FindByID(id uuid.UUID) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("attachment not found")
	}
	return &a, err
}

func (r *AttachmentRepository) ListByCandidature(candidatureID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.Where("candidature_id = ?", candidatureID).Order("created_at ASC").Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) ListByAssignment(assignmentID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.Where("concept_assignment_id = ?", assignmentID).Order("created_at ASC").Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Attachment{}, "id = ?", id).Error
}
