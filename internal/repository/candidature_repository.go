package repository

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type CandidatureRepository struct {
	db *gorm.DB
}

func NewCandidatureRepository(db *gorm.DB) *CandidatureRepository {
	return &CandidatureRepository{db}
}

func (r *CandidatureRepository) Create(c *model.Candidature) error {
	err := r.db.Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("a candidature for this assignment already exists")
	}
	return err
}

func (r *CandidatureRepository) Save(c *model.Candidature) error {
	return r.db.Save(c).Error
}

func (r *CandidatureRepository) FindByID(id uuid.UUID) (*model.Candidature, error) {
	var c model.Candidature
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("candidature not found")
	}
	return &c, err
}

func (r *CandidatureRepository) FindByUserAndAssignment(userID, assignmentID uuid.UUID) (*model.Candidature, error) {
	var c model.Candidature
	err := r.db.First(&c, "user_id = ? AND concept_assignment_id = ?", userID, assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("candidature not found")
	}
	return &c, err
}

func (r *CandidatureRepository) ListByAssignment(assignmentID uuid.UUID, states ...model.CandidatureState) ([]model.Candidature, error) {
	var candidatures []model.Candidature
	q := r.db.Where("concept_assignment_id = ?", assignmentID).Order("created_at ASC")
	if len(states) > 0 {
		q = q.Where("state IN ?", states)
	}
	err := q.Find(&candidatures).Error
	return candidatures, err
}

func (r *CandidatureRepository) ListByUser(userID uuid.UUID) ([]model.Candidature, error) {
	var candidatures []model.Candidature
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&candidatures).Error
	return candidatures, err
}

func (r *CandidatureRepository) Submit(id uuid.UUID) error {
	return r.transition(id, model.CandidatureDraft, model.CandidatureSubmitted,
		"candidature can only be submitted from draft")
}

func (r *CandidatureRepository) Revoke(id uuid.UUID) error {
	return r.transition(id, model.CandidatureSubmitted, model.CandidatureDraft,
		"candidature can only be revoked while submitted")
}

func (r *CandidatureRepository) transition(id uuid.UUID, from, to model.CandidatureState, msg string) error {
	res := r.db.Model(&model.Candidature{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.WrongState("%s", msg)
	}
	return nil
}

// Reject flips a single submitted candidature to REJECTED and enqueues
// the reject notification in the same transaction.
func (r *CandidatureRepository) Reject(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var c model.Candidature
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("candidature not found")
			}
			return err
		}
		res := tx.Model(&model.Candidature{}).
			Where("id = ? AND state = ?", id, model.CandidatureSubmitted).
			Update("state", model.CandidatureRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.WrongState("candidature is not submitted")
		}
		data, _ := json.Marshal(map[string]string{
			"candidature_id":        c.ID.String(),
			"concept_assignment_id": c.ConceptAssignmentID.String(),
		})
		return tx.Create(&model.Notification{
			UserID: c.UserID,
			Type:   model.NotificationCandidatureRejected,
			Data:   data,
		}).Error
	})
}

// Grant accepts one candidature, rejects every other submitted one on
// the assignment, and finishes the assignment. All three effects land
// in one transaction or none do. One grant notification plus one
// reject notification per newly rejected candidature are enqueued
// inside the same transaction.
func (r *CandidatureRepository) Grant(id, assignmentID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var granted model.Candidature
		if err := tx.First(&granted, "id = ? AND concept_assignment_id = ?", id, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("candidature not found")
			}
			return err
		}

		res := tx.Model(&model.Candidature{}).
			Where("id = ? AND state = ?", id, model.CandidatureSubmitted).
			Update("state", model.CandidatureAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.WrongState("candidature is not submitted")
		}

		if err := rejectSubmitted(tx, assignmentID); err != nil {
			return err
		}

		res = tx.Model(&model.ConceptAssignment{}).
			Where("id = ? AND state = ?", assignmentID, model.AssignmentReview).
			Update("state", model.AssignmentFinished)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.WrongState("assignment is not in review")
		}

		data, _ := json.Marshal(map[string]string{
			"candidature_id":        granted.ID.String(),
			"concept_assignment_id": assignmentID.String(),
		})
		return tx.Create(&model.Notification{
			UserID: granted.UserID,
			Type:   model.NotificationCandidatureGranted,
			Data:   data,
		}).Error
	})
}

func (r *CandidatureRepository) Rate(id uuid.UUID, rating int, comment string) error {
	res := r.db.Model(&model.Candidature{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "comment": comment})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("candidature not found")
	}
	return nil
}

// DeleteWithAttachments removes the attachment metadata and the
// candidature row together. Blob deletion happens before this call.
func (r *CandidatureRepository) DeleteWithAttachments(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidature_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("candidature_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Candidature{}, "id = ?", id).Error
	})
}
