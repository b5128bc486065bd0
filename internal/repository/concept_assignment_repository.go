package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db}
}

func (r *AssignmentRepository) Create(a *model.ConceptAssignment) error {
	return r.db.Create(a).Error
}

func (r *AssignmentRepository) Save(a *model.ConceptAssignment) error {
	return r.db.Save(a).Error
}

func (r *AssignmentRepository) FindByID(id uuid.UUID) (*model.ConceptAssignment, error) {
	var a model.ConceptAssignment
	err := r.db.
		Preload("Parcels").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("concept assignment not found")
	}
	return &a, err
}

func (r *AssignmentRepository) List(states ...model.AssignmentState) ([]model.ConceptAssignment, error) {
	var assignments []model.ConceptAssignment
	q := r.db.Preload("Parcels").Order("created_at DESC")
	if len(states) > 0 {
		q = q.Where("state IN ?", states)
	}
	err := q.Find(&assignments).Error
	return assignments, err
}

// Delete removes a draft assignment together with its questions and
// releases its parcels. Attachment metadata is deleted here too; blob
// cleanup happens in the usecase before this is called.
func (r *AssignmentRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("concept_assignment_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Parcel{}).
			Where("concept_assignment_id = ?", id).
			Update("concept_assignment_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("concept_assignment_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ConceptAssignment{}, "id = ?", id).Error
	})
}

func (r *AssignmentRepository) ReplaceQuestions(id uuid.UUID, questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("concept_assignment_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ConceptAssignmentID = id
		}
		return tx.Create(&questions).Error
	})
}

func (r *AssignmentRepository) AssignParcels(id uuid.UUID, parcelIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Parcel{}).
			Where("concept_assignment_id = ?", id).
			Update("concept_assignment_id", nil).Error; err != nil {
			return err
		}
		if len(parcelIDs) == 0 {
			return nil
		}
		res := tx.Model(&model.Parcel{}).
			Where("id IN ? AND concept_assignment_id IS NULL", parcelIDs).
			Update("concept_assignment_id", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(parcelIDs)) {
			return apperror.Conflict("one or more parcels are missing or already assigned")
		}
		return nil
	})
}

// Start sets the tender window and moves the assignment to ACTIVE or
// WAITING. Guarded so only DRAFT and WAITING assignments can start.
func (r *AssignmentRepository) Start(id uuid.UUID, to model.AssignmentState, start, end time.Time) error {
	res := r.db.Model(&model.ConceptAssignment{}).
		Where("id = ? AND state IN ?", id, []model.AssignmentState{model.AssignmentDraft, model.AssignmentWaiting}).
		Updates(map[string]any{"state": to, "start_at": start, "end_at": end})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.WrongState("assignment can only be started from draft or waiting")
	}
	return nil
}

func (r *AssignmentRepository) Unstart(id uuid.UUID) error {
	res := r.db.Model(&model.ConceptAssignment{}).
		Where("id = ? AND state = ?", id, model.AssignmentWaiting).
		Updates(map[string]any{"state": model.AssignmentDraft, "start_at": nil, "end_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.WrongState("assignment can only be unstarted while waiting")
	}
	return nil
}

func (r *AssignmentRepository) Stop(id uuid.UUID, end time.Time) error {
	res := r.db.Model(&model.ConceptAssignment{}).
		Where("id = ? AND state = ?", id, model.AssignmentActive).
		Updates(map[string]any{"state": model.AssignmentReview, "end_at": end})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.WrongState("assignment can only be stopped while active")
	}
	return nil
}

// Abort moves a REVIEW assignment to ABORTED and rejects every
// submitted candidature, all in one transaction.
func (r *AssignmentRepository) Abort(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ConceptAssignment{}).
			Where("id = ? AND state = ?", id, model.AssignmentReview).
			Update("state", model.AssignmentAborted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.WrongState("assignment can only be aborted while in review")
		}
		return rejectSubmitted(tx, id)
	})
}

// AbortAndCopyToDraft aborts the assignment and returns a fresh DRAFT
// copy. Parcels and attachments are re-pointed to the copy; file
// questions are stripped from the aborted original since their
// attachments moved with the rest.
func (r *AssignmentRepository) AbortAndCopyToDraft(id uuid.UUID) (*model.ConceptAssignment, error) {
	var draft model.ConceptAssignment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var old model.ConceptAssignment
		if err := tx.Preload("Questions").First(&old, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("concept assignment not found")
			}
			return err
		}

		res := tx.Model(&model.ConceptAssignment{}).
			Where("id = ? AND state = ?", id, model.AssignmentReview).
			Updates(map[string]any{"state": model.AssignmentAborted, "preview_image_id": nil})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.WrongState("assignment can only be aborted while in review")
		}
		if err := rejectSubmitted(tx, id); err != nil {
			return err
		}

		draft = model.ConceptAssignment{
			ID:             uuid.New(),
			Name:           old.Name,
			State:          model.AssignmentDraft,
			Type:           old.Type,
			Description:    old.Description,
			PlotArea:       old.PlotArea,
			AllowedFloors:  old.AllowedFloors,
			UsageDetails:   old.UsageDetails,
			PreviewImageID: old.PreviewImageID,
		}
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}

		for _, q := range old.Questions {
			if q.Type == model.QuestionFile {
				if err := tx.Delete(&model.Question{}, "id = ?", q.ID).Error; err != nil {
					return err
				}
				continue
			}
			copied := model.Question{
				ConceptAssignmentID: draft.ID,
				Text:                q.Text,
				Type:                q.Type,
				Required:            q.Required,
				Options:             q.Options,
				Position:            q.Position,
			}
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Parcel{}).
			Where("concept_assignment_id = ?", id).
			Update("concept_assignment_id", draft.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Attachment{}).
			Where("concept_assignment_id = ?", id).
			Update("concept_assignment_id", draft.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(draft.ID)
}

// ActivateDue and DeactivateDue are the scheduled sweep passes; both
// are plain guarded updates and no-ops when nothing is eligible.
func (r *AssignmentRepository) ActivateDue(now time.Time) (int64, error) {
	res := r.db.Model(&model.ConceptAssignment{}).
		Where("state = ? AND start_at <= ?", model.AssignmentWaiting, now).
		Update("state", model.AssignmentActive)
	return res.RowsAffected, res.Error
}

func (r *AssignmentRepository) DeactivateDue(now time.Time) (int64, error) {
	res := r.db.Model(&model.ConceptAssignment{}).
		Where("state = ? AND end_at <= ?", model.AssignmentActive, now).
		Update("state", model.AssignmentReview)
	return res.RowsAffected, res.Error
}

// rejectSubmitted flips every SUBMITTED candidature of the assignment
// to REJECTED and enqueues one reject notification per candidature.
func rejectSubmitted(tx *gorm.DB, assignmentID uuid.UUID) error {
	var submitted []model.Candidature
	if err := tx.Where("concept_assignment_id = ? AND state = ?", assignmentID, model.CandidatureSubmitted).
		Find(&submitted).Error; err != nil {
		return err
	}
	if len(submitted) == 0 {
		return nil
	}
	if err := tx.Model(&model.Candidature{}).
		Where("concept_assignment_id = ? AND state = ?", assignmentID, model.CandidatureSubmitted).
		Update("state", model.CandidatureRejected).Error; err != nil {
		return err
	}
	notifications := make([]model.Notification, 0, len(submitted))
	for _, c := range submitted {
		data, _ := json.Marshal(map[string]string{
			"candidature_id":        c.ID.String(),
			"concept_assignment_id": assignmentID.String(),
		})
		notifications = append(notifications, model.Notification{
			UserID: c.UserID,
			Type:   model.NotificationCandidatureRejected,
			Data:   data,
		})
	}
	return tx.Create(&notifications).Error
}
