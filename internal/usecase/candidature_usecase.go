package usecase

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/service"
	"gorm.io/datatypes"
)

type CandidatureStore interface {
	Create(c *model.Candidature) error
	Save(c *model.Candidature) error
	FindByID(id uuid.UUID) (*model.Candidature, error)
	FindByUserAndAssignment(userID, assignmentID uuid.UUID) (*model.Candidature, error)
	ListByAssignment(assignmentID uuid.UUID, states ...model.CandidatureState) ([]model.Candidature, error)
	ListByUser(userID uuid.UUID) ([]model.Candidature, error)
	Submit(id uuid.UUID) error
	Revoke(id uuid.UUID) error
	Reject(id uuid.UUID) error
	Grant(id, assignmentID uuid.UUID) error
	Rate(id uuid.UUID, rating int, comment string) error
	DeleteWithAttachments(id uuid.UUID) error
}

type CandidatureUsecase struct {
	candidatures CandidatureStore
	assignments  AssignmentStore
	attachments  AttachmentStore
	blobs        service.BlobStore
	clock        func() time.Time
}

func NewCandidatureUsecase(candidatures CandidatureStore, assignments AssignmentStore, attachments AttachmentStore, blobs service.BlobStore) *CandidatureUsecase {
	return &CandidatureUsecase{
		candidatures: candidatures,
		assignments:  assignments,
		attachments:  attachments,
		blobs:        blobs,
		clock:        time.Now,
	}
}

// Create opens a new draft candidature. A second candidature for the
// same (user, assignment) pair is a conflict; the unique index backs
// this up against races.
func (uc *CandidatureUsecase) Create(userID, assignmentID uuid.UUID) (*model.Candidature, error) {
	if _, err := uc.assignments.FindByID(assignmentID); err != nil {
		return nil, err
	}
	existing, err := uc.candidatures.FindByUserAndAssignment(userID, assignmentID)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("a candidature for this assignment already exists")
	}
	if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}
	c := &model.Candidature{
		UserID:              userID,
		ConceptAssignmentID: assignmentID,
		State:               model.CandidatureDraft,
		Answers:             datatypes.JSONMap{},
	}
	if err := uc.candidatures.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CandidatureUsecase) Edit(userID, id uuid.UUID, description string, answers map[string]any) (*model.Candidature, error) {
	c, err := uc.ownedDraft(userID, id)
	if err != nil {
		return nil, err
	}
	c.Description = description
	c.Answers = datatypes.JSONMap(answers)
	if err := uc.candidatures.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Submit validates the description and every required answer before
// flipping DRAFT to SUBMITTED; an invalid candidature stays in draft.
func (uc *CandidatureUsecase) Submit(userID, id uuid.UUID) (*model.Candidature, error) {
	c, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if c.State != model.CandidatureDraft {
		return nil, apperror.WrongState("candidature can only be submitted from draft")
	}
	if strings.TrimSpace(c.Description) == "" {
		return nil, apperror.Validation("description must not be blank")
	}
	a, err := uc.assignments.FindByID(c.ConceptAssignmentID)
	if err != nil {
		return nil, err
	}
	if err := validateAnswers(a.Questions, c); err != nil {
		return nil, err
	}
	if err := uc.candidatures.Submit(id); err != nil {
		return nil, err
	}
	return uc.candidatures.FindByID(id)
}

func (uc *CandidatureUsecase) Revoke(userID, id uuid.UUID) (*model.Candidature, error) {
	if _, err := uc.owned(userID, id); err != nil {
		return nil, err
	}
	if err := uc.candidatures.Revoke(id); err != nil {
		return nil, err
	}
	return uc.candidatures.FindByID(id)
}

// Delete removes a draft candidature. Blob deletion runs first and
// fails fast: a failed blob delete aborts the whole operation.
func (uc *CandidatureUsecase) Delete(userID, id uuid.UUID) error {
	c, err := uc.owned(userID, id)
	if err != nil {
		return err
	}
	if c.State != model.CandidatureDraft {
		return apperror.WrongState("candidature can only be deleted while in draft")
	}
	attachments, err := uc.attachments.ListByCandidature(id)
	if err != nil {
		return apperror.Internal("could not list attachments", err)
	}
	for _, att := range attachments {
		if err := uc.blobs.Delete(att.ID.String()); err != nil {
			return apperror.Internal("could not delete attachment blob", err)
		}
	}
	return uc.candidatures.DeleteWithAttachments(id)
}

// Reject is an admin decision, legal only while the owning assignment
// is in review.
func (uc *CandidatureUsecase) Reject(id uuid.UUID) (*model.Candidature, error) {
	c, err := uc.candidatures.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c.State != model.CandidatureSubmitted {
		return nil, apperror.WrongState("candidature is not submitted")
	}
	a, err := uc.assignments.FindByID(c.ConceptAssignmentID)
	if err != nil {
		return nil, err
	}
	if a.State != model.AssignmentReview {
		return nil, apperror.WrongState("assignment is not in review")
	}
	if err := uc.candidatures.Reject(id); err != nil {
		return nil, err
	}
	return uc.candidatures.FindByID(id)
}

// Grant accepts the candidature, rejects the other submitted ones and
// finishes the assignment, atomically.
func (uc *CandidatureUsecase) Grant(id, assignmentID uuid.UUID) (*model.Candidature, error) {
	c, err := uc.candidatures.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c.ConceptAssignmentID != assignmentID {
		return nil, apperror.NotFound("candidature not found")
	}
	if c.State != model.CandidatureSubmitted {
		return nil, apperror.WrongState("candidature is not submitted")
	}
	a, err := uc.assignments.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if a.State != model.AssignmentReview {
		return nil, apperror.WrongState("assignment is not in review")
	}
	if err := uc.candidatures.Grant(id, assignmentID); err != nil {
		return nil, err
	}
	return uc.candidatures.FindByID(id)
}

// CopyTo copies description, non-file answers and non-file-question
// attachments from one of the caller's candidatures into another of
// their drafts. A partial blob copy rolls back by deleting the target
// blobs already written.
func (uc *CandidatureUsecase) CopyTo(userID, fromID, toID uuid.UUID) (*model.Candidature, error) {
	from, err := uc.owned(userID, fromID)
	if err != nil {
		return nil, err
	}
	to, err := uc.ownedDraft(userID, toID)
	if err != nil {
		return nil, err
	}

	fromAssignment, err := uc.assignments.FindByID(from.ConceptAssignmentID)
	if err != nil {
		return nil, err
	}
	fileAnswerIDs := fileQuestionAnswerIDs(fromAssignment.Questions, from)

	to.Description = from.Description
	answers := datatypes.JSONMap{}
	for k, v := range from.Answers {
		if _, isFile := fileAnswerIDs[toStringAnswer(v)]; isFile {
			continue
		}
		answers[k] = v
	}
	to.Answers = answers

	attachments, err := uc.attachments.ListByCandidature(fromID)
	if err != nil {
		return nil, apperror.Internal("could not list attachments", err)
	}

	var copies []model.Attachment
	var copiedKeys []string
	rollback := func() {
		for _, key := range copiedKeys {
			_ = uc.blobs.Delete(key)
		}
	}
	for _, att := range attachments {
		if _, isFileAnswer := fileAnswerIDs[att.ID.String()]; isFileAnswer {
			continue
		}
		copied := model.Attachment{
			ID:            uuid.New(),
			CandidatureID: &toID,
			Name:          att.Name,
			ContentType:   att.ContentType,
			Size:          att.Size,
		}
		if err := uc.blobs.Copy(att.ID.String(), copied.ID.String()); err != nil {
			rollback()
			return nil, apperror.Internal("could not copy attachment blob", err)
		}
		copiedKeys = append(copiedKeys, copied.ID.String())
		copies = append(copies, copied)
	}
	if err := uc.attachments.CreateMany(copies); err != nil {
		rollback()
		return nil, apperror.Internal("could not store copied attachment metadata", err)
	}
	if err := uc.candidatures.Save(to); err != nil {
		return nil, err
	}
	return to, nil
}

// Rate stores the admin rating and comment; drafts cannot be rated.
func (uc *CandidatureUsecase) Rate(id uuid.UUID, rating int, comment string) (*model.Candidature, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	c, err := uc.candidatures.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c.State == model.CandidatureDraft {
		return nil, apperror.NotFound("candidature not found")
	}
	if err := uc.candidatures.Rate(id, rating, comment); err != nil {
		return nil, err
	}
	return uc.candidatures.FindByID(id)
}

func (uc *CandidatureUsecase) GetForUser(userID, id uuid.UUID) (*model.Candidature, error) {
	return uc.owned(userID, id)
}

// GetForAdmin hides drafts: a draft candidature is invisible to the
// project group until it is submitted.
func (uc *CandidatureUsecase) GetForAdmin(id uuid.UUID) (*model.Candidature, error) {
	c, err := uc.candidatures.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c.State == model.CandidatureDraft {
		return nil, apperror.NotFound("candidature not found")
	}
	return c, nil
}

func (uc *CandidatureUsecase) ListForUser(userID uuid.UUID) ([]model.Candidature, error) {
	return uc.candidatures.ListByUser(userID)
}

func (uc *CandidatureUsecase) ListForAdmin(assignmentID uuid.UUID) ([]model.Candidature, error) {
	return uc.candidatures.ListByAssignment(assignmentID,
		model.CandidatureSubmitted, model.CandidatureAccepted, model.CandidatureRejected)
}

func (uc *CandidatureUsecase) UploadAttachment(userID, id uuid.UUID, name, contentType string, size int64, r io.Reader) (*model.Attachment, error) {
	if _, err := uc.ownedDraft(userID, id); err != nil {
		return nil, err
	}
	att := &model.Attachment{
		ID:            uuid.New(),
		CandidatureID: &id,
		Name:          name,
		ContentType:   contentType,
		Size:          size,
	}
	if err := uc.blobs.Upload(att.ID.String(), contentType, r); err != nil {
		return nil, apperror.Internal("could not store attachment", err)
	}
	if err := uc.attachments.Create(att); err != nil {
		_ = uc.blobs.Delete(att.ID.String())
		return nil, apperror.Internal("could not store attachment metadata", err)
	}
	return att, nil
}

// ListAttachments hides attachments that answer a file-upload question;
// those are surfaced through the question view only.
func (uc *CandidatureUsecase) ListAttachments(id uuid.UUID) ([]model.Attachment, error) {
	c, err := uc.candidatures.FindByID(id)
	if err != nil {
		return nil, err
	}
	a, err := uc.assignments.FindByID(c.ConceptAssignmentID)
	if err != nil {
		return nil, err
	}
	fileAnswerIDs := fileQuestionAnswerIDs(a.Questions, c)

	attachments, err := uc.attachments.ListByCandidature(id)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Attachment, 0, len(attachments))
	for _, att := range attachments {
		if _, hidden := fileAnswerIDs[att.ID.String()]; hidden {
			continue
		}
		visible = append(visible, att)
	}
	return visible, nil
}

// DownloadAttachmentForUser serves an attachment only to the owner of
// the candidature it belongs to.
func (uc *CandidatureUsecase) DownloadAttachmentForUser(userID, attachmentID uuid.UUID) (*model.Attachment, io.ReadCloser, error) {
	att, err := uc.attachments.FindByID(attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if att.CandidatureID == nil {
		return nil, nil, apperror.NotFound("attachment not found")
	}
	if _, err := uc.owned(userID, *att.CandidatureID); err != nil {
		return nil, nil, err
	}
	return uc.openAttachment(att)
}

// DownloadAttachmentForAdmin mirrors GetForAdmin: attachments of draft
// candidatures stay invisible to the project group.
func (uc *CandidatureUsecase) DownloadAttachmentForAdmin(attachmentID uuid.UUID) (*model.Attachment, io.ReadCloser, error) {
	att, err := uc.attachments.FindByID(attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if att.CandidatureID == nil {
		return nil, nil, apperror.NotFound("attachment not found")
	}
	if _, err := uc.GetForAdmin(*att.CandidatureID); err != nil {
		return nil, nil, err
	}
	return uc.openAttachment(att)
}

func (uc *CandidatureUsecase) openAttachment(att *model.Attachment) (*model.Attachment, io.ReadCloser, error) {
	r, err := uc.blobs.Download(att.ID.String())
	if err != nil {
		return nil, nil, apperror.Internal("could not read attachment blob", err)
	}
	return att, r, nil
}

func (uc *CandidatureUsecase) DeleteAttachment(userID, attachmentID uuid.UUID) error {
	att, err := uc.attachments.FindByID(attachmentID)
	if err != nil {
		return err
	}
	if att.CandidatureID == nil {
		return apperror.NotFound("attachment not found")
	}
	if _, err := uc.ownedDraft(userID, *att.CandidatureID); err != nil {
		return err
	}
	if err := uc.blobs.Delete(att.ID.String()); err != nil {
		return apperror.Internal("could not delete attachment blob", err)
	}
	return uc.attachments.Delete(att.ID)
}

func (uc *CandidatureUsecase) owned(userID, id uuid.UUID) (*model.Candidature, error) {
	c, err := uc.candidatures.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, apperror.NotFound("candidature not found")
	}
	return c, nil
}

func (uc *CandidatureUsecase) ownedDraft(userID, id uuid.UUID) (*model.Candidature, error) {
	c, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if c.State != model.CandidatureDraft {
		return nil, apperror.WrongState("candidature can only be modified while in draft")
	}
	return c, nil
}

// validateAnswers checks required questions and per-type answer shape.
func validateAnswers(questions []model.Question, c *model.Candidature) error {
	for _, q := range questions {
		answer := c.AnswerFor(q.ID)
		if strings.TrimSpace(answer) == "" {
			if q.Required {
				return apperror.Validation("missing answer for required question")
			}
			continue
		}
		switch q.Type {
		case model.QuestionNumber:
			if _, err := strconv.ParseFloat(answer, 64); err != nil {
				return apperror.Validation("invalid answers")
			}
		case model.QuestionCheckbox:
			if answer != "true" && answer != "false" {
				return apperror.Validation("invalid answers")
			}
		case model.QuestionFile:
			if _, err := uuid.Parse(answer); err != nil {
				return apperror.Validation("invalid answers")
			}
		}
	}
	return nil
}

// fileQuestionAnswerIDs collects the attachment ids referenced as
// answers to file-upload questions.
func fileQuestionAnswerIDs(questions []model.Question, c *model.Candidature) map[string]struct{} {
	ids := map[string]struct{}{}
	for _, q := range questions {
		if q.Type != model.QuestionFile {
			continue
		}
		if answer := c.AnswerFor(q.ID); answer != "" {
			ids[answer] = struct{}{}
		}
	}
	return ids
}

func toStringAnswer(v any) string {
	s, _ := v.(string)
	return s
}
