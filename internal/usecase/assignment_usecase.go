package usecase

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/service"
)

type AssignmentStore interface {
	Create(a *model.ConceptAssignment) error
	Save(a *model.ConceptAssignment) error
	FindByID(id uuid.UUID) (*model.ConceptAssignment, error)
	List(states ...model.AssignmentState) ([]model.ConceptAssignment, error)
	Delete(id uuid.UUID) error
	ReplaceQuestions(id uuid.UUID, questions []model.Question) error
	AssignParcels(id uuid.UUID, parcelIDs []uuid.UUID) error
	Start(id uuid.UUID, to model.AssignmentState, start, end time.Time) error
	Unstart(id uuid.UUID) error
	Stop(id uuid.UUID, end time.Time) error
	Abort(id uuid.UUID) error
	AbortAndCopyToDraft(id uuid.UUID) (*model.ConceptAssignment, error)
}

type AttachmentStore interface {
	Create(a *model.Attachment) error
	CreateMany(attachments []model.Attachment) error
	FindByID(id uuid.UUID) (*model.Attachment, error)
	ListByCandidature(candidatureID uuid.UUID) ([]model.Attachment, error)
	ListByAssignment(assignmentID uuid.UUID) ([]model.Attachment, error)
	Delete(id uuid.UUID) error
}

type ParcelStore interface {
	Create(p *model.Parcel) error
	FindByID(id uuid.UUID) (*model.Parcel, error)
	List(onlyUnassigned bool) ([]model.Parcel, error)
}

type AssignmentUsecase struct {
	assignments AssignmentStore
	attachments AttachmentStore
	parcels     ParcelStore
	blobs       service.BlobStore
	clock       func() time.Time
}

func NewAssignmentUsecase(assignments AssignmentStore, attachments AttachmentStore, parcels ParcelStore, blobs service.BlobStore) *AssignmentUsecase {
	return &AssignmentUsecase{
		assignments: assignments,
		attachments: attachments,
		parcels:     parcels,
		blobs:       blobs,
		clock:       time.Now,
	}
}

func (uc *AssignmentUsecase) Create(a *model.ConceptAssignment) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperror.Validation("assignment name must not be blank")
	}
	if a.Type != model.AssignmentTypeAnchor && a.Type != model.AssignmentTypeAnlieger {
		return apperror.Validation("unknown assignment type")
	}
	a.State = model.AssignmentDraft
	return uc.assignments.Create(a)
}

// Update replaces the building details; only drafts are editable.
func (uc *AssignmentUsecase) Update(id uuid.UUID, changes *model.ConceptAssignment) (*model.ConceptAssignment, error) {
	a, err := uc.requireDraft(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(changes.Name) == "" {
		return nil, apperror.Validation("assignment name must not be blank")
	}
	a.Name = changes.Name
	a.Description = changes.Description
	a.PlotArea = changes.PlotArea
	a.AllowedFloors = changes.AllowedFloors
	a.UsageDetails = changes.UsageDetails
	if changes.Type != "" {
		if changes.Type != model.AssignmentTypeAnchor && changes.Type != model.AssignmentTypeAnlieger {
			return nil, apperror.Validation("unknown assignment type")
		}
		a.Type = changes.Type
	}
	if err := uc.assignments.Save(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes a draft assignment. Blobs go first, fail-fast, so a
// storage failure leaves the metadata intact and the delete can be
// retried.
func (uc *AssignmentUsecase) Delete(id uuid.UUID) error {
	if _, err := uc.requireDraft(id); err != nil {
		return err
	}
	attachments, err := uc.attachments.ListByAssignment(id)
	if err != nil {
		return apperror.Internal("could not list attachments", err)
	}
	for _, att := range attachments {
		if err := uc.blobs.Delete(att.ID.String()); err != nil {
			return apperror.Internal("could not delete attachment blob", err)
		}
	}
	return uc.assignments.Delete(id)
}

func (uc *AssignmentUsecase) ReplaceQuestions(id uuid.UUID, questions []model.Question) error {
	if _, err := uc.requireDraft(id); err != nil {
		return err
	}
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return apperror.Validation("question text must not be blank")
		}
		switch q.Type {
		case model.QuestionText, model.QuestionNumber, model.QuestionCheckbox, model.QuestionFile:
		default:
			return apperror.Validation("unknown question type %q", q.Type)
		}
	}
	return uc.assignments.ReplaceQuestions(id, questions)
}

func (uc *AssignmentUsecase) AssignParcels(id uuid.UUID, parcelIDs []uuid.UUID) error {
	if _, err := uc.requireDraft(id); err != nil {
		return err
	}
	for _, parcelID := range parcelIDs {
		if _, err := uc.parcels.FindByID(parcelID); err != nil {
			return err
		}
	}
	return uc.assignments.AssignParcels(id, parcelIDs)
}

// Start opens the tender window. The assignment goes ACTIVE right away
// when the window has already opened, WAITING otherwise.
func (uc *AssignmentUsecase) Start(id uuid.UUID, start, end time.Time) (*model.ConceptAssignment, error) {
	a, err := uc.assignments.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a.State != model.AssignmentDraft && a.State != model.AssignmentWaiting {
		return nil, apperror.WrongState("assignment can only be started from draft or waiting")
	}
	if !end.After(start) {
		return nil, apperror.Validation("end must be after start")
	}
	to := model.StateAfterStart(start, uc.clock())
	if err := uc.assignments.Start(id, to, start, end); err != nil {
		return nil, err
	}
	return uc.assignments.FindByID(id)
}

func (uc *AssignmentUsecase) Unstart(id uuid.UUID) (*model.ConceptAssignment, error) {
	if _, err := uc.assignments.FindByID(id); err != nil {
		return nil, err
	}
	if err := uc.assignments.Unstart(id); err != nil {
		return nil, err
	}
	return uc.assignments.FindByID(id)
}

func (uc *AssignmentUsecase) StopManually(id uuid.UUID) (*model.ConceptAssignment, error) {
	if _, err := uc.assignments.FindByID(id); err != nil {
		return nil, err
	}
	if err := uc.assignments.Stop(id, uc.clock()); err != nil {
		return nil, err
	}
	return uc.assignments.FindByID(id)
}

func (uc *AssignmentUsecase) Abort(id uuid.UUID) (*model.ConceptAssignment, error) {
	if _, err := uc.assignments.FindByID(id); err != nil {
		return nil, err
	}
	if err := uc.assignments.Abort(id); err != nil {
		return nil, err
	}
	return uc.assignments.FindByID(id)
}

func (uc *AssignmentUsecase) AbortAndCopyToDraft(id uuid.UUID) (*model.ConceptAssignment, error) {
	if _, err := uc.assignments.FindByID(id); err != nil {
		return nil, err
	}
	return uc.assignments.AbortAndCopyToDraft(id)
}

// Get scoped by caller: candidates never see drafts.
func (uc *AssignmentUsecase) Get(id uuid.UUID, includeDraft bool) (*model.ConceptAssignment, error) {
	a, err := uc.assignments.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a.State == model.AssignmentDraft && !includeDraft {
		return nil, apperror.NotFound("concept assignment not found")
	}
	return a, nil
}

func (uc *AssignmentUsecase) List(includeDraft bool) ([]model.ConceptAssignment, error) {
	if includeDraft {
		return uc.assignments.List()
	}
	return uc.assignments.List(
		model.AssignmentWaiting,
		model.AssignmentActive,
		model.AssignmentReview,
		model.AssignmentFinished,
		model.AssignmentAborted,
	)
}

// UploadAttachment writes the blob first, then the metadata row, and
// deletes the blob again when the metadata write fails.
func (uc *AssignmentUsecase) UploadAttachment(id uuid.UUID, name, contentType string, size int64, r io.Reader, asPreview bool) (*model.Attachment, error) {
	a, err := uc.requireDraft(id)
	if err != nil {
		return nil, err
	}
	att := &model.Attachment{
		ID:                  uuid.New(),
		ConceptAssignmentID: &id,
		Name:                name,
		ContentType:         contentType,
		Size:                size,
	}
	if err := uc.blobs.Upload(att.ID.String(), contentType, r); err != nil {
		return nil, apperror.Internal("could not store attachment", err)
	}
	if err := uc.attachments.Create(att); err != nil {
		_ = uc.blobs.Delete(att.ID.String())
		return nil, apperror.Internal("could not store attachment metadata", err)
	}
	if asPreview {
		a.PreviewImageID = &att.ID
		if err := uc.assignments.Save(a); err != nil {
			return nil, apperror.Internal("could not set preview image", err)
		}
	}
	return att, nil
}

func (uc *AssignmentUsecase) ListAttachments(id uuid.UUID) ([]model.Attachment, error) {
	if _, err := uc.assignments.FindByID(id); err != nil {
		return nil, err
	}
	return uc.attachments.ListByAssignment(id)
}

// DownloadAttachment serves assignment attachments only; candidature
// attachments are reachable through the candidature paths and their
// ownership checks. Attachments of draft assignments stay admin-only.
func (uc *AssignmentUsecase) DownloadAttachment(attachmentID uuid.UUID, includeDraft bool) (*model.Attachment, io.ReadCloser, error) {
	att, err := uc.attachments.FindByID(attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if att.ConceptAssignmentID == nil {
		return nil, nil, apperror.NotFound("attachment not found")
	}
	a, err := uc.assignments.FindByID(*att.ConceptAssignmentID)
	if err != nil {
		return nil, nil, err
	}
	if a.State == model.AssignmentDraft && !includeDraft {
		return nil, nil, apperror.NotFound("attachment not found")
	}
	r, err := uc.blobs.Download(att.ID.String())
	if err != nil {
		return nil, nil, apperror.Internal("could not read attachment blob", err)
	}
	return att, r, nil
}

func (uc *AssignmentUsecase) DeleteAttachment(attachmentID uuid.UUID) error {
	att, err := uc.attachments.FindByID(attachmentID)
	if err != nil {
		return err
	}
	if att.ConceptAssignmentID == nil {
		return apperror.NotFound("attachment not found")
	}
	a, err := uc.requireDraft(*att.ConceptAssignmentID)
	if err != nil {
		return err
	}
	if err := uc.blobs.Delete(att.ID.String()); err != nil {
		return apperror.Internal("could not delete attachment blob", err)
	}
	if a.PreviewImageID != nil && *a.PreviewImageID == att.ID {
		a.PreviewImageID = nil
		if err := uc.assignments.Save(a); err != nil {
			return apperror.Internal("could not clear preview image", err)
		}
	}
	return uc.attachments.Delete(att.ID)
}

func (uc *AssignmentUsecase) CreateParcel(p *model.Parcel) error {
	if strings.TrimSpace(p.Number) == "" {
		return apperror.Validation("parcel number must not be blank")
	}
	return uc.parcels.Create(p)
}

func (uc *AssignmentUsecase) ListParcels(onlyUnassigned bool) ([]model.Parcel, error) {
	return uc.parcels.List(onlyUnassigned)
}

func (uc *AssignmentUsecase) requireDraft(id uuid.UUID) (*model.ConceptAssignment, error) {
	a, err := uc.assignments.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a.State != model.AssignmentDraft {
		return nil, apperror.WrongState("assignment can only be modified while in draft")
	}
	return a, nil
}
