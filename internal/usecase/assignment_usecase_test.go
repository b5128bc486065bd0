package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type assignmentFixture struct {
	uc          *AssignmentUsecase
	assignments *fakeAssignmentStore
	attachments *fakeAttachmentStore
	parcels     *fakeParcelStore
	blobs       *fakeBlobStore
}

func newAssignmentFixture() *assignmentFixture {
	assignments := newFakeAssignmentStore()
	attachments := newFakeAttachmentStore()
	parcels := &fakeParcelStore{}
	blobs := newFakeBlobStore()
	uc := NewAssignmentUsecase(assignments, attachments, parcels, blobs)
	uc.clock = fixedClock(testNow)
	return &assignmentFixture{
		uc:          uc,
		assignments: assignments,
		attachments: attachments,
		parcels:     parcels,
		blobs:       blobs,
	}
}

func (f *assignmentFixture) assignment(state model.AssignmentState) *model.ConceptAssignment {
	return f.assignments.add(&model.ConceptAssignment{
		Name:  "Quartier Nord",
		State: state,
		Type:  model.AssignmentTypeAnchor,
	})
}

func TestCreateAssignmentValidation(t *testing.T) {
	f := newAssignmentFixture()

	err := f.uc.Create(&model.ConceptAssignment{Name: "  ", Type: model.AssignmentTypeAnchor})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("blank name = %v, want validation error", err)
	}
	err = f.uc.Create(&model.ConceptAssignment{Name: "x", Type: "SOMETHING"})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("bad type = %v, want validation error", err)
	}

	a := &model.ConceptAssignment{Name: "Quartier Nord", Type: model.AssignmentTypeAnlieger}
	if err := f.uc.Create(a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.State != model.AssignmentDraft {
		t.Fatalf("state = %s, want DRAFT", a.State)
	}
}

func TestStartWithOpenWindowGoesActive(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	got, err := f.uc.Start(a.ID, testNow.Add(-time.Hour), testNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got.State != model.AssignmentActive {
		t.Fatalf("state = %s, want ACTIVE", got.State)
	}
}

func TestStartWithFutureWindowGoesWaiting(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	got, err := f.uc.Start(a.ID, testNow.Add(time.Hour), testNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got.State != model.AssignmentWaiting {
		t.Fatalf("state = %s, want WAITING", got.State)
	}
}

func TestStartRejectsInvertedWindow(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	_, err := f.uc.Start(a.ID, testNow.Add(time.Hour), testNow.Add(time.Hour))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("Start = %v, want validation error", err)
	}
}

func TestStartFromActiveIsWrongState(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentActive)

	_, err := f.uc.Start(a.ID, testNow, testNow.Add(time.Hour))
	if apperror.KindOf(err) != apperror.KindWrongState {
		t.Fatalf("Start = %v, want wrong state", err)
	}
}

func TestRestartWaitingMovesWindow(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	if _, err := f.uc.Start(a.ID, testNow.Add(time.Hour), testNow.Add(48*time.Hour)); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	got, err := f.uc.Start(a.ID, testNow.Add(-time.Minute), testNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if got.State != model.AssignmentActive {
		t.Fatalf("state = %s, want ACTIVE after re-start", got.State)
	}
}

func TestUnstartWaitingClearsWindow(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	if _, err := f.uc.Start(a.ID, testNow.Add(time.Hour), testNow.Add(24*time.Hour)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	got, err := f.uc.Unstart(a.ID)
	if err != nil {
		t.Fatalf("Unstart: %v", err)
	}
	if got.State != model.AssignmentDraft {
		t.Fatalf("state = %s, want DRAFT", got.State)
	}
	if got.StartAt != nil || got.EndAt != nil {
		t.Fatalf("window not cleared: start=%v end=%v", got.StartAt, got.EndAt)
	}
}

func TestUnstartActiveIsWrongState(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentActive)

	if _, err := f.uc.Unstart(a.ID); apperror.KindOf(err) != apperror.KindWrongState {
		t.Fatalf("Unstart = %v, want wrong state", err)
	}
}

func TestStopActiveGoesReview(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentActive)

	got, err := f.uc.StopManually(a.ID)
	if err != nil {
		t.Fatalf("StopManually: %v", err)
	}
	if got.State != model.AssignmentReview {
		t.Fatalf("state = %s, want REVIEW", got.State)
	}
	if got.EndAt == nil || !got.EndAt.Equal(testNow) {
		t.Fatalf("end = %v, want clamped to now", got.EndAt)
	}
}

func TestStopDraftIsWrongState(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	if _, err := f.uc.StopManually(a.ID); apperror.KindOf(err) != apperror.KindWrongState {
		t.Fatalf("StopManually = %v, want wrong state", err)
	}
}

func TestAbortFromReview(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentReview)

	got, err := f.uc.Abort(a.ID)
	if err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if got.State != model.AssignmentAborted {
		t.Fatalf("state = %s, want ABORTED", got.State)
	}
}

func TestAbortAndCopyToDraftReturnsFreshDraft(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentReview)
	a.Questions = []model.Question{
		{ID: uuid.New(), Type: model.QuestionText, Text: "Concept?"},
		{ID: uuid.New(), Type: model.QuestionFile, Text: "Financing proof"},
	}

	draft, err := f.uc.AbortAndCopyToDraft(a.ID)
	if err != nil {
		t.Fatalf("AbortAndCopyToDraft: %v", err)
	}
	if a.State != model.AssignmentAborted {
		t.Fatalf("original state = %s, want ABORTED", a.State)
	}
	if draft.ID == a.ID {
		t.Fatal("draft reuses the original id")
	}
	if draft.State != model.AssignmentDraft {
		t.Fatalf("draft state = %s, want DRAFT", draft.State)
	}
	if len(draft.Questions) != 1 || draft.Questions[0].Type != model.QuestionText {
		t.Fatalf("draft questions = %+v, want file questions dropped", draft.Questions)
	}
}

func TestUpdateNonDraftIsWrongState(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentActive)

	_, err := f.uc.Update(a.ID, &model.ConceptAssignment{Name: "renamed"})
	if apperror.KindOf(err) != apperror.KindWrongState {
		t.Fatalf("Update = %v, want wrong state", err)
	}
}

func TestDraftHiddenFromPublic(t *testing.T) {
	f := newAssignmentFixture()
	draft := f.assignment(model.AssignmentDraft)
	f.assignment(model.AssignmentActive)

	if _, err := f.uc.Get(draft.ID, false); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("public Get on draft = %v, want not found", err)
	}
	if _, err := f.uc.Get(draft.ID, true); err != nil {
		t.Fatalf("admin Get on draft: %v", err)
	}

	public, err := f.uc.List(false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(public) != 1 {
		t.Fatalf("public list has %d entries, want 1", len(public))
	}
	admin, err := f.uc.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("admin list has %d entries, want 2", len(admin))
	}
}

func TestReplaceQuestionsValidatesTypes(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	err := f.uc.ReplaceQuestions(a.ID, []model.Question{{Text: "x", Type: "DROPDOWN"}})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("ReplaceQuestions = %v, want validation error", err)
	}
	err = f.uc.ReplaceQuestions(a.ID, []model.Question{
		{Text: "Concept?", Type: model.QuestionText, Required: true},
		{Text: "Floors?", Type: model.QuestionNumber},
	})
	if err != nil {
		t.Fatalf("ReplaceQuestions: %v", err)
	}
	if len(a.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(a.Questions))
	}
}

func TestUploadPreviewAttachmentSetsPointer(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	att, err := f.uc.UploadAttachment(a.ID, "site.png", "image/png", 3,
		strings.NewReader("png"), true)
	if err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if a.PreviewImageID == nil || *a.PreviewImageID != att.ID {
		t.Fatalf("preview pointer = %v, want %s", a.PreviewImageID, att.ID)
	}

	if err := f.uc.DeleteAttachment(att.ID); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}
	if a.PreviewImageID != nil {
		t.Fatal("preview pointer not cleared by delete")
	}
	if _, ok := f.blobs.objects[att.ID.String()]; ok {
		t.Fatal("blob still present after delete")
	}
}

func TestUploadAttachmentNonDraftIsWrongState(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentActive)

	_, err := f.uc.UploadAttachment(a.ID, "site.png", "image/png", 3,
		strings.NewReader("png"), false)
	if apperror.KindOf(err) != apperror.KindWrongState {
		t.Fatalf("UploadAttachment = %v, want wrong state", err)
	}
}

func TestDownloadAttachmentScoping(t *testing.T) {
	f := newAssignmentFixture()
	draft := f.assignment(model.AssignmentDraft)
	active := f.assignment(model.AssignmentActive)
	candidatureID := uuid.New()

	draftAtt := &model.Attachment{ID: uuid.New(), ConceptAssignmentID: &draft.ID, Name: "plan.pdf"}
	activeAtt := &model.Attachment{ID: uuid.New(), ConceptAssignmentID: &active.ID, Name: "site.png"}
	candAtt := &model.Attachment{ID: uuid.New(), CandidatureID: &candidatureID, Name: "concept.pdf"}
	for _, att := range []*model.Attachment{draftAtt, activeAtt, candAtt} {
		if err := f.attachments.Create(att); err != nil {
			t.Fatalf("seed attachment: %v", err)
		}
		f.blobs.objects[att.ID.String()] = []byte("data")
	}

	// candidature attachments are never served through the assignment path
	if _, _, err := f.uc.DownloadAttachment(candAtt.ID, false); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("public download of candidature attachment = %v, want not found", err)
	}
	if _, _, err := f.uc.DownloadAttachment(candAtt.ID, true); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("admin download of candidature attachment = %v, want not found", err)
	}

	// draft assignment attachments are admin-only
	if _, _, err := f.uc.DownloadAttachment(draftAtt.ID, false); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("public download of draft attachment = %v, want not found", err)
	}
	if _, r, err := f.uc.DownloadAttachment(draftAtt.ID, true); err != nil {
		t.Fatalf("admin download of draft attachment: %v", err)
	} else {
		r.Close()
	}

	att, r, err := f.uc.DownloadAttachment(activeAtt.ID, false)
	if err != nil {
		t.Fatalf("public download: %v", err)
	}
	r.Close()
	if att.Name != "site.png" {
		t.Fatalf("att = %q", att.Name)
	}
}

func TestAssignParcelsRejectsUnknownParcel(t *testing.T) {
	f := newAssignmentFixture()
	a := f.assignment(model.AssignmentDraft)

	p := &model.Parcel{Number: "123/4"}
	if err := f.uc.CreateParcel(p); err != nil {
		t.Fatalf("CreateParcel: %v", err)
	}

	err := f.uc.AssignParcels(a.ID, []uuid.UUID{p.ID, uuid.New()})
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("AssignParcels = %v, want not found", err)
	}
	if err := f.uc.AssignParcels(a.ID, []uuid.UUID{p.ID}); err != nil {
		t.Fatalf("AssignParcels: %v", err)
	}
}

func TestCreateParcelValidation(t *testing.T) {
	f := newAssignmentFixture()

	if err := f.uc.CreateParcel(&model.Parcel{Number: " "}); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatal("blank parcel number accepted")
	}
	if err := f.uc.CreateParcel(&model.Parcel{Number: "123/4", Area: 900}); err != nil {
		t.Fatalf("CreateParcel: %v", err)
	}
}
