package usecase

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
)

// In-memory stores implementing the same contract as the gorm
// repositories, including the state guards and the notifications the
// transactional methods enqueue.

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeAssignmentStore struct {
	items       map[uuid.UUID]*model.ConceptAssignment
	parcelsByID map[uuid.UUID][]uuid.UUID
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{
		items:       map[uuid.UUID]*model.ConceptAssignment{},
		parcelsByID: map[uuid.UUID][]uuid.UUID{},
	}
}

func (s *fakeAssignmentStore) add(a *model.ConceptAssignment) *model.ConceptAssignment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.items[a.ID] = a
	return a
}

func (s *fakeAssignmentStore) Create(a *model.ConceptAssignment) error {
	s.add(a)
	return nil
}

func (s *fakeAssignmentStore) Save(a *model.ConceptAssignment) error {
	s.items[a.ID] = a
	return nil
}

func (s *fakeAssignmentStore) FindByID(id uuid.UUID) (*model.ConceptAssignment, error) {
	a, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("concept assignment not found")
	}
	return a, nil
}

func (s *fakeAssignmentStore) List(states ...model.AssignmentState) ([]model.ConceptAssignment, error) {
	var out []model.ConceptAssignment
	for _, a := range s.items {
		if len(states) == 0 {
			out = append(out, *a)
			continue
		}
		for _, st := range states {
			if a.State == st {
				out = append(out, *a)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) Delete(id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *fakeAssignmentStore) ReplaceQuestions(id uuid.UUID, questions []model.Question) error {
	a, err := s.FindByID(id)
	if err != nil {
		return err
	}
	for i := range questions {
		if questions[i].ID == uuid.Nil {
			questions[i].ID = uuid.New()
		}
		questions[i].ConceptAssignmentID = id
	}
	a.Questions = questions
	return nil
}

func (s *fakeAssignmentStore) AssignParcels(id uuid.UUID, parcelIDs []uuid.UUID) error {
	if _, err := s.FindByID(id); err != nil {
		return err
	}
	s.parcelsByID[id] = parcelIDs
	return nil
}

func (s *fakeAssignmentStore) Start(id uuid.UUID, to model.AssignmentState, start, end time.Time) error {
	a, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if a.State != model.AssignmentDraft && a.State != model.AssignmentWaiting {
		return apperror.WrongState("assignment can only be started from draft or waiting")
	}
	a.State = to
	a.StartAt = &start
	a.EndAt = &end
	return nil
}

func (s *fakeAssignmentStore) Unstart(id uuid.UUID) error {
	a, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if a.State != model.AssignmentWaiting {
		return apperror.WrongState("assignment is not waiting")
	}
	a.State = model.AssignmentDraft
	a.StartAt = nil
	a.EndAt = nil
	return nil
}

func (s *fakeAssignmentStore) Stop(id uuid.UUID, end time.Time) error {
	a, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if a.State != model.AssignmentActive {
		return apperror.WrongState("assignment is not active")
	}
	a.State = model.AssignmentReview
	a.EndAt = &end
	return nil
}

func (s *fakeAssignmentStore) Abort(id uuid.UUID) error {
	a, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if a.State != model.AssignmentActive && a.State != model.AssignmentReview {
		return apperror.WrongState("assignment cannot be aborted")
	}
	a.State = model.AssignmentAborted
	return nil
}

func (s *fakeAssignmentStore) AbortAndCopyToDraft(id uuid.UUID) (*model.ConceptAssignment, error) {
	a, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a.State != model.AssignmentActive && a.State != model.AssignmentReview {
		return nil, apperror.WrongState("assignment cannot be aborted")
	}
	a.State = model.AssignmentAborted

	draft := &model.ConceptAssignment{
		Name:          a.Name,
		State:         model.AssignmentDraft,
		Type:          a.Type,
		Description:   a.Description,
		PlotArea:      a.PlotArea,
		AllowedFloors: a.AllowedFloors,
		UsageDetails:  a.UsageDetails,
	}
	for _, q := range a.Questions {
		if q.Type == model.QuestionFile {
			continue
		}
		q.ID = uuid.New()
		draft.Questions = append(draft.Questions, q)
	}
	return s.add(draft), nil
}

type fakeCandidatureStore struct {
	items         map[uuid.UUID]*model.Candidature
	assignments   *fakeAssignmentStore
	notifications []model.Notification
}

func newFakeCandidatureStore(assignments *fakeAssignmentStore) *fakeCandidatureStore {
	return &fakeCandidatureStore{
		items:       map[uuid.UUID]*model.Candidature{},
		assignments: assignments,
	}
}

func (s *fakeCandidatureStore) add(c *model.Candidature) *model.Candidature {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.items[c.ID] = c
	return c
}

func (s *fakeCandidatureStore) Create(c *model.Candidature) error {
	for _, other := range s.items {
		if other.UserID == c.UserID && other.ConceptAssignmentID == c.ConceptAssignmentID {
			return apperror.Conflict("a candidature for this assignment already exists")
		}
	}
	s.add(c)
	return nil
}

func (s *fakeCandidatureStore) Save(c *model.Candidature) error {
	s.items[c.ID] = c
	return nil
}

func (s *fakeCandidatureStore) FindByID(id uuid.UUID) (*model.Candidature, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("candidature not found")
	}
	return c, nil
}

func (s *fakeCandidatureStore) FindByUserAndAssignment(userID, assignmentID uuid.UUID) (*model.Candidature, error) {
	for _, c := range s.items {
		if c.UserID == userID && c.ConceptAssignmentID == assignmentID {
			return c, nil
		}
	}
	return nil, apperror.NotFound("candidature not found")
}

func (s *fakeCandidatureStore) ListByAssignment(assignmentID uuid.UUID, states ...model.CandidatureState) ([]model.Candidature, error) {
	var out []model.Candidature
	for _, c := range s.items {
		if c.ConceptAssignmentID != assignmentID {
			continue
		}
		if len(states) == 0 {
			out = append(out, *c)
			continue
		}
		for _, st := range states {
			if c.State == st {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeCandidatureStore) ListByUser(userID uuid.UUID) ([]model.Candidature, error) {
	var out []model.Candidature
	for _, c := range s.items {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCandidatureStore) transition(id uuid.UUID, from, to model.CandidatureState) error {
	c, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if c.State != from {
		return apperror.WrongState("candidature is not in state %s", from)
	}
	c.State = to
	return nil
}

func (s *fakeCandidatureStore) Submit(id uuid.UUID) error {
	return s.transition(id, model.CandidatureDraft, model.CandidatureSubmitted)
}

func (s *fakeCandidatureStore) Revoke(id uuid.UUID) error {
	return s.transition(id, model.CandidatureSubmitted, model.CandidatureDraft)
}

func (s *fakeCandidatureStore) Reject(id uuid.UUID) error {
	if err := s.transition(id, model.CandidatureSubmitted, model.CandidatureRejected); err != nil {
		return err
	}
	c := s.items[id]
	s.notifications = append(s.notifications, model.Notification{
		UserID: c.UserID,
		Type:   model.NotificationCandidatureRejected,
	})
	return nil
}

// Grant mirrors the all-or-nothing transaction: guards are checked
// before anything mutates.
func (s *fakeCandidatureStore) Grant(id, assignmentID uuid.UUID) error {
	c, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if c.State != model.CandidatureSubmitted {
		return apperror.WrongState("candidature is not submitted")
	}
	a, err := s.assignments.FindByID(assignmentID)
	if err != nil {
		return err
	}
	if a.State != model.AssignmentReview {
		return apperror.WrongState("assignment is not in review")
	}

	c.State = model.CandidatureAccepted
	s.notifications = append(s.notifications, model.Notification{
		UserID: c.UserID,
		Type:   model.NotificationCandidatureGranted,
	})
	for _, other := range s.items {
		if other.ConceptAssignmentID == assignmentID && other.State == model.CandidatureSubmitted {
			other.State = model.CandidatureRejected
			s.notifications = append(s.notifications, model.Notification{
				UserID: other.UserID,
				Type:   model.NotificationCandidatureRejected,
			})
		}
	}
	a.State = model.AssignmentFinished
	return nil
}

func (s *fakeCandidatureStore) Rate(id uuid.UUID, rating int, comment string) error {
	c, err := s.FindByID(id)
	if err != nil {
		return err
	}
	c.Rating = &rating
	c.Comment = &comment
	return nil
}

func (s *fakeCandidatureStore) DeleteWithAttachments(id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *fakeCandidatureStore) notificationCount(t model.NotificationType) int {
	n := 0
	for _, notif := range s.notifications {
		if notif.Type == t {
			n++
		}
	}
	return n
}

type fakeAttachmentStore struct {
	items      map[uuid.UUID]*model.Attachment
	failCreate bool
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{items: map[uuid.UUID]*model.Attachment{}}
}

func (s *fakeAttachmentStore) Create(a *model.Attachment) error {
	if s.failCreate {
		return errors.New("insert failed")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.items[a.ID] = a
	return nil
}

func (s *fakeAttachmentStore) CreateMany(attachments []model.Attachment) error {
	if s.failCreate {
		return errors.New("insert failed")
	}
	for i := range attachments {
		att := attachments[i]
		s.items[att.ID] = &att
	}
	return nil
}

func (s *fakeAttachmentStore) FindByID(id uuid.UUID) (*model.Attachment, error) {
	a, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("attachment not found")
	}
	return a, nil
}

func (s *fakeAttachmentStore) ListByCandidature(candidatureID uuid.UUID) ([]model.Attachment, error) {
	var out []model.Attachment
	for _, a := range s.items {
		if a.CandidatureID != nil && *a.CandidatureID == candidatureID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAttachmentStore) ListByAssignment(assignmentID uuid.UUID) ([]model.Attachment, error) {
	var out []model.Attachment
	for _, a := range s.items {
		if a.ConceptAssignmentID != nil && *a.ConceptAssignmentID == assignmentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAttachmentStore) Delete(id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

type fakeParcelStore struct {
	parcels []model.Parcel
}

func (s *fakeParcelStore) Create(p *model.Parcel) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.parcels = append(s.parcels, *p)
	return nil
}

func (s *fakeParcelStore) FindByID(id uuid.UUID) (*model.Parcel, error) {
	for i := range s.parcels {
		if s.parcels[i].ID == id {
			return &s.parcels[i], nil
		}
	}
	return nil, apperror.NotFound("parcel not found")
}

func (s *fakeParcelStore) List(onlyUnassigned bool) ([]model.Parcel, error) {
	var out []model.Parcel
	for _, p := range s.parcels {
		if onlyUnassigned && p.ConceptAssignmentID != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeBlobStore struct {
	objects    map[string][]byte
	failUpload bool
	failDelete bool
	copyBudget int // negative means unlimited
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}, copyBudget: -1}
}

func (s *fakeBlobStore) Upload(key, contentType string, r io.Reader) error {
	if s.failUpload {
		return errors.New("upload failed")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeBlobStore) Download(key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no blob %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) Copy(srcKey, dstKey string) error {
	if s.copyBudget == 0 {
		return errors.New("copy failed")
	}
	if s.copyBudget > 0 {
		s.copyBudget--
	}
	data, ok := s.objects[srcKey]
	if !ok {
		return fmt.Errorf("no blob %s", srcKey)
	}
	s.objects[dstKey] = append([]byte(nil), data...)
	return nil
}

func (s *fakeBlobStore) Delete(key string) error {
	if s.failDelete {
		return errors.New("delete failed")
	}
	delete(s.objects, key)
	return nil
}

type fakeMessageStore struct {
	items         map[uuid.UUID]*model.Message
	notifications []model.Notification
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{items: map[uuid.UUID]*model.Message{}}
}

func (s *fakeMessageStore) Create(m *model.Message, notify *model.Notification) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.items[m.ID] = m
	if notify != nil {
		s.notifications = append(s.notifications, *notify)
	}
	return nil
}

func (s *fakeMessageStore) FindByID(id uuid.UUID) (*model.Message, error) {
	m, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("message not found")
	}
	return m, nil
}

func (s *fakeMessageStore) ListByCandidature(candidatureID uuid.UUID) ([]model.Message, error) {
	var out []model.Message
	for _, m := range s.items {
		if m.CandidatureID == candidatureID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) MarkSeen(id uuid.UUID, at time.Time) error {
	m, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if m.SeenAt == nil {
		m.SeenAt = &at
	}
	return nil
}

func (s *fakeMessageStore) CountUnseen(candidatureID uuid.UUID, direction model.MessageDirection) (int64, error) {
	var count int64
	for _, m := range s.items {
		if m.CandidatureID == candidatureID && m.Direction == direction && m.SeenAt == nil {
			count++
		}
	}
	return count, nil
}

type fakeUserStore struct {
	users  map[uuid.UUID]*model.User
	resets map[string]*model.PasswordReset
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:  map[uuid.UUID]*model.User{},
		resets: map[string]*model.PasswordReset{},
	}
}

func (s *fakeUserStore) Create(u *model.User) error {
	for _, other := range s.users {
		if other.Email == u.Email {
			return apperror.Conflict("email already registered")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return u, nil
}

func (s *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (s *fakeUserStore) UpdatePassword(id uuid.UUID, passwordHash string) error {
	u, err := s.FindByID(id)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) SaveUserData(data *model.UserData) error {
	u, err := s.FindByID(data.UserID)
	if err != nil {
		return err
	}
	u.UserData = data
	return nil
}

func (s *fakeUserStore) CreatePasswordReset(reset *model.PasswordReset) error {
	if reset.ID == uuid.Nil {
		reset.ID = uuid.New()
	}
	s.resets[reset.Token] = reset
	return nil
}

func (s *fakeUserStore) FindPasswordReset(token string) (*model.PasswordReset, error) {
	reset, ok := s.resets[token]
	if !ok {
		return nil, apperror.NotFound("password reset not found")
	}
	return reset, nil
}

func (s *fakeUserStore) MarkPasswordResetUsed(id uuid.UUID, at time.Time) error {
	for _, reset := range s.resets {
		if reset.ID == id {
			reset.UsedAt = &at
			return nil
		}
	}
	return apperror.NotFound("password reset not found")
}

type fakeNotificationStore struct {
	enqueued []model.Notification
}

func (s *fakeNotificationStore) Enqueue(n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	s.enqueued = append(s.enqueued, *n)
	return nil
}
