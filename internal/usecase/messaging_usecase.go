package usecase

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/service"
)

type MessageStore interface {
	Create(m *model.Message, notify *model.Notification) error
	FindByID(id uuid.UUID) (*model.Message, error)
	ListByCandidature(candidatureID uuid.UUID) ([]model.Message, error)
	MarkSeen(id uuid.UUID, at time.Time) error
	CountUnseen(candidatureID uuid.UUID, direction model.MessageDirection) (int64, error)
}

type MessagingUsecase struct {
	messages     MessageStore
	candidatures CandidatureStore
	attachments  AttachmentStore
	blobs        service.BlobStore
	clock        func() time.Time
}

func NewMessagingUsecase(messages MessageStore, candidatures CandidatureStore, attachments AttachmentStore, blobs service.BlobStore) *MessagingUsecase {
	return &MessagingUsecase{
		messages:     messages,
		candidatures: candidatures,
		attachments:  attachments,
		blobs:        blobs,
		clock:        time.Now,
	}
}

// SendText posts a message on the candidature thread. Admin messages
// enqueue a new-message notification for the candidate.
func (uc *MessagingUsecase) SendText(actorID uuid.UUID, candidatureID uuid.UUID, direction model.MessageDirection, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperror.Validation("message body must not be blank")
	}
	c, err := uc.thread(actorID, candidatureID, direction)
	if err != nil {
		return nil, err
	}
	m := &model.Message{
		CandidatureID: candidatureID,
		Direction:     direction,
		Body:          &body,
	}
	if err := uc.messages.Create(m, newMessageNotification(c, direction)); err != nil {
		return nil, err
	}
	return m, nil
}

// SendAttachment stores the blob, then metadata, then the message row
// referencing it. Blob compensation mirrors the attachment uploads.
func (uc *MessagingUsecase) SendAttachment(actorID uuid.UUID, candidatureID uuid.UUID, direction model.MessageDirection, name, contentType string, size int64, r io.Reader) (*model.Message, error) {
	c, err := uc.thread(actorID, candidatureID, direction)
	if err != nil {
		return nil, err
	}
	att := &model.Attachment{
		ID:            uuid.New(),
		CandidatureID: &candidatureID,
		Name:          name,
		ContentType:   contentType,
		Size:          size,
	}
	if err := uc.blobs.Upload(att.ID.String(), contentType, r); err != nil {
		return nil, apperror.Internal("could not store message attachment", err)
	}
	if err := uc.attachments.Create(att); err != nil {
		_ = uc.blobs.Delete(att.ID.String())
		return nil, apperror.Internal("could not store message attachment metadata", err)
	}
	m := &model.Message{
		CandidatureID: candidatureID,
		Direction:     direction,
		AttachmentID:  &att.ID,
	}
	if err := uc.messages.Create(m, newMessageNotification(c, direction)); err != nil {
		return nil, err
	}
	return m, nil
}

func (uc *MessagingUsecase) List(actorID uuid.UUID, candidatureID uuid.UUID, asAdmin bool) ([]model.Message, error) {
	c, err := uc.candidatures.FindByID(candidatureID)
	if err != nil {
		return nil, err
	}
	if !asAdmin && c.UserID != actorID {
		return nil, apperror.NotFound("candidature not found")
	}
	return uc.messages.ListByCandidature(candidatureID)
}

// MarkSeen is only legal for the receiving side of the message.
func (uc *MessagingUsecase) MarkSeen(actorID uuid.UUID, messageID uuid.UUID, asAdmin bool) error {
	m, err := uc.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	c, err := uc.candidatures.FindByID(m.CandidatureID)
	if err != nil {
		return err
	}
	if asAdmin {
		if m.Direction != model.MessageUserToAdmin {
			return apperror.WrongState("only the recipient can mark a message as seen")
		}
	} else {
		if c.UserID != actorID {
			return apperror.NotFound("message not found")
		}
		if m.Direction != model.MessageAdminToUser {
			return apperror.WrongState("only the recipient can mark a message as seen")
		}
	}
	return uc.messages.MarkSeen(messageID, uc.clock())
}

func (uc *MessagingUsecase) UnseenCount(candidatureID uuid.UUID, direction model.MessageDirection) (int64, error) {
	return uc.messages.CountUnseen(candidatureID, direction)
}

// thread loads the candidature and checks the sender may post in the
// given direction.
func (uc *MessagingUsecase) thread(actorID uuid.UUID, candidatureID uuid.UUID, direction model.MessageDirection) (*model.Candidature, error) {
	c, err := uc.candidatures.FindByID(candidatureID)
	if err != nil {
		return nil, err
	}
	if direction == model.MessageUserToAdmin && c.UserID != actorID {
		return nil, apperror.NotFound("candidature not found")
	}
	return c, nil
}

// newMessageNotification targets the candidate for admin messages; the
// project group polls its inbox and gets no email.
func newMessageNotification(c *model.Candidature, direction model.MessageDirection) *model.Notification {
	if direction != model.MessageAdminToUser {
		return nil
	}
	data, _ := json.Marshal(map[string]string{"candidature_id": c.ID.String()})
	return &model.Notification{
		UserID: c.UserID,
		Type:   model.NotificationNewMessage,
		Data:   data,
	}
}
