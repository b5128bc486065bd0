package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationCandidatureGranted  NotificationType = "CANDIDATURE_GRANTED"
	NotificationCandidatureRejected NotificationType = "CANDIDATURE_REJECTED"
	NotificationNewMessage          NotificationType = "NEW_MESSAGE"
	NotificationPasswordReset       NotificationType = "PASSWORD_RESET"
)

// Notification is an outbox row: written in the same transaction as the
// state change that caused it, deleted by the flush job after a single
// delivery attempt.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Data      datatypes.JSON   `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
