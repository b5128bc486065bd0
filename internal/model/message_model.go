package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageDirection string

const (
	MessageAdminToUser MessageDirection = "ADMIN_TO_USER"
	MessageUserToAdmin MessageDirection = "USER_TO_ADMIN"
)

type Message struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidatureID uuid.UUID        `gorm:"type:uuid;not null;index" json:"candidature_id"`
	Direction     MessageDirection `gorm:"type:varchar(20);not null" json:"direction"`
	Body          *string          `gorm:"type:text" json:"body,omitempty"`
	AttachmentID  *uuid.UUID       `gorm:"type:uuid" json:"attachment_id,omitempty"`
	SeenAt        *time.Time       `json:"seen_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
