package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionText     QuestionType = "TEXT"
	QuestionNumber   QuestionType = "NUMBER"
	QuestionCheckbox QuestionType = "CHECKBOX"
	QuestionFile     QuestionType = "FILE"
)

type Question struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConceptAssignmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"concept_assignment_id"`
	Text                string         `gorm:"type:text;not null" json:"text"`
	Type                QuestionType   `gorm:"type:varchar(20);not null" json:"type"`
	Required            bool           `gorm:"default:false" json:"required"`
	Options             datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`
	Position            int            `gorm:"not null;default:0" json:"position"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
