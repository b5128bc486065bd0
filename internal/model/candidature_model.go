package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CandidatureState string

const (
	CandidatureDraft     CandidatureState = "DRAFT"
	CandidatureSubmitted CandidatureState = "SUBMITTED"
	CandidatureAccepted  CandidatureState = "ACCEPTED"
	CandidatureRejected  CandidatureState = "REJECTED"
)

type Candidature struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID              uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_candidature_user_assignment" json:"user_id"`
	ConceptAssignmentID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_candidature_user_assignment" json:"concept_assignment_id"`
	State               CandidatureState  `gorm:"type:varchar(20);not null;default:DRAFT;index" json:"state"`
	Description         string            `gorm:"type:text" json:"description"`
	Answers             datatypes.JSONMap `gorm:"type:jsonb" json:"answers"`
	Rating              *int              `json:"rating,omitempty"`
	Comment             *string           `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func (c *Candidature) TableName() string {
	return "candidatures"
}

// AnswerFor returns the stored answer for a question as a string, empty
// when absent.
func (c *Candidature) AnswerFor(questionID uuid.UUID) string {
	if c.Answers == nil {
		return ""
	}
	v, ok := c.Answers[questionID.String()]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
