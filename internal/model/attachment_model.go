package model

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is the metadata row for a stored blob; the bytes live in
// the blob store under the attachment id. Exactly one of CandidatureID
// and ConceptAssignmentID is set.
type Attachment struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidatureID       *uuid.UUID `gorm:"type:uuid;index" json:"candidature_id,omitempty"`
	ConceptAssignmentID *uuid.UUID `gorm:"type:uuid;index" json:"concept_assignment_id,omitempty"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	ContentType         string     `gorm:"type:varchar(100)" json:"content_type"`
	Size                int64      `json:"size"`
	CreatedAt           time.Time  `json:"created_at"`
}
