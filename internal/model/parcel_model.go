package model

import (
	"time"

	"github.com/google/uuid"
)

type Parcel struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConceptAssignmentID *uuid.UUID `gorm:"type:uuid;index" json:"concept_assignment_id,omitempty"`
	Number              string     `gorm:"type:varchar(50);not null" json:"number"`
	Area                float64    `gorm:"type:float" json:"area"`
	Address             string     `gorm:"type:varchar(255)" json:"address"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
