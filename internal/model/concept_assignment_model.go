package model

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentState string

type AssignmentType string

const (
	AssignmentDraft    AssignmentState = "DRAFT"
	AssignmentWaiting  AssignmentState = "WAITING"
	AssignmentActive   AssignmentState = "ACTIVE"
	AssignmentReview   AssignmentState = "REVIEW"
	AssignmentFinished AssignmentState = "FINISHED"
	AssignmentAborted  AssignmentState = "ABORTED"

	AssignmentTypeAnchor   AssignmentType = "ANCHOR"
	AssignmentTypeAnlieger AssignmentType = "ANLIEGER"
)

type ConceptAssignment struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	State          AssignmentState `gorm:"type:varchar(20);not null;default:DRAFT;index" json:"state"`
	Type           AssignmentType  `gorm:"type:varchar(20);not null" json:"type"`
	Description    string          `gorm:"type:text" json:"description"`
	PlotArea       float64         `gorm:"type:float" json:"plot_area"`
	AllowedFloors  int             `json:"allowed_floors"`
	UsageDetails   string          `gorm:"type:text" json:"usage_details"`
	PreviewImageID *uuid.UUID      `gorm:"type:uuid" json:"preview_image_id,omitempty"`
	StartAt        *time.Time      `json:"start_at,omitempty"`
	EndAt          *time.Time      `json:"end_at,omitempty"`
	Parcels        []Parcel        `gorm:"foreignKey:ConceptAssignmentID" json:"parcels,omitempty"`
	Questions      []Question      `gorm:"foreignKey:ConceptAssignmentID" json:"questions,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (a *ConceptAssignment) TableName() string {
	return "concept_assignments"
}

// StateAfterStart decides whether a freshly started assignment goes
// live immediately or waits for its window to open.
func StateAfterStart(start, now time.Time) AssignmentState {
	if !start.After(now) {
		return AssignmentActive
	}
	return AssignmentWaiting
}
