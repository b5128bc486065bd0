package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AssignmentRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	PlotArea      float64 `json:"plot_area"`
	AllowedFloors int     `json:"allowed_floors"`
	UsageDetails  string  `json:"usage_details"`
}

type StartAssignmentRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type QuestionRequest struct {
	Text     string         `json:"text"`
	Type     string         `json:"type"`
	Required bool           `json:"required"`
	Options  datatypes.JSON `json:"options,omitempty"`
	Position int            `json:"position"`
}

type AssignParcelsRequest struct {
	ParcelIDs []uuid.UUID `json:"parcel_ids"`
}

type ParcelRequest struct {
	Number  string  `json:"number"`
	Area    float64 `json:"area"`
	Address string  `json:"address"`
}
