package dto

import "github.com/google/uuid"

type CreateCandidatureRequest struct {
	ConceptAssignmentID uuid.UUID `json:"concept_assignment_id"`
}

type EditCandidatureRequest struct {
	Description string         `json:"description"`
	Answers     map[string]any `json:"answers"`
}

type RateCandidatureRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
