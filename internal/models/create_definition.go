package models

import (
	"time"

	"github.com/stateflowhq/stateflow/internal/domain"
)

// CreateDefinitionRequest is the payload for registering a workflow definition.
type CreateDefinitionRequest struct {
	Name           string                   `json:"name" validate:"required"`
	Category       string                   `json:"category"`
	InitialState   string                   `json:"initialState" validate:"required"`
	States         []domain.StateDescriptor `json:"states" validate:"required,min=1"`
	Transitions    []domain.Transition      `json:"transitions"`
	BusinessRules  map[string]any           `json:"businessRules,omitempty"`
	OrganizationID string                   `json:"organizationId"`
}

type CreateDefinitionResponse struct {
	ID string `json:"id"`
}

// DefinitionApiResponse represents the API view of a workflow definition.
type DefinitionApiResponse struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Category       string                   `json:"category"`
	InitialState   string                   `json:"initialState"`
	States         []domain.StateDescriptor `json:"states"`
	Transitions    []domain.Transition      `json:"transitions"`
	BusinessRules  map[string]any           `json:"businessRules,omitempty"`
	OrganizationID string                   `json:"organizationId"`
	IsActive       bool                     `json:"isActive"`
	UsageCount     int64                    `json:"usageCount"`
	Created        time.Time                `json:"created"`
	Updated        time.Time                `json:"updated"`
}

type SetDefinitionActiveRequest struct {
	Active bool `json:"active"`
}
