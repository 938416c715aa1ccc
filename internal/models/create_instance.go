package models

import "time"

// CreateInstanceRequest is the payload for starting a workflow instance
// from an active definition.
type CreateInstanceRequest struct {
	DefinitionID   string         `json:"definitionId" validate:"required"`
	EntityID       string         `json:"entityId" validate:"required"`
	EntityType     string         `json:"entityType"`
	Title          string         `json:"title"`
	Context        map[string]any `json:"context,omitempty"`
	AssignedTo     string         `json:"assignedTo"`
	OrganizationID string         `json:"organizationId"`
	CreatedBy      string         `json:"createdBy"`
	DueDate        *time.Time     `json:"dueDate,omitempty"`
}

type CreateInstanceResponse struct {
	ID           string `json:"id"`
	CurrentState string `json:"currentState"`
	Status       string `json:"status"`
}
