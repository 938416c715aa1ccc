package models

import "time"

// SearchInstancesRequest filters a user's workflow instances. Pagination is
// deterministic: results are ordered by created descending, id descending.
type SearchInstancesRequest struct {
	AssignedTo     string `json:"assignedTo"`
	OrganizationID string `json:"organizationId"`
	Status         string `json:"status"`
	Limit          int64  `json:"limit"`
	Offset         int64  `json:"offset"`
}

// WorkflowSummary is the per-instance row returned by list queries.
type WorkflowSummary struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	EntityID           string    `json:"entityId"`
	CurrentState       string    `json:"currentState"`
	Status             string    `json:"status"`
	ProgressPercentage int       `json:"progressPercentage"`
	Created            time.Time `json:"created"`
}

type SearchInstancesResponse struct {
	Results   int               `json:"results"`
	Workflows []WorkflowSummary `json:"workflows"`
	Offset    int64             `json:"offset"`
}
