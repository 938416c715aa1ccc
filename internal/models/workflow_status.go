package models

import "time"

// HistoryEntry is one transition from the instance's audit ledger as
// returned over the API, newest first.
type HistoryEntry struct {
	FromState     *string   `json:"fromState"`
	ToState       string    `json:"toState"`
	Action        string    `json:"action"`
	TriggeredBy   string    `json:"triggeredBy"`
	TriggerType   string    `json:"triggerType"`
	Comment       string    `json:"comment,omitempty"`
	WasSuccessful bool      `json:"wasSuccessful"`
	Created       time.Time `json:"created"`
}

// WorkflowStatus is the full derived view of one instance.
type WorkflowStatus struct {
	ID                 string         `json:"id"`
	DefinitionID       string         `json:"definitionId"`
	EntityID           string         `json:"entityId"`
	EntityType         string         `json:"entityType,omitempty"`
	Title              string         `json:"title"`
	CurrentState       string         `json:"currentState"`
	PreviousState      *string        `json:"previousState"`
	Status             string         `json:"status"`
	ProgressPercentage int            `json:"progressPercentage"`
	AvailableActions   []string       `json:"availableActions"`
	ContextData        map[string]any `json:"contextData,omitempty"`
	AssignedTo         string         `json:"assignedTo,omitempty"`
	IsOverdue          bool           `json:"isOverdue"`
	StartedAt          time.Time      `json:"startedAt"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	DueDate            *time.Time     `json:"dueDate,omitempty"`
	Created            time.Time      `json:"created"`
	History            []HistoryEntry `json:"history"`
}
