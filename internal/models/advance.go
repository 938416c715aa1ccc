package models

// AdvanceRequest asks the engine to apply one named action to an instance.
type AdvanceRequest struct {
	Action         string         `json:"action" validate:"required"`
	UserID         string         `json:"userId" validate:"required"`
	Comment        string         `json:"comment"`
	Data           map[string]any `json:"data,omitempty"`
	ContextUpdates map[string]any `json:"contextUpdates,omitempty"`
}

type AdvanceResponse struct {
	ID                 string `json:"id"`
	CurrentState       string `json:"currentState"`
	Status             string `json:"status"`
	ProgressPercentage int    `json:"progressPercentage"`
}
