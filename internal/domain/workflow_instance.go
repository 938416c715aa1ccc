package domain

import (
	"database/sql"
	"math"
	"time"
)

// Instance statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
)

// WorkflowInstance is one running execution of a WorkflowDefinition,
// tracking a single external business entity. Instances are only mutated
// through the engine; they are never deleted, only marked completed or
// cancelled.
type WorkflowInstance struct {
	ID                 string
	DefinitionID       string
	EntityID           string
	EntityType         string
	Title              string
	CurrentState       string
	Status             string
	ContextData        map[string]any
	ProgressPercentage int
	AssignedTo         string
	OrganizationID     string
	CreatedBy          string
	StartedAt          time.Time
	CompletedAt        sql.NullTime
	DueDate            sql.NullTime
	Created            time.Time
	Modified           time.Time
}

// AvailableActions returns the action names leaving the current state,
// as declared by the owning definition.
func (w *WorkflowInstance) AvailableActions(def *WorkflowDefinition) []string {
	transitions := def.ValidTransitions(w.CurrentState)
	actions := make([]string, 0, len(transitions))
	for _, t := range transitions {
		actions = append(actions, t.Action)
	}
	return actions
}

// CanTransitionTo reports whether the owning definition permits moving from
// the current state to the target state via the given action.
func (w *WorkflowInstance) CanTransitionTo(def *WorkflowDefinition, to, action string) bool {
	return def.ValidateTransition(w.CurrentState, to, action)
}

// ContextValue reads one key from the context payload. The second return
// value is false when the key is absent or the payload is nil.
func (w *WorkflowInstance) ContextValue(key string) (any, bool) {
	if w.ContextData == nil {
		return nil, false
	}
	v, ok := w.ContextData[key]
	return v, ok
}

// SetContextValue writes one key into the context payload, initializing the
// payload if it has never been set.
func (w *WorkflowInstance) SetContextValue(key string, value any) {
	if w.ContextData == nil {
		w.ContextData = make(map[string]any)
	}
	w.ContextData[key] = value
}

// MergeContext applies the given updates on top of the context payload.
func (w *WorkflowInstance) MergeContext(updates map[string]any) {
	for k, v := range updates {
		w.SetContextValue(k, v)
	}
}

// UpdateProgress recomputes progress from the instance's position in the
// definition's state sequence: 0 at the initial state, 100 at the last,
// intermediate states apportioned evenly. When the current state is not
// declared the previous value is left untouched.
func (w *WorkflowInstance) UpdateProgress(def *WorkflowDefinition) {
	idx := def.StateIndex(w.CurrentState)
	if idx < 0 {
		return
	}
	n := len(def.StateNames())
	span := n - 1
	if span < 1 {
		span = 1
	}
	pct := int(math.Round(100 * float64(idx) / float64(span)))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	w.ProgressPercentage = pct
}

// Duration returns how long the instance has been (or was) running.
func (w *WorkflowInstance) Duration(now time.Time) time.Duration {
	end := now
	if w.CompletedAt.Valid {
		end = w.CompletedAt.Time
	}
	return end.Sub(w.StartedAt)
}

// IsOverdue reports whether an active instance has passed its due date.
func (w *WorkflowInstance) IsOverdue(now time.Time) bool {
	return w.Status == StatusActive && w.DueDate.Valid && w.DueDate.Time.Before(now)
}
