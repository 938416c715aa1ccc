package domain

import (
	"database/sql"
	"time"
)

// Trigger types recorded on history rows.
const (
	TriggerManual    = "manual"
	TriggerSystem    = "system"
	TriggerScheduled = "scheduled"
)

// ActionCreate is the action recorded on the first history row of every
// instance, with a null from_state.
const ActionCreate = "create"

// WorkflowHistory is one row of the append-only ledger of transitions
// applied to an instance, ordered by creation time.
type WorkflowHistory struct {
	ID            int64
	InstanceID    string
	FromState     sql.NullString // null denotes the creation event
	ToState       string
	Action        string
	TriggeredBy   string
	TriggerType   string
	Comment       string
	WasSuccessful bool
	Created       time.Time
}
