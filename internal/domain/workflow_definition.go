package domain

import (
	"fmt"
	"time"
)

// StateDescriptor declares one state of a workflow definition.
type StateDescriptor struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	IsFinal     bool   `json:"is_final,omitempty"`
}

// Transition declares one permitted (from, to, action) triple.
type Transition struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Action string `json:"action"`
}

// WorkflowDefinition is the declarative template describing the states,
// transitions and business rules for a class of workflow. Instances are
// created from a definition and may only move along its transitions.
type WorkflowDefinition struct {
	ID             string
	Name           string
	Category       string
	InitialState   string
	States         []StateDescriptor
	Transitions    []Transition
	BusinessRules  map[string]any
	OrganizationID string
	IsActive       bool
	UsageCount     int64
	Created        time.Time
	Updated        time.Time
}

// ValidateTransition reports whether some declared transition matches all
// three fields exactly. Empty strings never match anything.
func (d *WorkflowDefinition) ValidateTransition(from, to, action string) bool {
	if from == "" || to == "" || action == "" {
		return false
	}
	for _, t := range d.Transitions {
		if t.From == from && t.To == to && t.Action == action {
			return true
		}
	}
	return false
}

// ValidTransitions returns the transitions leaving the given state. An
// unknown or empty state, or a definition with no transitions, yields an
// empty slice rather than an error so callers can surface a clean
// "no actions available" condition.
func (d *WorkflowDefinition) ValidTransitions(from string) []Transition {
	out := make([]Transition, 0)
	if from == "" {
		return out
	}
	for _, t := range d.Transitions {
		if t.From == from {
			out = append(out, t)
		}
	}
	return out
}

// StateNames returns the declared state names in sequence order. Descriptors
// without a name are skipped.
func (d *WorkflowDefinition) StateNames() []string {
	names := make([]string, 0, len(d.States))
	for _, s := range d.States {
		if s.Name == "" {
			continue
		}
		names = append(names, s.Name)
	}
	return names
}

// StateIndex returns the position of the named state within the declared
// sequence, or -1 when it is not declared.
func (d *WorkflowDefinition) StateIndex(name string) int {
	for i, n := range d.StateNames() {
		if n == name {
			return i
		}
	}
	return -1
}

// IsFinalState reports whether the named state terminates the workflow,
// either via its is_final flag or by being the last state in sequence.
func (d *WorkflowDefinition) IsFinalState(name string) bool {
	names := d.StateNames()
	for _, s := range d.States {
		if s.Name == name {
			if s.IsFinal {
				return true
			}
			return len(names) > 0 && names[len(names)-1] == name
		}
	}
	return false
}

func (d *WorkflowDefinition) hasState(name string) bool {
	return d.StateIndex(name) >= 0
}

// Validate checks the structural invariants of a definition before it is
// persisted: at least one state, a declared initial state, transition
// endpoints referencing declared states, and no duplicate (from, action)
// pair resolving to different target states.
func (d *WorkflowDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("definition name is required")
	}
	if len(d.StateNames()) == 0 {
		return fmt.Errorf("definition %q declares no states", d.Name)
	}
	seen := make(map[string]bool)
	for _, s := range d.States {
		if s.Name == "" {
			continue
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate state %q", s.Name)
		}
		seen[s.Name] = true
	}
	if d.InitialState == "" {
		return fmt.Errorf("definition %q has no initial state", d.Name)
	}
	if !d.hasState(d.InitialState) {
		return fmt.Errorf("initial state %q is not a declared state", d.InitialState)
	}
	targets := make(map[string]string) // "from\x00action" -> to
	for _, t := range d.Transitions {
		if t.From == "" || t.To == "" || t.Action == "" {
			return fmt.Errorf("transition %q -> %q (action %q) has empty fields", t.From, t.To, t.Action)
		}
		if !d.hasState(t.From) {
			return fmt.Errorf("transition from undeclared state %q", t.From)
		}
		if !d.hasState(t.To) {
			return fmt.Errorf("transition to undeclared state %q", t.To)
		}
		key := t.From + "\x00" + t.Action
		if prev, ok := targets[key]; ok && prev != t.To {
			return fmt.Errorf("ambiguous action %q from state %q: targets both %q and %q", t.Action, t.From, prev, t.To)
		}
		targets[key] = t.To
	}
	return nil
}
