package domain

import (
	"reflect"
	"testing"
)

func reviewDefinition() *WorkflowDefinition {
	return &WorkflowDefinition{
		ID:           "def-1",
		Name:         "document-review",
		InitialState: "draft",
		States: []StateDescriptor{
			{Name: "draft"},
			{Name: "pending_review"},
			{Name: "approved", IsFinal: true},
		},
		Transitions: []Transition{
			{From: "draft", To: "pending_review", Action: "submit"},
			{From: "pending_review", To: "approved", Action: "approve"},
			{From: "pending_review", To: "draft", Action: "reject"},
		},
		IsActive: true,
	}
}

func TestValidateTransition(t *testing.T) {
	def := reviewDefinition()

	if !def.ValidateTransition("draft", "pending_review", "submit") {
		t.Errorf("Expected exact triple to validate")
	}
	if def.ValidateTransition("draft", "approved", "submit") {
		t.Errorf("Partial match on (from, action) must not validate")
	}
	if def.ValidateTransition("", "pending_review", "submit") {
		t.Errorf("Empty from must never validate")
	}
	if def.ValidateTransition("draft", "", "submit") {
		t.Errorf("Empty to must never validate")
	}
	if def.ValidateTransition("draft", "pending_review", "") {
		t.Errorf("Empty action must never validate")
	}
}

func TestValidTransitions(t *testing.T) {
	def := reviewDefinition()

	got := def.ValidTransitions("pending_review")
	if len(got) != 2 {
		t.Fatalf("Expected 2 transitions from pending_review, got %d", len(got))
	}
	if got[0].Action != "approve" || got[1].Action != "reject" {
		t.Errorf("Transitions returned out of declaration order: %+v", got)
	}
}

func TestValidTransitionsSoftFailure(t *testing.T) {
	def := reviewDefinition()

	if got := def.ValidTransitions("no_such_state"); len(got) != 0 {
		t.Errorf("Unknown state should yield empty, got %+v", got)
	}
	if got := def.ValidTransitions(""); len(got) != 0 {
		t.Errorf("Empty state should yield empty, got %+v", got)
	}

	// malformed definitions degrade to "no transitions available"
	empty := &WorkflowDefinition{Name: "broken"}
	if got := empty.ValidTransitions("draft"); got == nil || len(got) != 0 {
		t.Errorf("Nil transitions should yield empty slice, got %+v", got)
	}
}

func TestStateNames(t *testing.T) {
	def := reviewDefinition()
	want := []string{"draft", "pending_review", "approved"}
	if got := def.StateNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("StateNames = %v, want %v", got, want)
	}

	// descriptors without a name are skipped, not an error
	def.States = append(def.States, StateDescriptor{Label: "nameless"})
	if got := def.StateNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("StateNames with nameless descriptor = %v, want %v", got, want)
	}
}

func TestIsFinalState(t *testing.T) {
	def := reviewDefinition()
	if !def.IsFinalState("approved") {
		t.Errorf("approved is flagged final")
	}
	if def.IsFinalState("draft") {
		t.Errorf("draft is not final")
	}
	if def.IsFinalState("no_such_state") {
		t.Errorf("undeclared state is not final")
	}

	// last state in sequence counts as final even without the flag
	def.States[2].IsFinal = false
	if !def.IsFinalState("approved") {
		t.Errorf("last state in sequence should count as final")
	}
}

func TestDefinitionValidate(t *testing.T) {
	if err := reviewDefinition().Validate(); err != nil {
		t.Fatalf("Valid definition rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*WorkflowDefinition)
	}{
		{"missing name", func(d *WorkflowDefinition) { d.Name = "" }},
		{"no states", func(d *WorkflowDefinition) { d.States = nil }},
		{"undeclared initial state", func(d *WorkflowDefinition) { d.InitialState = "missing" }},
		{"empty initial state", func(d *WorkflowDefinition) { d.InitialState = "" }},
		{"duplicate state name", func(d *WorkflowDefinition) {
			d.States = append(d.States, StateDescriptor{Name: "draft"})
		}},
		{"transition from undeclared state", func(d *WorkflowDefinition) {
			d.Transitions = append(d.Transitions, Transition{From: "ghost", To: "draft", Action: "haunt"})
		}},
		{"transition to undeclared state", func(d *WorkflowDefinition) {
			d.Transitions = append(d.Transitions, Transition{From: "draft", To: "ghost", Action: "haunt"})
		}},
		{"transition with empty action", func(d *WorkflowDefinition) {
			d.Transitions = append(d.Transitions, Transition{From: "draft", To: "approved"})
		}},
		{"ambiguous (from, action) pair", func(d *WorkflowDefinition) {
			d.Transitions = append(d.Transitions, Transition{From: "draft", To: "approved", Action: "submit"})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := reviewDefinition()
			tc.mutate(def)
			if err := def.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tc.name)
			}
		})
	}

	// an exact duplicate transition is tolerated, only conflicting targets are ambiguous
	def := reviewDefinition()
	def.Transitions = append(def.Transitions, Transition{From: "draft", To: "pending_review", Action: "submit"})
	if err := def.Validate(); err != nil {
		t.Errorf("Exact duplicate transition should be tolerated: %v", err)
	}
}
