package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stateflowhq/stateflow/internal/domain"
)

func testDefinition() *domain.WorkflowDefinition {
	return &domain.WorkflowDefinition{
		ID:           "def-1",
		Name:         "document-review",
		InitialState: "draft",
		States: []domain.StateDescriptor{
			{Name: "draft"},
			{Name: "pending_review"},
			{Name: "approved", IsFinal: true},
		},
		Transitions: []domain.Transition{
			{From: "draft", To: "pending_review", Action: "submit"},
			{From: "pending_review", To: "approved", Action: "approve"},
			{From: "pending_review", To: "draft", Action: "reject"},
		},
		IsActive: true,
	}
}

func TestStateMachineFire(t *testing.T) {
	def := testDefinition()
	wf := &domain.WorkflowInstance{CurrentState: "draft"}
	sm := newStateMachine(def, wf)

	tr, err := sm.Fire("submit")
	if err != nil {
		t.Fatalf("Fire(submit) returned error: %v", err)
	}
	if tr.To != "pending_review" {
		t.Errorf("Fire(submit) resolved to %q, want pending_review", tr.To)
	}
}

func TestStateMachineFireNotAllowed(t *testing.T) {
	def := testDefinition()
	wf := &domain.WorkflowInstance{CurrentState: "draft"}
	sm := newStateMachine(def, wf)

	_, err := sm.Fire("approve")
	if !errors.Is(err, errTransitionNotAllowed) {
		t.Fatalf("Fire(approve) from draft: got %v, want errTransitionNotAllowed", err)
	}
}

func TestStateMachineCanFire(t *testing.T) {
	def := testDefinition()
	sm := newStateMachine(def, &domain.WorkflowInstance{CurrentState: "pending_review"})

	if !sm.CanFire("approve") {
		t.Errorf("approve should be permitted from pending_review")
	}
	if sm.CanFire("submit") {
		t.Errorf("submit should not be permitted from pending_review")
	}
}

func TestStateMachinePermittedActions(t *testing.T) {
	def := testDefinition()
	sm := newStateMachine(def, &domain.WorkflowInstance{CurrentState: "pending_review"})

	want := []string{"approve", "reject"}
	if got := sm.PermittedActions(); !reflect.DeepEqual(got, want) {
		t.Errorf("PermittedActions = %v, want %v", got, want)
	}
}

func TestStateMachineSkipsMalformedTransitions(t *testing.T) {
	def := testDefinition()
	def.Transitions = append(def.Transitions, domain.Transition{From: "draft", To: "", Action: "broken"})
	sm := newStateMachine(def, &domain.WorkflowInstance{CurrentState: "draft"})

	if sm.CanFire("broken") {
		t.Errorf("Transition with empty target must not be loaded into the table")
	}
}
