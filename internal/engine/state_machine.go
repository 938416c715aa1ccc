package engine

import (
	"fmt"

	"github.com/stateflowhq/stateflow/internal/domain"
)

type transitionKey struct {
	state  string
	action string
}

// stateMachine binds the declarative transitions of one definition to the
// concrete state of one instance. It is built per call and never persisted;
// action dispatch is a table lookup keyed by (current state, action).
type stateMachine struct {
	def      *domain.WorkflowDefinition
	instance *domain.WorkflowInstance
	table    map[transitionKey]domain.Transition
}

func newStateMachine(def *domain.WorkflowDefinition, instance *domain.WorkflowInstance) *stateMachine {
	table := make(map[transitionKey]domain.Transition, len(def.Transitions))
	for _, t := range def.Transitions {
		if t.From == "" || t.To == "" || t.Action == "" {
			continue
		}
		key := transitionKey{state: t.From, action: t.Action}
		// first declaration wins; conflicting duplicates are rejected at
		// definition save time
		if _, ok := table[key]; ok {
			continue
		}
		table[key] = t
	}
	return &stateMachine{def: def, instance: instance, table: table}
}

// Fire resolves the transition for the given action from the instance's
// current state. It performs no persistence; the engine remains the sole
// writer.
func (m *stateMachine) Fire(action string) (domain.Transition, error) {
	t, ok := m.table[transitionKey{state: m.instance.CurrentState, action: action}]
	if !ok {
		return domain.Transition{}, fmt.Errorf("%w: action %q from state %q", errTransitionNotAllowed, action, m.instance.CurrentState)
	}
	return t, nil
}

// CanFire reports whether the action is permitted in the current state.
func (m *stateMachine) CanFire(action string) bool {
	_, ok := m.table[transitionKey{state: m.instance.CurrentState, action: action}]
	return ok
}

// PermittedActions returns the actions that can be fired from the
// instance's current state, in declaration order.
func (m *stateMachine) PermittedActions() []string {
	return m.instance.AvailableActions(m.def)
}
