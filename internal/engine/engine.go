package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stateflowhq/stateflow/internal/config"
	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/internal/models"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// WorkflowEngine is the only component permitted to mutate instances and
// history; every transition flows through it. Create and Advance each run
// inside a single database transaction supplied by the Store.
type WorkflowEngine struct {
	store Store
	clock core.Clock
}

func NewWorkflowEngine(store Store, clock core.Clock) *WorkflowEngine {
	return &WorkflowEngine{store: store, clock: clock}
}

// CreateDefinition validates and persists a new workflow definition.
func (e *WorkflowEngine) CreateDefinition(ctx context.Context, req models.CreateDefinitionRequest) (*domain.WorkflowDefinition, error) {
	now := e.clock.Now().UTC()
	def := &domain.WorkflowDefinition{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Category:       req.Category,
		InitialState:   req.InitialState,
		States:         req.States,
		Transitions:    req.Transitions,
		BusinessRules:  req.BusinessRules,
		OrganizationID: req.OrganizationID,
		IsActive:       true,
		Created:        now,
		Updated:        now,
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := e.store.Repos().Definitions.Save(ctx, def); err != nil {
		return nil, fmt.Errorf("save definition: %w", err)
	}
	slog.InfoContext(ctx, "Created workflow definition", "definition_id", def.ID, "name", def.Name)
	return def, nil
}

// GetDefinition fetches one definition by id.
func (e *WorkflowEngine) GetDefinition(ctx context.Context, definitionID string) (*domain.WorkflowDefinition, error) {
	if _, err := uuid.Parse(definitionID); err != nil {
		return nil, fmt.Errorf("%w: definition id %q", ErrInvalidID, definitionID)
	}
	def, err := e.store.Repos().Definitions.FindByID(ctx, definitionID)
	if err != nil {
		return nil, fmt.Errorf("find definition: %w", err)
	}
	if def == nil {
		return nil, ErrDefinitionNotFound
	}
	return def, nil
}

// ListDefinitions returns definitions, optionally scoped to an organization
// and to active ones only.
func (e *WorkflowEngine) ListDefinitions(ctx context.Context, organizationID string, onlyActive bool) ([]domain.WorkflowDefinition, error) {
	return e.store.Repos().Definitions.FindAll(ctx, organizationID, onlyActive)
}

// SetDefinitionActive flips the soft-active flag; inactive definitions
// cannot be instantiated.
func (e *WorkflowEngine) SetDefinitionActive(ctx context.Context, definitionID string, active bool) error {
	if _, err := uuid.Parse(definitionID); err != nil {
		return fmt.Errorf("%w: definition id %q", ErrInvalidID, definitionID)
	}
	err := e.store.Repos().Definitions.SetActive(ctx, definitionID, active)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDefinitionNotFound
	}
	return err
}

// CreateInstance starts a new workflow instance from an active definition,
// seeding the initial state, the first history row and the definition usage
// counter in one transaction.
func (e *WorkflowEngine) CreateInstance(ctx context.Context, req models.CreateInstanceRequest) (*domain.WorkflowInstance, error) {
	if _, err := uuid.Parse(req.DefinitionID); err != nil {
		return nil, fmt.Errorf("%w: definition id %q", ErrInvalidID, req.DefinitionID)
	}

	var instance *domain.WorkflowInstance
	err := e.store.InTx(ctx, func(r Repos) error {
		def, err := r.Definitions.FindByID(ctx, req.DefinitionID)
		if err != nil {
			return fmt.Errorf("find definition: %w", err)
		}
		if def == nil || !def.IsActive {
			return ErrDefinitionNotFound
		}

		title := req.Title
		if title == "" {
			title = fmt.Sprintf("Workflow for %s", req.EntityID)
		}

		now := e.clock.Now().UTC()
		wf := &domain.WorkflowInstance{
			ID:             uuid.NewString(),
			DefinitionID:   def.ID,
			EntityID:       req.EntityID,
			EntityType:     req.EntityType,
			Title:          title,
			CurrentState:   def.InitialState,
			Status:         domain.StatusActive,
			ContextData:    req.Context,
			AssignedTo:     req.AssignedTo,
			OrganizationID: req.OrganizationID,
			CreatedBy:      req.CreatedBy,
			StartedAt:      now,
			Created:        now,
			Modified:       now,
		}
		if req.DueDate != nil {
			wf.DueDate = sql.NullTime{Time: req.DueDate.UTC(), Valid: true}
		}
		wf.UpdateProgress(def)

		if err := r.Instances.Save(ctx, wf); err != nil {
			return fmt.Errorf("save instance: %w", err)
		}

		triggeredBy := req.CreatedBy
		if triggeredBy == "" {
			triggeredBy = "system"
		}
		if _, err := r.History.Save(ctx, &domain.WorkflowHistory{
			InstanceID:    wf.ID,
			FromState:     sql.NullString{},
			ToState:       def.InitialState,
			Action:        domain.ActionCreate,
			TriggeredBy:   triggeredBy,
			TriggerType:   domain.TriggerManual,
			WasSuccessful: true,
			Created:       now,
		}); err != nil {
			return fmt.Errorf("save history: %w", err)
		}

		if err := r.Definitions.IncrementUsageCount(ctx, def.ID); err != nil {
			return fmt.Errorf("increment usage count: %w", err)
		}

		instance = wf
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Created workflow instance",
		"instance_id", instance.ID, "definition_id", instance.DefinitionID, "entity_id", instance.EntityID)
	return instance, nil
}

// Advance applies one named action to an active instance: it resolves the
// target state through the definition's transition table, merges any context
// updates, recomputes progress and appends a history row. Reaching a final
// state marks the instance completed. All mutations commit atomically.
func (e *WorkflowEngine) Advance(ctx context.Context, instanceID string, req models.AdvanceRequest) (*domain.WorkflowInstance, error) {
	if _, err := uuid.Parse(instanceID); err != nil {
		return nil, fmt.Errorf("%w: instance id %q", ErrInvalidID, instanceID)
	}

	var instance *domain.WorkflowInstance
	err := e.store.InTx(ctx, func(r Repos) error {
		wf, err := r.Instances.FindByID(ctx, instanceID)
		if err != nil {
			return fmt.Errorf("find instance: %w", err)
		}
		if wf == nil {
			return ErrInstanceNotFound
		}
		if wf.Status != domain.StatusActive {
			return fmt.Errorf("%w: status is %q", ErrNotActive, wf.Status)
		}

		def, err := r.Definitions.FindByID(ctx, wf.DefinitionID)
		if err != nil {
			return fmt.Errorf("find definition: %w", err)
		}
		if def == nil {
			return fmt.Errorf("%w: definition %s for instance %s", ErrDefinitionNotFound, wf.DefinitionID, wf.ID)
		}

		sm := newStateMachine(def, wf)
		transition, err := sm.Fire(req.Action)
		if err != nil {
			return fmt.Errorf("%w: %q (available: %v)", ErrActionNotAvailable, req.Action, sm.PermittedActions())
		}

		fromState := wf.CurrentState
		wf.CurrentState = transition.To
		wf.MergeContext(req.Data)
		wf.MergeContext(req.ContextUpdates)
		wf.UpdateProgress(def)

		now := e.clock.Now().UTC()
		if def.IsFinalState(transition.To) {
			wf.Status = domain.StatusCompleted
			wf.CompletedAt = sql.NullTime{Time: now, Valid: true}
		}

		if err := r.Instances.UpdateAfterTransition(ctx, wf); err != nil {
			return fmt.Errorf("update instance: %w", err)
		}

		if _, err := r.History.Save(ctx, &domain.WorkflowHistory{
			InstanceID:    wf.ID,
			FromState:     sql.NullString{String: fromState, Valid: true},
			ToState:       transition.To,
			Action:        req.Action,
			TriggeredBy:   req.UserID,
			TriggerType:   domain.TriggerManual,
			Comment:       req.Comment,
			WasSuccessful: true,
			Created:       now,
		}); err != nil {
			return fmt.Errorf("save history: %w", err)
		}

		instance = wf
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Advanced workflow instance",
		"instance_id", instance.ID, "action", req.Action, "state", instance.CurrentState, "status", instance.Status)
	return instance, nil
}

// Status returns the derived view of one instance: current and previous
// state, available actions, context and the most recent history entries
// newest first.
func (e *WorkflowEngine) Status(ctx context.Context, instanceID string) (*models.WorkflowStatus, error) {
	if _, err := uuid.Parse(instanceID); err != nil {
		return nil, fmt.Errorf("%w: instance id %q", ErrInvalidID, instanceID)
	}

	r := e.store.Repos()
	wf, err := r.Instances.FindByID(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("find instance: %w", err)
	}
	if wf == nil {
		return nil, ErrInstanceNotFound
	}

	def, err := r.Definitions.FindByID(ctx, wf.DefinitionID)
	if err != nil {
		return nil, fmt.Errorf("find definition: %w", err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: definition %s for instance %s", ErrDefinitionNotFound, wf.DefinitionID, wf.ID)
	}

	limit := config.GetSystemSettingInteger(config.STATUS_HISTORY_LIMIT)
	history, err := r.History.FindByInstanceID(ctx, wf.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}

	now := e.clock.Now()
	status := &models.WorkflowStatus{
		ID:                 wf.ID,
		DefinitionID:       wf.DefinitionID,
		EntityID:           wf.EntityID,
		EntityType:         wf.EntityType,
		Title:              wf.Title,
		CurrentState:       wf.CurrentState,
		Status:             wf.Status,
		ProgressPercentage: wf.ProgressPercentage,
		AvailableActions:   wf.AvailableActions(def),
		ContextData:        wf.ContextData,
		AssignedTo:         wf.AssignedTo,
		IsOverdue:          wf.IsOverdue(now),
		StartedAt:          wf.StartedAt,
		Created:            wf.Created,
		History:            make([]models.HistoryEntry, 0, len(history)),
	}
	if wf.CompletedAt.Valid {
		t := wf.CompletedAt.Time
		status.CompletedAt = &t
	}
	if wf.DueDate.Valid {
		t := wf.DueDate.Time
		status.DueDate = &t
	}
	for i, h := range history {
		if i == 0 && h.FromState.Valid {
			prev := h.FromState.String
			status.PreviousState = &prev
		}
		status.History = append(status.History, historyEntry(h))
	}
	return status, nil
}

// History returns the transition ledger of one instance newest first.
// A limit of 0 or less returns the whole ledger.
func (e *WorkflowEngine) History(ctx context.Context, instanceID string, limit int) ([]models.HistoryEntry, error) {
	if _, err := uuid.Parse(instanceID); err != nil {
		return nil, fmt.Errorf("%w: instance id %q", ErrInvalidID, instanceID)
	}

	r := e.store.Repos()
	wf, err := r.Instances.FindByID(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("find instance: %w", err)
	}
	if wf == nil {
		return nil, ErrInstanceNotFound
	}

	rows, err := r.History.FindByInstanceID(ctx, wf.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	entries := make([]models.HistoryEntry, 0, len(rows))
	for _, h := range rows {
		entries = append(entries, historyEntry(h))
	}
	return entries, nil
}

func historyEntry(h domain.WorkflowHistory) models.HistoryEntry {
	entry := models.HistoryEntry{
		ToState:       h.ToState,
		Action:        h.Action,
		TriggeredBy:   h.TriggeredBy,
		TriggerType:   h.TriggerType,
		Comment:       h.Comment,
		WasSuccessful: h.WasSuccessful,
		Created:       h.Created,
	}
	if h.FromState.Valid {
		from := h.FromState.String
		entry.FromState = &from
	}
	return entry
}

// UserWorkflows returns summaries of the instances assigned to a user,
// optionally narrowed by organization and status, paginated in created-
// descending order.
func (e *WorkflowEngine) UserWorkflows(ctx context.Context, userID string, req models.SearchInstancesRequest) ([]models.WorkflowSummary, error) {
	req.AssignedTo = userID
	if req.Limit <= 0 {
		req.Limit = int64(config.GetSystemSettingInteger(config.SEARCH_DEFAULT_LIMIT))
	}
	instances, err := e.store.Repos().Instances.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search instances: %w", err)
	}
	summaries := make([]models.WorkflowSummary, 0, len(instances))
	for _, wf := range instances {
		summaries = append(summaries, models.WorkflowSummary{
			ID:                 wf.ID,
			Title:              wf.Title,
			EntityID:           wf.EntityID,
			CurrentState:       wf.CurrentState,
			Status:             wf.Status,
			ProgressPercentage: wf.ProgressPercentage,
			Created:            wf.Created,
		})
	}
	return summaries, nil
}
