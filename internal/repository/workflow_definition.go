package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// WorkflowDefinitionRepository persists workflow definitions. States,
// transitions and business rules are stored as JSON text columns.
type WorkflowDefinitionRepository struct {
	q     Querier
	clock core.Clock
}

func NewWorkflowDefinitionRepository(q Querier, clock core.Clock) *WorkflowDefinitionRepository {
	return &WorkflowDefinitionRepository{q: q, clock: clock}
}

const definitionColumns = ` id, name, category, initial_state, states, transitions,
		       business_rules, organization_id, is_active, usage_count, created, updated `

// Save inserts a new workflow definition.
func (r *WorkflowDefinitionRepository) Save(ctx context.Context, def *domain.WorkflowDefinition) error {
	states, err := json.Marshal(def.States)
	if err != nil {
		return fmt.Errorf("marshal states: %w", err)
	}
	transitions, err := json.Marshal(def.Transitions)
	if err != nil {
		return fmt.Errorf("marshal transitions: %w", err)
	}
	rules, err := marshalNullableJSON(def.BusinessRules)
	if err != nil {
		return fmt.Errorf("marshal business rules: %w", err)
	}

	vals := []interface{}{
		def.ID, def.Name, def.Category, def.InitialState, string(states), string(transitions),
		rules, def.OrganizationID, def.IsActive, def.UsageCount,
		formatDateInDatabase(def.Created), formatDateInDatabase(def.Updated),
	}
	pps := make([]string, 0, len(vals))
	for i := range vals {
		pps = append(pps, placeholder(i+1))
	}
	query := `INSERT INTO workflow_definitions (` + definitionColumns + `)
		VALUES (` + strings.Join(pps, ", ") + `)`
	_, err = r.q.ExecContext(ctx, query, vals...)
	return err
}

// FindByID fetches a definition by id. Returns (nil, nil) when no row matches.
func (r *WorkflowDefinitionRepository) FindByID(ctx context.Context, id string) (*domain.WorkflowDefinition, error) {
	query := `
		SELECT ` + definitionColumns + `
		FROM workflow_definitions WHERE id = ` + placeholder(1) + `
	`
	def, err := scanDefinition(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return def, err
}

// FindAll returns definitions, optionally scoped to an organization and to
// active ones only, ordered by name.
func (r *WorkflowDefinitionRepository) FindAll(ctx context.Context, organizationID string, onlyActive bool) ([]domain.WorkflowDefinition, error) {
	var clauses []string
	var args []interface{}
	if organizationID != "" {
		args = append(args, organizationID)
		clauses = append(clauses, "organization_id = "+placeholder(len(args)))
	}
	if onlyActive {
		args = append(args, true)
		clauses = append(clauses, "is_active = "+placeholder(len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	query := `
		SELECT ` + definitionColumns + `
		FROM workflow_definitions` + where + `
		ORDER BY name
	`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]domain.WorkflowDefinition, 0)
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

// SetActive flips the soft-active flag on a definition.
func (r *WorkflowDefinitionRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `
		UPDATE workflow_definitions
		SET is_active = ` + placeholder(1) + `, updated = ` + placeholder(2) + `
		WHERE id = ` + placeholder(3) + `
	`
	res, err := r.q.ExecContext(ctx, query, active, formatDateInDatabase(r.clock.Now()), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementUsageCount bumps usage_count by one.
func (r *WorkflowDefinitionRepository) IncrementUsageCount(ctx context.Context, id string) error {
	query := `
		UPDATE workflow_definitions
		SET usage_count = usage_count + 1, updated = ` + placeholder(1) + `
		WHERE id = ` + placeholder(2) + `
	`
	_, err := r.q.ExecContext(ctx, query, formatDateInDatabase(r.clock.Now()), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*domain.WorkflowDefinition, error) {
	var def domain.WorkflowDefinition
	var states, transitions string
	var rules sql.NullString
	err := row.Scan(
		&def.ID,
		&def.Name,
		&def.Category,
		&def.InitialState,
		&states,
		&transitions,
		&rules,
		&def.OrganizationID,
		&def.IsActive,
		&def.UsageCount,
		&def.Created,
		&def.Updated,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(states), &def.States); err != nil {
		return nil, fmt.Errorf("unmarshal states for definition %s: %w", def.ID, err)
	}
	if err := json.Unmarshal([]byte(transitions), &def.Transitions); err != nil {
		return nil, fmt.Errorf("unmarshal transitions for definition %s: %w", def.ID, err)
	}
	if rules.Valid && rules.String != "" && rules.String != "null" {
		if err := json.Unmarshal([]byte(rules.String), &def.BusinessRules); err != nil {
			return nil, fmt.Errorf("unmarshal business rules for definition %s: %w", def.ID, err)
		}
	}
	return &def, nil
}

func marshalNullableJSON(m map[string]any) (interface{}, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
