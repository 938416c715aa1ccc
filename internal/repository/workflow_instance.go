package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/internal/models"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// WorkflowInstanceRepository persists workflow instances. The context
// payload is stored as a JSON text column.
type WorkflowInstanceRepository struct {
	q     Querier
	clock core.Clock
}

func NewWorkflowInstanceRepository(q Querier, clock core.Clock) *WorkflowInstanceRepository {
	return &WorkflowInstanceRepository{q: q, clock: clock}
}

const instanceColumns = ` id, definition_id, entity_id, entity_type, title, current_state,
		       status, context_data, progress_percentage, assigned_to,
		       organization_id, created_by, started_at, completed_at, due_date,
		       created, modified `

// Save inserts a new workflow instance.
func (r *WorkflowInstanceRepository) Save(ctx context.Context, wf *domain.WorkflowInstance) error {
	contextJSON, err := marshalNullableJSON(wf.ContextData)
	if err != nil {
		return fmt.Errorf("marshal context data: %w", err)
	}

	vals := []interface{}{
		wf.ID, wf.DefinitionID, wf.EntityID, wf.EntityType, wf.Title, wf.CurrentState,
		wf.Status, contextJSON, wf.ProgressPercentage, wf.AssignedTo,
		wf.OrganizationID, wf.CreatedBy, formatDateInDatabase(wf.StartedAt),
		formatDateInDatabaseNull(wf.CompletedAt), formatDateInDatabaseNull(wf.DueDate),
		formatDateInDatabase(wf.Created), formatDateInDatabase(wf.Modified),
	}
	pps := make([]string, 0, len(vals))
	for i := range vals {
		pps = append(pps, placeholder(i+1))
	}
	query := `INSERT INTO workflow_instances (` + instanceColumns + `)
		VALUES (` + strings.Join(pps, ", ") + `)`
	_, err = r.q.ExecContext(ctx, query, vals...)
	return err
}

// FindByID fetches an instance by id. Returns (nil, nil) when no row matches.
func (r *WorkflowInstanceRepository) FindByID(ctx context.Context, id string) (*domain.WorkflowInstance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM workflow_instances WHERE id = ` + placeholder(1) + `
	`
	wf, err := scanInstance(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return wf, err
}

// UpdateAfterTransition writes back the fields an engine transition is
// allowed to mutate: current state, status, context, progress and the
// completion timestamp.
func (r *WorkflowInstanceRepository) UpdateAfterTransition(ctx context.Context, wf *domain.WorkflowInstance) error {
	contextJSON, err := marshalNullableJSON(wf.ContextData)
	if err != nil {
		return fmt.Errorf("marshal context data: %w", err)
	}
	query := `
		UPDATE workflow_instances
		SET current_state = ` + placeholder(1) + `,
		    status = ` + placeholder(2) + `,
		    context_data = ` + placeholder(3) + `,
		    progress_percentage = ` + placeholder(4) + `,
		    completed_at = ` + placeholder(5) + `,
		    modified = ` + placeholder(6) + `
		WHERE id = ` + placeholder(7) + `
	`
	res, err := r.q.ExecContext(ctx, query,
		wf.CurrentState,
		wf.Status,
		contextJSON,
		wf.ProgressPercentage,
		formatDateInDatabaseNull(wf.CompletedAt),
		formatDateInDatabase(r.clock.Now()),
		wf.ID,
	)
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

// Search returns instances matching the request filters ordered by created
// descending then id descending, so repeated calls with the same window
// return the same page.
func (r *WorkflowInstanceRepository) Search(ctx context.Context, req models.SearchInstancesRequest) ([]domain.WorkflowInstance, error) {
	var clauses []string
	var args []interface{}
	if req.AssignedTo != "" {
		args = append(args, req.AssignedTo)
		clauses = append(clauses, "assigned_to = "+placeholder(len(args)))
	}
	if req.OrganizationID != "" {
		args = append(args, req.OrganizationID)
		clauses = append(clauses, "organization_id = "+placeholder(len(args)))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		clauses = append(clauses, "status = "+placeholder(len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	limits := ""
	if req.Limit > 0 {
		limits = fmt.Sprintf(" LIMIT %d OFFSET %d", req.Limit, req.Offset)
	}
	query := `
		SELECT ` + instanceColumns + `
		FROM workflow_instances` + where + `
		ORDER BY created DESC, id DESC
	` + limits

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := make([]domain.WorkflowInstance, 0)
	for rows.Next() {
		wf, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, *wf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return instances, nil
}

func scanInstance(row rowScanner) (*domain.WorkflowInstance, error) {
	var wf domain.WorkflowInstance
	var contextJSON sql.NullString
	err := row.Scan(
		&wf.ID,
		&wf.DefinitionID,
		&wf.EntityID,
		&wf.EntityType,
		&wf.Title,
		&wf.CurrentState,
		&wf.Status,
		&contextJSON,
		&wf.ProgressPercentage,
		&wf.AssignedTo,
		&wf.OrganizationID,
		&wf.CreatedBy,
		&wf.StartedAt,
		&wf.CompletedAt,
		&wf.DueDate,
		&wf.Created,
		&wf.Modified,
	)
	if err != nil {
		return nil, err
	}
	if contextJSON.Valid && contextJSON.String != "" && contextJSON.String != "null" {
		if err := json.Unmarshal([]byte(contextJSON.String), &wf.ContextData); err != nil {
			return nil, fmt.Errorf("unmarshal context data for instance %s: %w", wf.ID, err)
		}
	}
	return &wf, nil
}
