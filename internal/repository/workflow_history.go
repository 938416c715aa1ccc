package repository

import (
	"context"
	"log/slog"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// WorkflowHistoryRepository persists the append-only transition ledger.
type WorkflowHistoryRepository struct {
	q     Querier
	clock core.Clock
}

func NewWorkflowHistoryRepository(q Querier, clock core.Clock) *WorkflowHistoryRepository {
	return &WorkflowHistoryRepository{q: q, clock: clock}
}

// Save inserts a new history row and returns its ID. History rows are never
// updated or deleted.
func (r *WorkflowHistoryRepository) Save(ctx context.Context, h *domain.WorkflowHistory) (int64, error) {
	base := `
		INSERT INTO workflow_history (
			instance_id, from_state, to_state, action, triggered_by, trigger_type, comment, was_successful, created
		) VALUES (
			` + placeholder(1) + `, ` + placeholder(2) + `, ` + placeholder(3) + `, ` + placeholder(4) + `, ` + placeholder(5) + `, ` + placeholder(6) + `, ` + placeholder(7) + `, ` + placeholder(8) + `, ` + placeholder(9) + `
		)`
	vals := []interface{}{
		h.InstanceID,
		h.FromState,
		h.ToState,
		h.Action,
		h.TriggeredBy,
		h.TriggerType,
		h.Comment,
		h.WasSuccessful,
		formatDateInDatabase(h.Created),
	}
	var err error
	if supportsReturning() {
		query := base + " RETURNING id"
		err = r.q.QueryRowContext(ctx, query, vals...).Scan(&h.ID)
	} else {
		res, e := r.q.ExecContext(ctx, base, vals...)
		if e != nil {
			err = e
		} else {
			id, e2 := res.LastInsertId()
			if e2 != nil {
				err = e2
			} else {
				h.ID = id
			}
		}
	}

	if err != nil {
		slog.Error("Failed to save workflow history row", "error", err, "instance_id", h.InstanceID)
	}

	return h.ID, err
}

// FindByInstanceID returns the most recent history rows for an instance,
// newest first. A limit of 0 or less returns all rows.
func (r *WorkflowHistoryRepository) FindByInstanceID(ctx context.Context, instanceID string, limit int) ([]domain.WorkflowHistory, error) {
	query := `
		SELECT id, instance_id, from_state, to_state, action, triggered_by, trigger_type, comment, was_successful, created
		FROM workflow_history
		WHERE instance_id = ` + placeholder(1) + `
		ORDER BY id DESC
	`
	args := []interface{}{instanceID}
	if limit > 0 {
		query += ` LIMIT ` + placeholder(2)
		args = append(args, limit)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.WorkflowHistory, 0)
	for rows.Next() {
		var h domain.WorkflowHistory
		if err := rows.Scan(
			&h.ID,
			&h.InstanceID,
			&h.FromState,
			&h.ToState,
			&h.Action,
			&h.TriggeredBy,
			&h.TriggerType,
			&h.Comment,
			&h.WasSuccessful,
			&h.Created,
		); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByInstanceID returns the ledger length for an instance.
func (r *WorkflowHistoryRepository) CountByInstanceID(ctx context.Context, instanceID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM workflow_history WHERE instance_id = ` + placeholder(1) + `
	`
	var n int
	err := r.q.QueryRowContext(ctx, query, instanceID).Scan(&n)
	return n, err
}
