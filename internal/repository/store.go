package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stateflowhq/stateflow/internal/engine"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// Store hands out repositories bound either to the shared connection pool
// or, inside InTx, to a single database transaction.
type Store struct {
	db    *sql.DB
	clock core.Clock
}

func NewStore(db *sql.DB, clock core.Clock) *Store {
	return &Store{db: db, clock: clock}
}

// Repos returns repositories bound to the connection pool, for reads that
// need no transaction scope.
func (s *Store) Repos() engine.Repos {
	return s.repos(s.db)
}

// InTx begins a transaction, runs fn against repositories bound to it and
// commits. Any error from fn rolls the whole transaction back, so a partial
// write never survives.
func (s *Store) InTx(ctx context.Context, fn func(engine.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(s.repos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) repos(q Querier) engine.Repos {
	return engine.Repos{
		Definitions: NewWorkflowDefinitionRepository(q, s.clock),
		Instances:   NewWorkflowInstanceRepository(q, s.clock),
		History:     NewWorkflowHistoryRepository(q, s.clock),
	}
}

// Users returns the user repository bound to the connection pool.
func (s *Store) Users() *UserRepository {
	return NewUserRepository(s.db, s.clock)
}
