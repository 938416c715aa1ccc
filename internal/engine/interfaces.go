package engine

import (
	"context"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/internal/models"
)

// DefinitionRepo defines the interface for workflow definition persistence,
// matching repository.WorkflowDefinitionRepository. Lookups return (nil, nil)
// when no row matches.
type DefinitionRepo interface {
	Save(ctx context.Context, def *domain.WorkflowDefinition) error
	FindByID(ctx context.Context, id string) (*domain.WorkflowDefinition, error)
	FindAll(ctx context.Context, organizationID string, onlyActive bool) ([]domain.WorkflowDefinition, error)
	SetActive(ctx context.Context, id string, active bool) error
	IncrementUsageCount(ctx context.Context, id string) error
}

// InstanceRepo defines the interface for workflow instance persistence.
type InstanceRepo interface {
	Save(ctx context.Context, wf *domain.WorkflowInstance) error
	FindByID(ctx context.Context, id string) (*domain.WorkflowInstance, error)
	UpdateAfterTransition(ctx context.Context, wf *domain.WorkflowInstance) error
	Search(ctx context.Context, req models.SearchInstancesRequest) ([]domain.WorkflowInstance, error)
}

// HistoryRepo defines the interface for the append-only transition ledger.
type HistoryRepo interface {
	Save(ctx context.Context, h *domain.WorkflowHistory) (int64, error)
	FindByInstanceID(ctx context.Context, instanceID string, limit int) ([]domain.WorkflowHistory, error)
}

// UserRepo defines the interface for user persistence, consumed by the
// HTTP auth layer.
type UserRepo interface {
	Save(ctx context.Context, u *domain.User) (int64, error)
	FindByApiKey(ctx context.Context, apiKey string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

// Repos bundles the repositories an engine operation works against. Inside
// InTx all three are bound to the same database transaction.
type Repos struct {
	Definitions DefinitionRepo
	Instances   InstanceRepo
	History     HistoryRepo
}

// Store hands out repository handles. InTx runs fn within one database
// transaction: every write fn performs commits atomically or not at all.
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}
