package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// UserRepository provides persistence methods for the users table.
type UserRepository struct {
	q     Querier
	clock core.Clock
}

func NewUserRepository(q Querier, clock core.Clock) *UserRepository {
	return &UserRepository{q: q, clock: clock}
}

// Save inserts a new user and returns its generated id.
// It will set Created to now if it's not provided (null or zero).
func (r *UserRepository) Save(ctx context.Context, u *domain.User) (int64, error) {
	if !u.Created.Valid {
		u.Created = sql.NullTime{Time: r.clock.Now().UTC(), Valid: true}
	}

	base := `
        INSERT INTO users (username, password, api_key, created, enabled)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.q.QueryRowContext(ctx, base+" RETURNING id",
			u.Username,
			u.Password,
			u.ApiKey,
			formatDateInDatabaseNull(u.Created),
			u.Enabled,
		).Scan(&id)
	} else {
		res, e := r.q.ExecContext(ctx, base,
			u.Username,
			u.Password,
			u.ApiKey,
			formatDateInDatabaseNull(u.Created),
			u.Enabled,
		)
		if e != nil {
			err = e
		} else {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

// FindByApiKey returns the enabled user owning the given API key, or
// (nil, nil) when the key is unknown.
func (r *UserRepository) FindByApiKey(ctx context.Context, apiKey string) (*domain.User, error) {
	query := `
		SELECT id, username, password, api_key, created, enabled
		FROM users
		WHERE api_key = ` + placeholder(1) + ` AND enabled = ` + placeholder(2) + `
	`
	u, err := scanUser(r.q.QueryRowContext(ctx, query, apiKey, true))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindByUsername returns a user by username, or (nil, nil) when missing.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password, api_key, created, enabled
		FROM users
		WHERE username = ` + placeholder(1) + `
	`
	u, err := scanUser(r.q.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindAll returns all users ordered by username.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, username, password, api_key, created, enabled
		FROM users
		ORDER BY username
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Password,
		&u.ApiKey,
		&u.Created,
		&u.Enabled,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
