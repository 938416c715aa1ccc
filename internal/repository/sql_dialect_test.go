package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stateflowhq/stateflow/internal/config"
)

func TestPlaceholder(t *testing.T) {
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_POSTGRES)
	if got := placeholder(3); got != "$3" {
		t.Errorf("postgres placeholder(3) = %q, want $3", got)
	}

	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_MYSQL)
	if got := placeholder(3); got != "?" {
		t.Errorf("mysql placeholder(3) = %q, want ?", got)
	}

	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	if got := placeholder(1); got != "?" {
		t.Errorf("sqlite placeholder(1) = %q, want ?", got)
	}
}

func TestSupportsReturning(t *testing.T) {
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_POSTGRES)
	if !supportsReturning() {
		t.Errorf("postgres should support RETURNING")
	}
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	if supportsReturning() {
		t.Errorf("sqlite should not use RETURNING")
	}
}

func TestFormatDateInDatabase(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)

	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	if got := formatDateInDatabase(ts); got != "2025-06-01 12:30:45.123" {
		t.Errorf("sqlite format = %q", got)
	}

	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_MYSQL)
	if got := formatDateInDatabase(ts); got != "2025-06-01 12:30:45.123456" {
		t.Errorf("mysql format = %q", got)
	}
}

func TestFormatDateInDatabaseNull(t *testing.T) {
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_POSTGRES)

	if got := formatDateInDatabaseNull(sql.NullTime{}); got != nil {
		t.Errorf("invalid NullTime should map to nil, got %v", got)
	}

	ts := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	if got := formatDateInDatabaseNull(sql.NullTime{Time: ts, Valid: true}); got != ts {
		t.Errorf("postgres should pass time.Time through, got %v", got)
	}
}
