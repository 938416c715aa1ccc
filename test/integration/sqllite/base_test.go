package sqllite

import (
	"path/filepath"
	"testing"

	"github.com/stateflowhq/stateflow/internal/config"
)

// runTestWithSetup points the configuration at a throwaway sqlite file in a
// temp dir; t.Setenv restores the environment when the test finishes.
func runTestWithSetup(t *testing.T, testFunc func(t *testing.T)) {
	filename := filepath.Join(t.TempDir(), "stateflow-test.db")
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	t.Setenv(config.DATABASE_SQLLITE_FILE_NAME, filename)
	testFunc(t)
}
