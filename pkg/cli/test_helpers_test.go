package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"viewgen/internal/config"
	"viewgen/internal/engine"
)

// clearViewgenEnv isolates a test from VIEWGEN_* variables in the caller's
// environment.
func clearViewgenEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvConfigPath, config.EnvDriver, config.EnvDSN, config.EnvLogLevel,
		config.EnvOutput, config.EnvMinSupport, config.EnvWindow,
	} {
		t.Setenv(k, "")
	}
}

// seedDB creates a SQLite file database with a readings table and returns
// its path.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	db, err := engine.Open(context.Background(), engine.DriverSQLite3, path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	for _, stmt := range []string{
		`CREATE TABLE readings (day INTEGER, sensor TEXT, temp REAL)`,
		`INSERT INTO readings VALUES (1, 'a', 10), (1, 'b', 20), (2, 'a', 11), (3, 'b', 25)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	clearViewgenEnv(t)
	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// queryRows runs query against the SQLite file at path.
func queryRows(t *testing.T, path, query string) [][]interface{} {
	t.Helper()
	db, err := engine.Open(context.Background(), engine.DriverSQLite3, path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close() //nolint:errcheck
	rs, err := engine.ScanRows(rows)
	require.NoError(t, err)
	return rs.Rows
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
