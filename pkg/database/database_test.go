package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEnablePgcrypto(t *testing.T) {
	require.NotEmpty(t, migrations)

	// Api key generation calls gen_random_bytes at runtime, so pgcrypto has
	// to be in place by the time migrations finish. It runs first so the
	// schema statements can assume it.
	assert.Contains(t, migrations[0], "CREATE EXTENSION IF NOT EXISTS pgcrypto")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	for _, m := range migrations {
		assert.Contains(t, m, "IF NOT EXISTS", "migration must be rerunnable: %s", m)
	}
}

func TestMigrationsCreateCoreTables(t *testing.T) {
	tables := []string{"accounts", "users", "leads", "duplicate_notifications", "merge_history", "media_files"}
	for _, table := range tables {
		found := false
		for _, m := range migrations {
			if strings.Contains(m, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				found = true
				break
			}
		}
		assert.True(t, found, "missing table migration: %s", table)
	}
}
