package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-tracker-api/internal/domain"
)

func TestNew_SQLiteAndSafeAutoMigrate(t *testing.T) {
	db, err := New(Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "tracker.db"),
	})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, SafeAutoMigrate(db, zap.NewNop()))

	for _, table := range []string{
		"users", "projects", "tasks", "task_assignments", "bugs",
		"comments", "attachments", "activity_logs", "notifications",
	} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	// Running again on an existing schema only updates it
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SafeAutoMigrate(db, zap.NewNop()))
}

func TestTableName(t *testing.T) {
	db, err := New(Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	name, err := tableName(db, &domain.TaskAssignment{})
	require.NoError(t, err)
	assert.Equal(t, "task_assignments", name)
}

func TestConnectWithRetry_Fails(t *testing.T) {
	_, err := ConnectWithRetry(Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "missing-dir", "x", "tracker.db"),
	}, 2, 0, zap.NewNop())
	assert.Error(t, err)
}
