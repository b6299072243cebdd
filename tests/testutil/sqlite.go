package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/database"
)

// NewSQLiteTestDB creates a migrated SQLite database under t.TempDir()
func NewSQLiteTestDB(t *testing.T) (*database.SQLiteClient, *database.SQLiteTxManager) {
	t.Helper()

	client, err := database.NewSQLiteClient(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, database.RunMigrations(client.DB().DB, "sqlite"))

	return client, database.NewSQLiteTxManager(client.DB())
}
