// Package databasetest opens throwaway in-memory databases for tests.
package databasetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/config"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/schema"
)

var seq atomic.Int64

// Open returns a migrated in-memory SQLite database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:taskroster_test_%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	db, err := database.Open(&config.DatabaseEnv{
		Driver:          "sqlite",
		DSN:             dsn,
		ConnMaxLifetime: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, schema.Migrate(context.Background(), db))
	return db
}
