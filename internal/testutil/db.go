// Package testutil holds helpers shared by store-backed tests.
package testutil

import (
	"testing"

	"go-color-catalog/internal/repository"
	"go-color-catalog/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Options{
		Driver:   "sqlite",
		DSN:      "file::memory:",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
