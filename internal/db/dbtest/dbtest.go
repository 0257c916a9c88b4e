// Package dbtest provides an in-memory database for package tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/secretos/internal/db"
	"github.com/sujalbistaa/secretos/internal/models"
)

// New returns a migrated in-memory SQLite database that lives for the test.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// SeedSchools inserts the given schools and fails the test on error.
func SeedSchools(t *testing.T, gdb *gorm.DB, schools ...models.School) {
	t.Helper()
	for i := range schools {
		if err := gdb.Create(&schools[i]).Error; err != nil {
			t.Fatalf("seed school: %v", err)
		}
	}
}
