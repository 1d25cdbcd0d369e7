package sqlitedb

import (
	"testing"

	"collateral-ledger/internal/infrastructure/db"

	"gorm.io/gorm"
)

// Open returns a migrated in-memory database private to the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
