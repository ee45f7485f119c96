// Package testutil provides shared fixtures for PillPal tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pathakanu/pillpal/internal/database"
	"github.com/pathakanu/pillpal/internal/store"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())

	db, err := database.OpenSQLite(dsn, nil)
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStores returns gorm stores over a fresh test database.
func NewStores(t *testing.T) *store.Stores {
	t.Helper()
	return store.New(NewDB(t))
}

// At returns today's date in UTC at hh:mm.
func At(hh, mm int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, time.UTC)
}
