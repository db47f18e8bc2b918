package tester

import (
	"path/filepath"
	"testing"

	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup opens a fresh sqlite database in a per-test directory and migrates it.
func Setup(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reader.db")
	db, err := gorm.Open(sqlite.Open(config.SqliteDSN(path)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// Store returns a GormStore over a fresh test database.
func Store(t testing.TB) *store.GormStore {
	t.Helper()
	return store.NewGormStore(Setup(t))
}
