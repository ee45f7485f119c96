package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/pathakanu/pillpal/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN is the SQLite DSN used when no DATABASE_URL is configured. The
// database lives only as long as the process.
const MemoryDSN = "file:pillpal?mode=memory&cache=shared"

// New creates a GORM database connection.
// When databaseURL is provided PostgreSQL is used, otherwise an in-memory SQLite database is used.
func New(databaseURL string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), gormConfig)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logBackend(db)
		return db, nil
	}

	db, err := OpenSQLite(MemoryDSN, gormConfig)
	if err != nil {
		return nil, err
	}
	logBackend(db)
	return db, nil
}

// OpenSQLite opens and migrates a SQLite database. The pool is pinned to a
// single connection so writers are serialized.
func OpenSQLite(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Reminder{},
		&model.VoiceFile{},
		&model.CommunityMessage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func logBackend(db *gorm.DB) {
	dialector := db.Dialector.Name()
	switch strings.ToLower(dialector) {
	case "postgres":
		log.Printf("database: connected to PostgreSQL")
	case "sqlite":
		log.Printf("database: using in-memory SQLite (records are lost on restart)")
	default:
		log.Printf("database: connected via %s", dialector)
	}
}
