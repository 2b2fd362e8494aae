// Package database opens the gorm connection and carries the ambient
// transaction through the context.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskroster/taskroster/internal/config"
)

// Open connects to the configured database. SQLite is limited to a single
// connection: it allows one writer at a time and in-memory databases are
// per-connection.
func Open(env *config.DatabaseEnv) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch env.Driver {
	case "postgres":
		dialector = postgres.Open(env.DSN)
	case "sqlite":
		dialector = sqlite.Open(env.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", env.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", env.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if env.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(env.MaxOpenConns)
		sqlDB.SetMaxIdleConns(env.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(env.ConnMaxLifetime)
	return db, nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
