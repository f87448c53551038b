// Package db opens the SQLite database fake graphs are seeded into.
package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"

	"fakeorders/model"
	"fakeorders/tracker"
)

// Open opens (or creates) the SQLite database at dsn and checks it is reachable.
// SQLite has a single writer, so the pool is held to one connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "db: open")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "db: ping")
	}
	return sqlDB, nil
}

// Migrate creates the Customer, Order and OrderPayment tables.
func Migrate(sqlDB *sql.DB, log *zap.Logger) error {
	uow, err := tracker.New(sqlDB)
	if err != nil {
		return err
	}
	if err := uow.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "db: migrate")
	}
	log.Info("database migrated", zap.Int("models", len(model.All())))
	return nil
}
