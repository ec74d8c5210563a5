// Package database implements the domain repositories on top of a Store that
// reads and writes whole named collections. All lookups are linear scans; every
// mutation is a read-modify-write cycle over the full collection.
package database

import (
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// The five persisted collections.
const (
	AccountCollection     = "accounts"
	StudentCollection     = "students"
	HabitRecordCollection = "habit_records"
	ReportCollection      = "reports"
	MessageCollection     = "messages"
)

// Store is a durable key-value persistence abstraction over whole named
// collections.
//
// There is no cross-collection transaction and no optimistic-concurrency
// token: two writers racing on the same collection lose to the last write.
// Repositories serialize in-process access with their own mutex; cross-process
// discipline is advisory only.
type Store interface {
	// ReadAll decodes the named collection into out, a pointer to a slice.
	// Corrupt or unparsable content yields an empty collection, never an
	// error: callers must not see a parse fault.
	ReadAll(collection string, out interface{}) error

	// WriteAll replaces the named collection, atomically from the caller's
	// perspective.
	WriteAll(collection string, records interface{}) error
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings a SQL-backed store's schema up to date.
func Migrate(db *sql.DB, engine string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(gooseDialect(engine)); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return goose.Up(db, "migrations")
}

// RunMigrationCommand runs an arbitrary goose command ("up", "down", "status",
// ...) against a SQL-backed store. Used by the admin CLI.
func RunMigrationCommand(db *sql.DB, engine, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(gooseDialect(engine)); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return goose.Run(command, db, "migrations", args...)
}

func gooseDialect(engine string) string {
	if engine == "sqlite" {
		return "sqlite3"
	}
	return engine
}
