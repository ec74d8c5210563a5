// Package sqldb is the SQL-backed Store: every collection is one JSON
// document row in the collections table, so the whole-collection read/write
// contract is identical to the file store's. Postgres (lib/pq) and embedded
// SQLite (modernc.org/sqlite) are supported.
package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/storage/database"
)

type DB struct {
	db     *sqlx.DB
	logger core.Logger
}

var _ database.Store = (*DB)(nil)

func Open(conf *core.Config, logger core.Logger) (*DB, error) {
	var db *sqlx.DB
	var err error

	switch conf.Database.Engine {
	case "postgres":
		db, err = sqlx.Open("postgres", postgresURL(conf))
	case "sqlite":
		db, err = sqlx.Open("sqlite", conf.Database.Path)
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		return nil, err
	}
	if err = database.Migrate(db.DB, conf.Database.Engine); err != nil {
		return nil, errors.Wrap(err, "migrating database")
	}
	return &DB{db: db, logger: logger}, nil
}

func postgresURL(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Host + ":" + conf.Database.Port,
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (db *DB) Close() error {
	return db.db.Close()
}

// SQLDB exposes the underlying handle for the admin CLI's migrate command.
func (db *DB) SQLDB() *sql.DB {
	return db.db.DB
}

// ReadAll loads a whole collection. A missing row is an empty collection; a
// corrupt document is recovered as an empty collection, so a parse fault
// never reaches callers.
func (db *DB) ReadAll(collection string, out interface{}) error {
	resetSlice(out)

	var doc []byte
	query := db.db.Rebind("SELECT doc FROM collections WHERE name = ?")
	if err := db.db.Get(&doc, query, collection); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrapf(err, "reading collection %q", collection)
	}
	if err := json.Unmarshal(doc, out); err != nil {
		db.logger.Warn(fmt.Sprintf("collection %q is corrupt: %v; treating as empty", collection, err))
		resetSlice(out)
	}
	return nil
}

// WriteAll replaces a whole collection document in one statement.
func (db *DB) WriteAll(collection string, records interface{}) error {
	doc, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "encoding collection %q", collection)
	}
	query := db.db.Rebind(
		"INSERT INTO collections (name, doc) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET doc = excluded.doc",
	)
	_, err = db.db.Exec(query, collection, string(doc))
	return errors.Wrapf(err, "replacing collection %q", collection)
}

// resetSlice zeroes *out so a failed decode can't leave partial data behind.
func resetSlice(out interface{}) {
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}
