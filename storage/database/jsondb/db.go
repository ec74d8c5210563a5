// Package jsondb is the file-backed Store: one JSON file per collection under
// a data directory.
package jsondb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/pkg/errors"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/storage/database"
)

type DB struct {
	dir    string
	logger core.Logger
}

var _ database.Store = (*DB)(nil)

func Open(dir string, logger core.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &DB{dir: dir, logger: logger}, nil
}

func (db *DB) path(collection string) string {
	return filepath.Join(db.dir, collection+".json")
}

// ReadAll loads a whole collection. A missing file is an empty collection;
// corrupt or unreadable content is recovered as an empty collection too, so a
// parse fault never reaches callers.
func (db *DB) ReadAll(collection string, out interface{}) error {
	resetSlice(out)

	data, err := os.ReadFile(db.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		db.logger.Warn(fmt.Sprintf("reading collection %q: %v; treating as empty", collection, err))
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		db.logger.Warn(fmt.Sprintf("collection %q is corrupt: %v; treating as empty", collection, err))
		resetSlice(out)
		return nil
	}
	return nil
}

// WriteAll replaces a whole collection. The file is written to a temp file
// and renamed so readers never observe a partial write.
func (db *DB) WriteAll(collection string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding collection %q", collection)
	}

	tmp, err := os.CreateTemp(db.dir, collection+"-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "writing collection %q", collection)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing collection %q", collection)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing collection %q", collection)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), db.path(collection)), "replacing collection %q", collection)
}

// resetSlice zeroes *out so a failed decode can't leave partial data behind.
func resetSlice(out interface{}) {
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}
