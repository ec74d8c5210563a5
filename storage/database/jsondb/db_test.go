package jsondb

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	logsvc "github.com/sekolahku/pembiasaan/services/logger"
)

type doc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func open(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir, logsvc.NewStdLogger(log.New(io.Discard, "", 0)))
	assert.NoError(t, err)
	return db, dir
}

func Test_DB_roundTrip(t *testing.T) {
	db, _ := open(t)

	in := []doc{{ID: "1", Name: "Budi"}, {ID: "2", Name: "Citra"}}
	assert.NoError(t, db.WriteAll("students", in))

	var out []doc
	assert.NoError(t, db.ReadAll("students", &out))
	assert.Equal(t, in, out)

	// a rewrite replaces the whole collection
	assert.NoError(t, db.WriteAll("students", in[:1]))
	assert.NoError(t, db.ReadAll("students", &out))
	assert.Equal(t, in[:1], out)
}

func Test_DB_missingCollection(t *testing.T) {
	db, _ := open(t)

	out := []doc{{ID: "stale"}}
	assert.NoError(t, db.ReadAll("nothing", &out))
	assert.Empty(t, out)
}

func Test_DB_corruptCollection(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated json", content: `[{"id": "1", "na`},
		{name: "wrong shape", content: `{"id": "1"}`},
		{name: "garbage", content: "lol"},
		{name: "blank", content: "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, dir := open(t)
			err := os.WriteFile(filepath.Join(dir, "students.json"), []byte(tt.content), 0o644)
			assert.NoError(t, err)

			// corrupt content is an empty collection, never an error
			out := []doc{{ID: "stale"}}
			assert.NoError(t, db.ReadAll("students", &out))
			assert.Empty(t, out)

			// and the store stays writable
			assert.NoError(t, db.WriteAll("students", []doc{{ID: "1", Name: "Budi"}}))
			assert.NoError(t, db.ReadAll("students", &out))
			assert.Len(t, out, 1)
		})
	}
}
