package testutil

import (
	"io"
	"log"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/student"
	logsvc "github.com/sekolahku/pembiasaan/services/logger"
	"github.com/sekolahku/pembiasaan/storage/database"
	"github.com/sekolahku/pembiasaan/storage/database/jsondb"
)

// NewConfig returns a config suitable for tests.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = true
	conf.TestMode = true
	return conf
}

// NewLogger returns a quiet logger for store fixtures.
func NewLogger() core.Logger {
	return logsvc.NewStdLogger(log.New(io.Discard, "", 0))
}

// NewStore opens a file store rooted in a per-test temp dir.
func NewStore(t *testing.T) database.Store {
	t.Helper()
	store, err := jsondb.Open(t.TempDir(), NewLogger())
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

// NewValidator returns a validator with the app's custom tags registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

func CreateAccount(t *testing.T, repo account.Repository, name, uname, pwd, role string) account.Account {
	t.Helper()
	acct := account.Account{
		Name:     name,
		Username: uname,
		Role:     role,
	}
	if pwd != "" {
		if err := acct.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acct, err := repo.CreateAccount(acct)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acct
}

func CreateStudent(t *testing.T, repo student.Repository, name, nisn, class, teacherID string) student.Student {
	t.Helper()
	std, err := repo.CreateStudent(student.Student{
		Name:          name,
		StudentNumber: nisn,
		ClassLabel:    class,
		TeacherID:     teacherID,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateRecord(t *testing.T, repo habit.Repository, studentID, date string, ratings map[string]habit.Rating) habit.Record {
	t.Helper()
	rec, err := repo.UpsertRecord(habit.Record{
		StudentID: studentID,
		Date:      date,
		Ratings:   ratings,
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
