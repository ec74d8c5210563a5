package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/student"
	"github.com/sekolahku/pembiasaan/storage/database"
	testutil "github.com/sekolahku/pembiasaan/tests"
)

type fixture struct {
	acctRepo   account.Repository
	stdRepo    student.Repository
	habitRepo  habit.Repository
	acctSvc    *account.Service
	studentSvc *student.Service
	habitSvc   *habit.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	conf := testutil.NewConfig()

	acctRepo := database.NewAccountRepository(store)
	stdRepo := database.NewStudentRepository(store)
	habitRepo := database.NewHabitRepository(store)

	habitSvc := habit.NewService(habitRepo)
	studentSvc := student.NewService(stdRepo, habitSvc, acctRepo)
	acctSvc := account.NewService(acctRepo, studentSvc, conf)

	return &fixture{
		acctRepo:   acctRepo,
		stdRepo:    stdRepo,
		habitRepo:  habitRepo,
		acctSvc:    acctSvc,
		studentSvc: studentSvc,
		habitSvc:   habitSvc,
	}
}

func Test_Service_Create_uniqueness(t *testing.T) {
	fix := setup(t)
	validate, _ := testutil.NewValidator()

	first := account.NewAccount{Name: "Guru Satu", Username: "guru1", Password: "rahasia", Role: account.RoleTeacher}
	assert.NoError(t, first.Validate(validate, fix.acctSvc))
	created, err := fix.acctSvc.Create(first)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "guru1", created.Username)

	// same username again: rejected at validation time as a field error
	dup := account.NewAccount{Name: "Penyusup", Username: "guru1", Password: "rahasia", Role: account.RoleTeacher}
	err = dup.Validate(validate, fix.acctSvc)
	assert.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "username", vErr.Fields[0].Field)

	// and again at commit time, straight through the repository
	raced := account.Account{Name: "Penyusup", Username: "guru1", Role: account.RoleTeacher}
	_, err = fix.acctRepo.CreateAccount(raced)
	assert.Equal(t, account.ErrUsernameExists, err)

	// the store kept exactly one account
	all, err := fix.acctRepo.QueryAllAccounts()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func Test_Service_Authenticate(t *testing.T) {
	fix := setup(t)
	testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "rahasia", account.RoleTeacher)

	acct, err := fix.acctSvc.Authenticate("guru1", "rahasia")
	assert.NoError(t, err)
	assert.Equal(t, "guru1", acct.Username)

	// username cleaning: case-insensitive lookup
	acct, err = fix.acctSvc.Authenticate("  GURU1 ", "rahasia")
	assert.NoError(t, err)
	assert.Equal(t, "guru1", acct.Username)

	_, err = fix.acctSvc.Authenticate("guru1", "salah")
	assert.Equal(t, account.ErrNotFound, err)

	_, err = fix.acctSvc.Authenticate("nobody", "rahasia")
	assert.Equal(t, account.ErrNotFound, err)
}

func Test_Service_BulkImportTeachers(t *testing.T) {
	fix := setup(t)

	rows := []account.ImportRow{
		{Name: "Guru Satu", Username: "guru1"},
		{Name: "Guru Dua"}, // username derived, password defaulted
		{Name: ""},         // invalid: no name
	}
	res, err := fix.acctSvc.BulkImportTeachers(rows)
	assert.NoError(t, err)
	assert.Equal(t, account.ImportResult{Created: 2, Skipped: 0, Invalid: 1}, res)

	derived, err := fix.acctSvc.GetByUsername("gurudua")
	assert.NoError(t, err)
	assert.Equal(t, "Guru Dua", derived.Name)
	assert.True(t, derived.IsTeacher())
	assert.NoError(t, derived.CheckPassword(testutil.NewConfig().DefaultImportPassword))

	// re-importing the same sheet skips both existing usernames
	res, err = fix.acctSvc.BulkImportTeachers(rows)
	assert.NoError(t, err)
	assert.Equal(t, account.ImportResult{Created: 0, Skipped: 2, Invalid: 1}, res)

	// duplicates inside one batch collide too
	res, err = fix.acctSvc.BulkImportTeachers([]account.ImportRow{
		{Name: "Guru Tiga", Username: "guru3"},
		{Name: "Guru Tiga B", Username: "guru3"},
	})
	assert.NoError(t, err)
	assert.Equal(t, account.ImportResult{Created: 1, Skipped: 1, Invalid: 0}, res)
}

func Test_Service_DeleteTeachers_cascades(t *testing.T) {
	fix := setup(t)

	t1 := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)
	t2 := testutil.CreateAccount(t, fix.acctRepo, "Guru Dua", "guru2", "pwd", account.RoleTeacher)
	admin := testutil.CreateAccount(t, fix.acctRepo, "Kepala", "kepala", "pwd", account.RoleAdmin)

	s1 := testutil.CreateStudent(t, fix.stdRepo, "Budi", "0001", "5A", t1.ID)
	s2 := testutil.CreateStudent(t, fix.stdRepo, "Citra", "0002", "5A", t1.ID)
	s3 := testutil.CreateStudent(t, fix.stdRepo, "Adi", "0003", "5B", t2.ID)

	ratings := map[string]habit.Rating{"Bangun Pagi": habit.RatingAccustomed}
	testutil.CreateRecord(t, fix.habitRepo, s1.ID, "2024-05-01", ratings)
	testutil.CreateRecord(t, fix.habitRepo, s1.ID, "2024-05-02", ratings)
	testutil.CreateRecord(t, fix.habitRepo, s2.ID, "2024-05-01", ratings)
	testutil.CreateRecord(t, fix.habitRepo, s3.ID, "2024-05-01", ratings)

	// unknown ids are ignored, admin ids are never deleted
	err := fix.acctSvc.DeleteTeachers(t1.ID, admin.ID, "no-such-id")
	assert.NoError(t, err)

	_, err = fix.acctRepo.GetAccountByID(t1.ID)
	assert.Equal(t, account.ErrNotFound, err)
	_, err = fix.acctRepo.GetAccountByID(admin.ID)
	assert.NoError(t, err)

	// t1's students and their records are gone, t2's are intact
	stds, err := fix.stdRepo.QueryAllStudents()
	assert.NoError(t, err)
	assert.Len(t, stds, 1)
	assert.Equal(t, s3.ID, stds[0].ID)

	recs, err := fix.habitRepo.QueryAllRecords()
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, s3.ID, recs[0].StudentID)
}

func Test_Service_Update(t *testing.T) {
	fix := setup(t)
	validate, _ := testutil.NewValidator()

	acct := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)
	testutil.CreateAccount(t, fix.acctRepo, "Guru Dua", "guru2", "pwd", account.RoleTeacher)

	// blank fields keep their current values
	data := account.UpdateAccount{ClassLabel: "6B"}
	assert.NoError(t, data.Validate(validate, acct, fix.acctSvc))
	updated, err := fix.acctSvc.Update(acct.ID, data)
	assert.NoError(t, err)
	assert.Equal(t, "Guru Satu", updated.Name)
	assert.Equal(t, "guru1", updated.Username)
	assert.Equal(t, "6B", updated.ClassLabel)

	// renaming onto a taken username is a conflict
	data = account.UpdateAccount{Username: "guru2"}
	err = data.Validate(validate, acct, fix.acctSvc)
	assert.Error(t, err)

	// keeping one's own username is not
	data = account.UpdateAccount{Username: "guru1", Password: "baru"}
	assert.NoError(t, data.Validate(validate, acct, fix.acctSvc))
	updated, err = fix.acctSvc.Update(acct.ID, data)
	assert.NoError(t, err)
	assert.NoError(t, updated.CheckPassword("baru"))
}
