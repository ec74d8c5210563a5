package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/report"
	"github.com/sekolahku/pembiasaan/storage/database"
	testutil "github.com/sekolahku/pembiasaan/tests"
)

func Test_habitRepository_UpsertRecord_idempotent(t *testing.T) {
	store := testutil.NewStore(t)
	repo := database.NewHabitRepository(store)

	first, err := repo.UpsertRecord(habit.Record{
		StudentID: "s1",
		Date:      "2024-05-20",
		Ratings:   map[string]habit.Rating{"Bangun Pagi": habit.RatingLessAccustomed},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	// same (student, date): ratings replaced in place, id stable, no duplicate
	second, err := repo.UpsertRecord(habit.Record{
		StudentID: "s1",
		Date:      "2024-05-20",
		Ratings:   map[string]habit.Rating{"Bangun Pagi": habit.RatingWellAccustomed, "Olahraga": habit.RatingAccustomed},
	})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.QueryAllRecords()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, habit.RatingWellAccustomed, all[0].Ratings["Bangun Pagi"])

	// different date: a new record
	third, err := repo.UpsertRecord(habit.Record{
		StudentID: "s1",
		Date:      "2024-05-21",
		Ratings:   map[string]habit.Rating{"Bangun Pagi": habit.RatingAccustomed},
	})
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	all, _ = repo.QueryAllRecords()
	assert.Len(t, all, 2)

	rec, err := repo.GetRecordByStudentDate("s1", "2024-05-20")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, rec.ID)
	_, err = repo.GetRecordByStudentDate("s1", "2024-05-22")
	assert.Equal(t, habit.ErrNotFound, err)
}

func Test_accountRepository_passwordHashSurvivesReload(t *testing.T) {
	store := testutil.NewStore(t)
	repo := database.NewAccountRepository(store)

	acct := testutil.CreateAccount(t, repo, "Guru Satu", "guru1", "rahasia", account.RoleTeacher)

	// a fresh repository over the same store must still see the hash,
	// even though Account never serializes it to API clients
	reloaded := database.NewAccountRepository(store)
	got, err := reloaded.GetAccountByUsername("guru1")
	assert.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
	assert.NoError(t, got.CheckPassword("rahasia"))
}

func Test_accountRepository_CheckUsernameUniqueness(t *testing.T) {
	store := testutil.NewStore(t)
	repo := database.NewAccountRepository(store)

	acct := testutil.CreateAccount(t, repo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)

	assert.Equal(t, account.ErrUsernameExists, repo.CheckUsernameUniqueness("guru1"))
	assert.NoError(t, repo.CheckUsernameUniqueness("guru2"))
	// the account itself is excluded when renaming
	assert.NoError(t, repo.CheckUsernameUniqueness("guru1", acct))
}

func Test_reportRepository_Delete_ignoresUnknown(t *testing.T) {
	store := testutil.NewStore(t)
	repo := database.NewReportRepository(store)

	rep, err := repo.CreateReport(report.AdminReport{
		TeacherID:   "t1",
		TeacherName: "Guru Satu",
		MonthName:   "Mei",
		Year:        2024,
		Matrix:      [][]string{{"Laporan"}},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, rep.ReportID)

	assert.NoError(t, repo.DeleteReportsByID(rep.ReportID, "no-such-id"))
	_, err = repo.GetReportByID(rep.ReportID)
	assert.Equal(t, report.ErrNotFound, err)

	assert.NoError(t, repo.DeleteReportsByID("still-no-such-id"))
}
