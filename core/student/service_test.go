package student_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/student"
	"github.com/sekolahku/pembiasaan/storage/database"
	testutil "github.com/sekolahku/pembiasaan/tests"
)

type fixture struct {
	acctRepo  account.Repository
	stdRepo   student.Repository
	habitRepo habit.Repository
	svc       *student.Service
	habitSvc  *habit.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)

	acctRepo := database.NewAccountRepository(store)
	stdRepo := database.NewStudentRepository(store)
	habitRepo := database.NewHabitRepository(store)

	habitSvc := habit.NewService(habitRepo)
	svc := student.NewService(stdRepo, habitSvc, acctRepo)

	return &fixture{
		acctRepo:  acctRepo,
		stdRepo:   stdRepo,
		habitRepo: habitRepo,
		svc:       svc,
		habitSvc:  habitSvc,
	}
}

func Test_Service_Create_checksTeacher(t *testing.T) {
	fix := setup(t)
	teacher := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)
	admin := testutil.CreateAccount(t, fix.acctRepo, "Kepala", "kepala", "pwd", account.RoleAdmin)

	tests := []struct {
		name      string
		teacherID string
		wantErr   error
	}{
		{name: "ok", teacherID: teacher.ID},
		{name: "unknown teacher", teacherID: "no-such-id", wantErr: student.ErrTeacherNotFound},
		{name: "admin is not a teacher", teacherID: admin.ID, wantErr: student.ErrTeacherNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fix.svc.Create(student.NewStudent{
				Name:          "Budi",
				StudentNumber: "0001",
				ClassLabel:    "5A",
				TeacherID:     tt.teacherID,
			})
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Service_BulkImport(t *testing.T) {
	fix := setup(t)
	teacher := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)

	rows := []student.ImportRow{
		{Number: "1", Name: "Budi", StudentNumber: "0001", ClassLabel: "5A"},
		{Number: "2", Name: "Citra", StudentNumber: "0002", ClassLabel: "5A"},
		{Number: "3", Name: ""}, // invalid: no name
	}
	res, err := fix.svc.BulkImport(teacher.ID, rows)
	assert.NoError(t, err)
	assert.Equal(t, student.ImportResult{Created: 2, Skipped: 0, Invalid: 1}, res)

	stds, err := fix.svc.QueryByTeacher(teacher.ID)
	assert.NoError(t, err)
	assert.Len(t, stds, 2)
	for _, std := range stds {
		assert.Equal(t, teacher.ID, std.TeacherID)
	}

	_, err = fix.svc.BulkImport("no-such-id", rows)
	assert.Equal(t, student.ErrTeacherNotFound, err)
}

func Test_Service_Delete_cascadesRecords(t *testing.T) {
	fix := setup(t)
	teacher := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)

	s1 := testutil.CreateStudent(t, fix.stdRepo, "Budi", "0001", "5A", teacher.ID)
	s2 := testutil.CreateStudent(t, fix.stdRepo, "Citra", "0002", "5A", teacher.ID)
	s3 := testutil.CreateStudent(t, fix.stdRepo, "Adi", "0003", "5A", teacher.ID)

	ratings := map[string]habit.Rating{"Tidur Cukup": habit.RatingWellAccustomed}
	testutil.CreateRecord(t, fix.habitRepo, s1.ID, "2024-05-01", ratings)
	testutil.CreateRecord(t, fix.habitRepo, s1.ID, "2024-05-02", ratings)
	testutil.CreateRecord(t, fix.habitRepo, s2.ID, "2024-05-01", ratings)
	testutil.CreateRecord(t, fix.habitRepo, s3.ID, "2024-05-01", ratings)

	err := fix.svc.Delete(s1.ID, s2.ID, "no-such-id")
	assert.NoError(t, err)

	stds, err := fix.stdRepo.QueryAllStudents()
	assert.NoError(t, err)
	assert.Len(t, stds, 1)
	assert.Equal(t, s3.ID, stds[0].ID)

	// no orphaned records remain for the deleted students
	recs, err := fix.habitRepo.QueryAllRecords()
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, s3.ID, recs[0].StudentID)
}

func Test_Service_DeleteByTeachers(t *testing.T) {
	fix := setup(t)
	t1 := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)
	t2 := testutil.CreateAccount(t, fix.acctRepo, "Guru Dua", "guru2", "pwd", account.RoleTeacher)

	s1 := testutil.CreateStudent(t, fix.stdRepo, "Budi", "0001", "5A", t1.ID)
	s2 := testutil.CreateStudent(t, fix.stdRepo, "Adi", "0002", "5B", t2.ID)
	testutil.CreateRecord(t, fix.habitRepo, s1.ID, "2024-05-01", map[string]habit.Rating{"Olahraga": habit.RatingAccustomed})

	assert.NoError(t, fix.svc.DeleteByTeachers(t1.ID))

	stds, err := fix.stdRepo.QueryAllStudents()
	assert.NoError(t, err)
	assert.Len(t, stds, 1)
	assert.Equal(t, s2.ID, stds[0].ID)

	recs, err := fix.habitRepo.QueryAllRecords()
	assert.NoError(t, err)
	assert.Empty(t, recs)

	// no students: a no-op
	assert.NoError(t, fix.svc.DeleteByTeachers("no-such-id"))
}

func Test_Service_Update(t *testing.T) {
	fix := setup(t)
	teacher := testutil.CreateAccount(t, fix.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)
	std := testutil.CreateStudent(t, fix.stdRepo, "Budi", "0001", "5A", teacher.ID)

	updated, err := fix.svc.Update(std.ID, student.UpdateStudent{ClassLabel: "6A"})
	assert.NoError(t, err)
	assert.Equal(t, "Budi", updated.Name)
	assert.Equal(t, "0001", updated.StudentNumber)
	assert.Equal(t, "6A", updated.ClassLabel)
	assert.Equal(t, teacher.ID, updated.TeacherID)

	_, err = fix.svc.Update("no-such-id", student.UpdateStudent{Name: "X"})
	assert.Equal(t, student.ErrNotFound, err)
}
