package student

import (
	"errors"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrTeacherNotFound = errors.New("owning teacher account does not exist")
)

type (
	Repository interface {
		CreateStudent(std Student) (Student, error)
		CreateStudents(stds []Student) ([]Student, error)
		QueryAllStudents() ([]Student, error)
		QueryStudentsByTeacherID(teacherIDs ...string) ([]Student, error)
		GetStudentByID(id string) (Student, error)
		UpdateStudent(std Student) (Student, error)
		DeleteStudentsByID(ids ...string) error
	}

	// RecordRemover cascades habit-record deletion for removed students.
	// Implemented by habit.Service.
	RecordRemover interface {
		DeleteByStudents(studentIDs ...string) error
	}

	// TeacherDirectory resolves teacher accounts for the creation-time
	// ownership check. Implemented by account.Repository.
	TeacherDirectory interface {
		GetAccountByID(id string) (account.Account, error)
	}

	Service struct {
		repo     Repository
		records  RecordRemover
		teachers TeacherDirectory
	}
)

func NewService(repo Repository, records RecordRemover, teachers TeacherDirectory) *Service {
	return &Service{repo: repo, records: records, teachers: teachers}
}

// checkTeacher validates the owning-teacher reference. The relationship is
// only checked here, at creation time; it is not re-validated afterwards.
func (svc *Service) checkTeacher(teacherID string) error {
	acct, err := svc.teachers.GetAccountByID(teacherID)
	if err != nil {
		if err == account.ErrNotFound {
			return ErrTeacherNotFound
		}
		return err
	}
	if !acct.IsTeacher() {
		return ErrTeacherNotFound
	}
	return nil
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	if err := svc.checkTeacher(ns.TeacherID); err != nil {
		return Student{}, err
	}
	std := Student{
		Name:          ns.Name,
		StudentNumber: ns.StudentNumber,
		ClassLabel:    ns.ClassLabel,
		TeacherID:     ns.TeacherID,
	}
	return svc.repo.CreateStudent(std)
}

// BulkImport imports student rows for one teacher with partial success:
// a row with a blank name is counted invalid.
func (svc *Service) BulkImport(teacherID string, rows []ImportRow) (ImportResult, error) {
	if err := svc.checkTeacher(teacherID); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	batch := make([]Student, 0, len(rows))
	for _, row := range rows {
		name := core.CleanString(row.Name)
		if name == "" {
			res.Invalid++
			continue
		}
		batch = append(batch, Student{
			Name:          name,
			StudentNumber: core.CleanString(row.StudentNumber),
			ClassLabel:    core.CleanString(row.ClassLabel),
			TeacherID:     teacherID,
		})
	}
	if len(batch) > 0 {
		if _, err := svc.repo.CreateStudents(batch); err != nil {
			return res, err
		}
	}
	res.Created = len(batch)
	return res, nil
}

func (svc *Service) QueryByTeacher(teacherID string) ([]Student, error) {
	return svc.repo.QueryStudentsByTeacherID(teacherID)
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if name := core.CleanString(us.Name); name != "" {
		std.Name = name
	}
	if nisn := core.CleanString(us.StudentNumber); nisn != "" {
		std.StudentNumber = nisn
	}
	if class := core.CleanString(us.ClassLabel); class != "" {
		std.ClassLabel = class
	}
	return svc.repo.UpdateStudent(std)
}

// Delete removes students and cascades to their habit records, as one logical
// operation from the caller's perspective. Unknown ids are ignored.
func (svc *Service) Delete(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := svc.records.DeleteByStudents(ids...); err != nil {
		return err
	}
	return svc.repo.DeleteStudentsByID(ids...)
}

// DeleteByTeachers removes every student owned by the given teachers,
// cascading to their habit records. Implements account.Roster.
func (svc *Service) DeleteByTeachers(teacherIDs ...string) error {
	stds, err := svc.repo.QueryStudentsByTeacherID(teacherIDs...)
	if err != nil {
		return err
	}
	if len(stds) == 0 {
		return nil
	}
	ids := make([]string, 0, len(stds))
	for _, std := range stds {
		ids = append(ids, std.ID)
	}
	return svc.Delete(ids...)
}
