package habit

import (
	"errors"
)

var (
	// errors
	ErrNotFound = errors.New("habit record not found")
)

type (
	Repository interface {
		// UpsertRecord replaces the ratings of the record keyed by
		// (StudentID, Date), or appends a new record if none exists.
		UpsertRecord(rec Record) (Record, error)
		QueryAllRecords() ([]Record, error)
		QueryRecordsByStudentID(studentIDs ...string) ([]Record, error)
		GetRecordByStudentDate(studentID, date string) (Record, error)
		DeleteRecordsByStudentID(studentIDs ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert stores a day's ratings for a student. Idempotent: resubmitting the
// same pair never creates a duplicate; the latest ratings win.
func (svc *Service) Upsert(in RecordInput) (Record, error) {
	rec := Record{
		StudentID: in.StudentID,
		Date:      in.Date,
		Ratings:   in.Ratings,
	}
	return svc.repo.UpsertRecord(rec)
}

func (svc *Service) GetByStudentDate(studentID, date string) (Record, error) {
	return svc.repo.GetRecordByStudentDate(studentID, date)
}

func (svc *Service) QueryByStudents(studentIDs ...string) ([]Record, error) {
	return svc.repo.QueryRecordsByStudentID(studentIDs...)
}

// DeleteByStudents implements student.RecordRemover.
func (svc *Service) DeleteByStudents(studentIDs ...string) error {
	return svc.repo.DeleteRecordsByStudentID(studentIDs...)
}
