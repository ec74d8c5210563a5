package report

import (
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("report not found")
)

type (
	Repository interface {
		CreateReport(rep AdminReport) (AdminReport, error)
		QueryAllReports() ([]AdminReport, error)
		GetReportByID(id string) (AdminReport, error)
		// DeleteReportsByID ignores unknown ids.
		DeleteReportsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Submit(nr NewReport) (AdminReport, error) {
	rep := AdminReport{
		TeacherID:   nr.TeacherID,
		TeacherName: nr.TeacherName,
		ClassLabel:  nr.ClassLabel,
		MonthName:   nr.MonthName,
		Year:        nr.Year,
		SubmittedAt: time.Now().UTC(),
		Matrix:      nr.Matrix,
	}
	return svc.repo.CreateReport(rep)
}

func (svc *Service) QueryAll() ([]AdminReport, error) {
	return svc.repo.QueryAllReports()
}

func (svc *Service) GetByID(id string) (AdminReport, error) {
	return svc.repo.GetReportByID(id)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteReportsByID(ids...)
}
