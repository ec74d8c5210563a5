package report

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AdminReport is an immutable snapshot of a teacher's monthly recap at
// submission time.
type AdminReport struct {
	ReportID    string     `json:"report_id"`
	TeacherID   string     `json:"teacher_id"`
	TeacherName string     `json:"teacher_name"`
	ClassLabel  string     `json:"class"`
	MonthName   string     `json:"month_name"`
	Year        int        `json:"year"`
	SubmittedAt time.Time  `json:"submitted_at"` // UTC
	Matrix      [][]string `json:"matrix"`
}

// NewReport contains information needed to submit an AdminReport.
type NewReport struct {
	TeacherID   string     `json:"teacher_id" validate:"required"`
	TeacherName string     `json:"teacher_name" validate:"required"`
	ClassLabel  string     `json:"class"`
	MonthName   string     `json:"month_name" validate:"required"`
	Year        int        `json:"year" validate:"required"`
	Matrix      [][]string `json:"matrix" validate:"required"`
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
