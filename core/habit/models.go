package habit

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/pembiasaan/core"
)

// DateLayout is the ISO calendar-day form records are keyed by.
const DateLayout = "2006-01-02"

// Record holds one student's habit ratings for one calendar day.
// At most one Record exists per (StudentID, Date) pair.
type Record struct {
	ID        string            `json:"id"`
	StudentID string            `json:"student_id"`
	Date      string            `json:"date"` // YYYY-MM-DD
	Ratings   map[string]Rating `json:"habits"`
}

// RecordInput is a day's ratings submission for one student.
// Resubmitting the same (student, date) replaces the ratings in place.
type RecordInput struct {
	StudentID string            `json:"student_id" validate:"required"`
	Date      string            `json:"date" validate:"required,calday"`
	Ratings   map[string]Rating `json:"habits" validate:"required"`
}

func (in *RecordInput) Validate(validate *validator.Validate) error {
	in.Date = core.CleanString(in.Date)
	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "not a valid calendar day"})
	}
	for name, rating := range in.Ratings {
		if !IsHabitName(name) {
			return core.NewValidationError(nil, core.FieldError{Field: "habits", Error: "unknown habit: " + name})
		}
		if !rating.Valid() {
			return core.NewValidationError(nil, core.FieldError{Field: "habits", Error: "rating out of range for " + name})
		}
	}
	return nil
}
