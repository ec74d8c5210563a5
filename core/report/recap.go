// Package report builds the full-calendar-month recap matrix out of raw habit
// records and stores the admin-report snapshots teachers submit.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/student"
)

// Placeholder marks a habit cell with no submitted rating.
const Placeholder = "-"

// MonthLayout is the ISO year-month form recap months are requested in.
const MonthLayout = "2006-01"

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Month is one calendar month of one year.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses an ISO year-month ("2024-05").
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, err
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Days returns the number of calendar days in the month, leap years included.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayDate returns the ISO calendar day for day d of the month.
func (m Month) DayDate(d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, m.Month, d)
}

// Name returns the Indonesian month name.
func (m Month) Name() string {
	return monthNames[m.Month-1]
}

type (
	// DailyStudentRecord is one student's row for one day: the submitted
	// rating ordinal ("1".."5") per habit, or Placeholder when the student
	// has no record for that day.
	DailyStudentRecord struct {
		StudentName string            `json:"student_name"`
		Habits      map[string]string `json:"habits"`
	}

	// DailyReport is one day of the recap grid.
	DailyReport struct {
		Day            int                  `json:"day"`
		Date           string               `json:"date"` // YYYY-MM-DD
		StudentRecords []DailyStudentRecord `json:"student_records"`
	}
)

// BuildMonthlyRecap produces one DailyReport per calendar day of the month,
// in ascending day order, with one row per roster student sorted by name
// (Indonesian collation, numeric-aware). Days without any record still appear
// with every cell set to Placeholder. Pure: identical inputs produce
// identical output.
func BuildMonthlyRecap(students []student.Student, records []habit.Record, m Month) []DailyReport {
	roster := make([]student.Student, len(students))
	copy(roster, students)
	coll := collate.New(language.Indonesian, collate.Numeric)
	sort.SliceStable(roster, func(i, j int) bool {
		return coll.CompareString(roster[i].Name, roster[j].Name) < 0
	})

	inRoster := make(map[string]bool, len(roster))
	for _, std := range roster {
		inRoster[std.ID] = true
	}

	// (date, studentID) -> record
	byDate := make(map[string]map[string]habit.Record)
	for _, rec := range records {
		if !inRoster[rec.StudentID] {
			continue
		}
		if byDate[rec.Date] == nil {
			byDate[rec.Date] = make(map[string]habit.Record)
		}
		byDate[rec.Date][rec.StudentID] = rec
	}

	days := m.Days()
	recap := make([]DailyReport, 0, days)
	for day := 1; day <= days; day++ {
		date := m.DayDate(day)
		forDay := byDate[date]

		rows := make([]DailyStudentRecord, 0, len(roster))
		for _, std := range roster {
			cells := make(map[string]string, len(habit.Names))
			rec, ok := forDay[std.ID]
			for _, name := range habit.Names {
				if rating, found := rec.Ratings[name]; ok && found && rating.Valid() {
					cells[name] = strconv.Itoa(int(rating))
				} else {
					cells[name] = Placeholder
				}
			}
			rows = append(rows, DailyStudentRecord{StudentName: std.Name, Habits: cells})
		}
		recap = append(recap, DailyReport{Day: day, Date: date, StudentRecords: rows})
	}
	return recap
}
