package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/pembiasaan/core"
)

type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StudentNumber string `json:"nisn"` // NISN
	ClassLabel    string `json:"class"`
	TeacherID     string `json:"teacher_id"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name          string `json:"name" validate:"required"`
	StudentNumber string `json:"nisn" validate:"required"`
	ClassLabel    string `json:"class" validate:"required"`
	TeacherID     string `json:"teacher_id" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.StudentNumber = core.CleanString(ns.StudentNumber)
	ns.ClassLabel = core.CleanString(ns.ClassLabel)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing
// Student. Blank fields keep their current value. TeacherID never changes.
type UpdateStudent struct {
	Name          string `json:"name"`
	StudentNumber string `json:"nisn"`
	ClassLabel    string `json:"class"`
}

// ImportRow is one row of a student bulk import. Only Name is mandatory.
type ImportRow struct {
	Number        string
	Name          string
	StudentNumber string
	ClassLabel    string
}

// ImportResult reports the partial-success outcome of a bulk import.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// student import sheet headers; Indonesian aliases come from the exported templates
var importHeaderAliases = map[string]string{
	"number":        "no",
	"no":            "no",
	"name":          "name",
	"nama":          "name",
	"studentnumber": "nisn",
	"nisn":          "nisn",
	"classlabel":    "kelas",
	"kelas":         "kelas",
}

// RowsFromTable maps header-keyed tabular data (first row = headers) to ImportRows.
func RowsFromTable(table [][]string) []ImportRow {
	if len(table) < 2 {
		return nil
	}
	cols := make(map[string]int, len(table[0]))
	for i, h := range table[0] {
		if key, ok := importHeaderAliases[core.CleanString(h, true /* lower */)]; ok {
			cols[key] = i
		}
	}

	cell := func(row []string, key string) string {
		if i, ok := cols[key]; ok && i < len(row) {
			return core.CleanString(row[i])
		}
		return ""
	}

	rows := make([]ImportRow, 0, len(table)-1)
	for _, r := range table[1:] {
		rows = append(rows, ImportRow{
			Number:        cell(r, "no"),
			Name:          cell(r, "name"),
			StudentNumber: cell(r, "nisn"),
			ClassLabel:    cell(r, "kelas"),
		})
	}
	return rows
}
