package report

import (
	"strconv"

	"github.com/sekolahku/pembiasaan/core/habit"
)

// SheetMeta labels a recap sheet.
type SheetMeta struct {
	ClassLabel  string
	TeacherName string
	Month       Month
}

// BuildSheetMatrix flattens a monthly recap into the row/cell matrix stored on
// submitted admin reports: title and month rows, then one header + roster
// block per day, then the rating-scale legend. Merged cells, column widths and
// file output are the spreadsheet collaborator's concern, not this core's.
func BuildSheetMatrix(meta SheetMeta, recap []DailyReport) [][]string {
	matrix := [][]string{
		{"Laporan Rekapitulasi Pemantauan Kebiasaan Siswa"},
		{"Bulan: " + meta.Month.Name() + " " + strconv.Itoa(meta.Month.Year)},
		{"Kelas: " + meta.ClassLabel, "", "Guru: " + meta.TeacherName},
		{},
	}

	for _, daily := range recap {
		if len(daily.StudentRecords) == 0 {
			continue
		}
		matrix = append(matrix, []string{"TANGGAL " + strconv.Itoa(daily.Day)})

		header := append([]string{"No", "Nama Peserta Didik"}, habit.Names...)
		matrix = append(matrix, header)

		for i, row := range daily.StudentRecords {
			cells := make([]string, 0, len(habit.Names)+2)
			cells = append(cells, strconv.Itoa(i+1), row.StudentName)
			for _, name := range habit.Names {
				cells = append(cells, row.Habits[name])
			}
			matrix = append(matrix, cells)
		}
		matrix = append(matrix, []string{})
	}

	matrix = append(matrix, []string{
		"Keterangan: Angka dalam tabel merupakan nilai/skor kebiasaan harian (skala 1-5).",
	})
	return matrix
}
