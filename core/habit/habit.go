// Package habit holds the seven fixed daily habits, the 1-5 rating scale and
// the per-student-per-day rating records.
package habit

// Names are the seven fixed habits tracked daily per student
// ("7 Kebiasaan Anak Indonesia Hebat").
var Names = []string{
	"Bangun Pagi",
	"Beribadah",
	"Olahraga",
	"Makan Sehat",
	"Rajin Belajar",
	"Bermasyarakat",
	"Tidur Cukup",
}

// Rating is the ordinal 1-5 habituation scale.
type Rating int

const (
	RatingVeryUnaccustomed Rating = iota + 1 // Sangat Tidak Terbiasa
	RatingLessAccustomed                     // Kurang Terbiasa
	RatingNotYetAccustomed                   // Belum Terbiasa
	RatingAccustomed                         // Terbiasa
	RatingWellAccustomed                     // Sudah Terbiasa
)

var ratingLabels = map[Rating]string{
	RatingVeryUnaccustomed: "Sangat Tidak Terbiasa",
	RatingLessAccustomed:   "Kurang Terbiasa",
	RatingNotYetAccustomed: "Belum Terbiasa",
	RatingAccustomed:       "Terbiasa",
	RatingWellAccustomed:   "Sudah Terbiasa",
}

func (r Rating) Valid() bool {
	return r >= RatingVeryUnaccustomed && r <= RatingWellAccustomed
}

// Label returns the fixed display label for the rating.
func (r Rating) Label() string {
	return ratingLabels[r]
}

// RatingFromLabel maps a display label back to its ordinal rating.
func RatingFromLabel(label string) (Rating, bool) {
	for r, l := range ratingLabels {
		if l == label {
			return r, true
		}
	}
	return 0, false
}

// IsHabitName reports whether name is one of the seven fixed habits.
func IsHabitName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
