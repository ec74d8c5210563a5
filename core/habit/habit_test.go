package habit

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/pembiasaan/core"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func Test_Rating_labels(t *testing.T) {
	tests := []struct {
		rating Rating
		label  string
	}{
		{RatingVeryUnaccustomed, "Sangat Tidak Terbiasa"},
		{RatingLessAccustomed, "Kurang Terbiasa"},
		{RatingNotYetAccustomed, "Belum Terbiasa"},
		{RatingAccustomed, "Terbiasa"},
		{RatingWellAccustomed, "Sudah Terbiasa"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.True(t, tt.rating.Valid())
			assert.Equal(t, tt.label, tt.rating.Label())

			back, ok := RatingFromLabel(tt.label)
			assert.True(t, ok)
			assert.Equal(t, tt.rating, back)
		})
	}
}

func Test_Rating_Valid_bounds(t *testing.T) {
	assert.False(t, Rating(0).Valid())
	assert.False(t, Rating(6).Valid())
	assert.False(t, Rating(-1).Valid())

	_, ok := RatingFromLabel("lol")
	assert.False(t, ok)
}

func Test_IsHabitName(t *testing.T) {
	assert.Len(t, Names, 7)
	for _, name := range Names {
		assert.True(t, IsHabitName(name))
	}
	assert.False(t, IsHabitName("Menonton TV"))
}

func Test_RecordInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   RecordInput
		wantErr bool
	}{
		{
			name: "ok",
			input: RecordInput{
				StudentID: "s1",
				Date:      "2024-05-20",
				Ratings:   map[string]Rating{"Bangun Pagi": RatingAccustomed},
			},
		},
		{
			name: "bad date",
			input: RecordInput{
				StudentID: "s1",
				Date:      "2024-05-32",
				Ratings:   map[string]Rating{"Bangun Pagi": RatingAccustomed},
			},
			wantErr: true,
		},
		{
			name: "unknown habit",
			input: RecordInput{
				StudentID: "s1",
				Date:      "2024-05-20",
				Ratings:   map[string]Rating{"Menonton TV": RatingAccustomed},
			},
			wantErr: true,
		},
		{
			name: "rating out of range",
			input: RecordInput{
				StudentID: "s1",
				Date:      "2024-05-20",
				Ratings:   map[string]Rating{"Bangun Pagi": Rating(9)},
			},
			wantErr: true,
		},
	}

	validate := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
