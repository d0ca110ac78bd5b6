package stepper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextClampsAtLast(t *testing.T) {
	s := Stepper{}
	s = s.Next()
	assert.Equal(t, StepFile, s.Current)
	s = s.Next()
	assert.Equal(t, StepReview, s.Current)
	assert.True(t, s.IsLast())

	assert.Equal(t, s, s.Next())
}

func TestBackClampsAtFirst(t *testing.T) {
	s := Stepper{Current: StepReview}.Back().Back()
	assert.Equal(t, StepText, s.Current)
	assert.True(t, s.IsFirst())

	assert.Equal(t, s, s.Back())
}

func TestParse(t *testing.T) {
	cases := map[string]int{
		"":    StepText,
		"x":   StepText,
		"1":   StepFile,
		"2":   StepReview,
		"9":   StepReview,
		"-3":  StepText,
		" 1 ": StepText,
	}
	for in, want := range cases {
		assert.Equal(t, want, Parse(in).Current, "input %q", in)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Formularz tekstowy", Stepper{}.Label())
	assert.Equal(t, "Trzeci ekran", Stepper{Current: 7}.Label())
	assert.Equal(t, 2, Stepper{Current: StepFile}.Number())
}
