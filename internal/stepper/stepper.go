// Package stepper tracks which screen of the upload form is visible.
package stepper

import "strconv"

const (
	StepText = iota
	StepFile
	StepReview
)

var Labels = []string{"Formularz tekstowy", "Przesyłanie pliku", "Trzeci ekran"}

// Stepper is a step index clamped to [0, len(Labels)-1].
type Stepper struct {
	Current int
}

// Parse reads a step from a query or form value. Anything unparsable is step 0.
func Parse(v string) Stepper {
	n, err := strconv.Atoi(v)
	if err != nil {
		return Stepper{}
	}
	return Stepper{Current: clamp(n)}
}

func (s Stepper) Next() Stepper { return Stepper{Current: clamp(s.Current + 1)} }

func (s Stepper) Back() Stepper { return Stepper{Current: clamp(s.Current - 1)} }

func (s Stepper) IsFirst() bool { return s.Current == 0 }

func (s Stepper) IsLast() bool { return s.Current == len(Labels)-1 }

func (s Stepper) Label() string { return Labels[clamp(s.Current)] }

// Number is the 1-based position shown to users.
func (s Stepper) Number() int { return s.Current + 1 }

func clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > len(Labels)-1:
		return len(Labels) - 1
	default:
		return n
	}
}
