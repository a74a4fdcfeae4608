package domain

import (
	"errors"
	"testing"
)

func TestRating_Validate(t *testing.T) {
	valid := []float64{0.5, 1, 2.5, 4.5, 5}
	for _, v := range valid {
		if err := (Rating{Value: v}).Validate(); err != nil {
			t.Errorf("Validate(%v) = %v, expected nil", v, err)
		}
	}

	invalid := []float64{0, 0.4, 5.5, -1, 3.7}
	for _, v := range invalid {
		err := (Rating{Value: v}).Validate()
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Validate(%v) = %v, expected ErrInvalidRating", v, err)
		}
	}
}
