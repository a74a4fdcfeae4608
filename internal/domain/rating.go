package domain

import (
	"fmt"
	"math"
)

// Rating is a user's rating of a single coaster. Callers assume at most one
// rating per (user, coaster) pair; the store does not enforce it.
type Rating struct {
	ID        int64   `json:"id"`
	UserID    string  `json:"user_id"`
	CoasterID int64   `json:"roller_coaster_id"`
	Value     float64 `json:"rating"`
}

// Validate checks that the rating value lies in [0.5, 5.0] in increments
// of 0.5.
func (r Rating) Validate() error {
	if r.Value < 0.5 || r.Value > 5.0 {
		return fmt.Errorf("%w: %v is outside [0.5, 5.0]", ErrInvalidRating, r.Value)
	}
	if math.Mod(r.Value*2, 1) != 0 {
		return fmt.Errorf("%w: %v is not a multiple of 0.5", ErrInvalidRating, r.Value)
	}
	return nil
}
