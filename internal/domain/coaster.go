package domain

// Coaster is a roller coaster record. Physical stats are imputed upstream
// and stored as-is.
type Coaster struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Park          string  `json:"amusement_park"`
	Type          string  `json:"type,omitempty"`
	Design        string  `json:"design,omitempty"`
	Status        string  `json:"status,omitempty"`
	Manufacturer  string  `json:"manufacturer,omitempty"`
	Model         string  `json:"model,omitempty"`
	Length        float64 `json:"length,omitempty"`
	Height        float64 `json:"height,omitempty"`
	Drop          float64 `json:"drop,omitempty"`
	Speed         float64 `json:"speed,omitempty"`
	Inversions    float64 `json:"inversion_count,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	Country       string  `json:"country"`
	AverageRating float64 `json:"average_rating,omitempty"`
}
