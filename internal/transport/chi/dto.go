package chi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trackworks/coasterec/internal/domain"
)

var validate = validator.New()

// Error codes returned in the error envelope.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeUnauthorized           = "unauthorized"
	codeUserNotFound           = "user_not_found"
	codeCoasterNotFound        = "coaster_not_found"
	codeCountryNotFound        = "country_not_found"
	codeCountryExists          = "country_already_exists"
	codeAccessNotFound         = "country_access_not_found"
	codeRatingNotFound         = "rating_not_found"
	codeInvalidRating          = "invalid_rating"
	codeRecommenderUnavailable = "recommender_unavailable"
	codeMalformedEngineReply   = "malformed_engine_response"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createUserRequest struct {
	ID        string `json:"id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country" validate:"required"`
}

func (r createUserRequest) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Country:   r.Country,
	}
}

type updateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country" validate:"required"`
}

type coasterRequest struct {
	Name         string  `json:"name" validate:"required"`
	Park         string  `json:"amusement_park"`
	Type         string  `json:"type"`
	Design       string  `json:"design"`
	Status       string  `json:"status"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	Length       float64 `json:"length"`
	Height       float64 `json:"height"`
	Drop         float64 `json:"drop"`
	Speed        float64 `json:"speed"`
	Inversions   float64 `json:"inversions"`
	Duration     float64 `json:"duration"`
	Country      string  `json:"country" validate:"required"`
}

func (r coasterRequest) toDomain() domain.Coaster {
	return domain.Coaster{
		Name:         r.Name,
		Park:         r.Park,
		Type:         r.Type,
		Design:       r.Design,
		Status:       r.Status,
		Manufacturer: r.Manufacturer,
		Model:        r.Model,
		Length:       r.Length,
		Height:       r.Height,
		Drop:         r.Drop,
		Speed:        r.Speed,
		Inversions:   r.Inversions,
		Duration:     r.Duration,
		Country:      r.Country,
	}
}

type createCountryRequest struct {
	Name string `json:"country_name" validate:"required"`
}

type accessRequest struct {
	SourceCountry     string `json:"source_country" validate:"required"`
	AccessibleCountry string `json:"accessible_country" validate:"required"`
}

type ratingRequest struct {
	UserID    string  `json:"user_id" validate:"required"`
	CoasterID int64   `json:"roller_coaster_id" validate:"required"`
	Value     float64 `json:"rating" validate:"required"`
}

func (r ratingRequest) toDomain() domain.Rating {
	return domain.Rating{
		UserID:    r.UserID,
		CoasterID: r.CoasterID,
		Value:     r.Value,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
