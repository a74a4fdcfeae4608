package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrCoasterNotFound signals a missing roller coaster.
	ErrCoasterNotFound = errors.New("roller coaster not found")
	// ErrCountryNotFound signals a missing country.
	ErrCountryNotFound = errors.New("country not found")
	// ErrCountryExists signals a duplicate country name.
	ErrCountryExists = errors.New("country already exists")
	// ErrAccessNotFound signals a missing country access mapping.
	ErrAccessNotFound = errors.New("country access not found")
	// ErrRatingNotFound signals a missing coaster rating.
	ErrRatingNotFound = errors.New("coaster rating not found")
	// ErrInvalidRating signals a rating value outside the allowed scale.
	ErrInvalidRating = errors.New("invalid rating value")

	// ErrRecommenderUnavailable signals a transport-level failure or timeout
	// calling the external recommendation engine.
	ErrRecommenderUnavailable = errors.New("recommender unavailable")
	// ErrMalformedResponse signals an engine response that decoded as JSON
	// but violated the wire contract.
	ErrMalformedResponse = errors.New("malformed recommender response")
)

// RecommenderUnavailableError wraps ErrRecommenderUnavailable with the
// endpoint and the underlying cause so the failure can be diagnosed
// without re-running the call.
type RecommenderUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *RecommenderUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRecommenderUnavailable.Error(), e.Endpoint, e.Err)
}

func (e *RecommenderUnavailableError) Unwrap() error { return ErrRecommenderUnavailable }

// MalformedResponseError wraps ErrMalformedResponse with the offending item
// index. Item is -1 when the response body as a whole could not be decoded.
type MalformedResponseError struct {
	Item int
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("%s: body: %v", ErrMalformedResponse.Error(), e.Err)
	}
	return fmt.Sprintf("%s: item %d: %v", ErrMalformedResponse.Error(), e.Item, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }
