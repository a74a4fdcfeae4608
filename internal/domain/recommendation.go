package domain

import (
	"encoding/json"
	"errors"
)

// RatedCoaster is one rating entry in the engine payload.
type RatedCoaster struct {
	CoasterID int64   `json:"coaster_id"`
	Rating    float64 `json:"rating"`
}

// RecommendRequest is the outbound engine payload. Countries and ratings
// are omitted entirely when empty rather than sent as null.
type RecommendRequest struct {
	Countries []string       `json:"countries,omitempty"`
	Ratings   []RatedCoaster `json:"ratings,omitempty"`
	TopK      int            `json:"top_k"`
}

var errMissingCoasterID = errors.New(`missing "coaster_id" field`)

// Recommendation is a single engine result. CoasterID is the only field
// with a fixed contract; everything else the engine returned lives in
// Attrs under its original key. Attr values carry the JSON variant set:
// string, float64, bool, nil, map[string]any, []any.
type Recommendation struct {
	CoasterID int64
	Attrs     map[string]any
}

// UnmarshalJSON decodes one engine result item. Unknown fields are retained
// in the attribute bag; a missing or non-integer coaster_id is an error.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	idRaw, ok := raw["coaster_id"]
	if !ok {
		return errMissingCoasterID
	}
	if err := json.Unmarshal(idRaw, &r.CoasterID); err != nil {
		return err
	}

	r.Attrs = make(map[string]any, len(raw)-1)
	for k, v := range raw {
		if k == "coaster_id" {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		r.Attrs[k] = val
	}
	return nil
}

// MarshalJSON re-exposes attribute keys at the same level as coaster_id,
// mirroring the wire shape the engine produced.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attrs)+1)
	for k, v := range r.Attrs {
		out[k] = v
	}
	out["coaster_id"] = r.CoasterID
	return json.Marshal(out)
}
