package dto

import "encoding/json"

// PlaceResponse is the body of GET /api/place.
type PlaceResponse struct {
	LocData json.RawMessage `json:"locData"`
}

// EmptyLocData is sent whenever the upstream call fails.
var EmptyLocData = json.RawMessage(`{"predictions":[]}`)

type Prediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}
