package websocketdto

import "encoding/json"

const (
	EventFragment    = "fragment"
	EventSuggestions = "suggestions"
	EventError       = "error"
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Fragment struct {
	Field    string `json:"field"`
	Fragment string `json:"fragment"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
