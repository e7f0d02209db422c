package ports

import (
	"context"
	"encoding/json"
)

// IPlacesProxy returns the raw autocomplete JSON for input. Implemented by
// the in-process place service and by the HTTP client of a remote proxy.
type IPlacesProxy interface {
	Autocomplete(ctx context.Context, input string) (json.RawMessage, error)
}

// IPlacesProvider is the third-party autocomplete API.
type IPlacesProvider interface {
	Autocomplete(ctx context.Context, input string) (json.RawMessage, error)
}
