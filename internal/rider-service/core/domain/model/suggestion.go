package model

// Suggestion is one autocomplete entry: the provider's place id and the text
// shown to the user.
type Suggestion struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SuggestionList keeps provider order. It is replaced wholesale, never merged.
type SuggestionList []Suggestion
