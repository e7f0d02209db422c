package dto

import "rider/internal/rider-service/core/domain/model"

// SuggestionResult answers one location update. Stale results were
// overtaken by a newer keystroke or a selection and must not be shown.
type SuggestionResult struct {
	Field       model.Field          `json:"field"`
	Seq         uint64               `json:"seq"`
	Suggestions model.SuggestionList `json:"suggestions"`
	Stale       bool                 `json:"stale"`
}

// FormPatch carries the fields posted by the plain HTML form. Nil means
// "not sent".
type FormPatch struct {
	Start       *string
	Destination *string
	ScheduledAt *string
	VehicleType *string
}

type SessionView struct {
	Form        model.FormState                      `json:"form"`
	Suggestions map[model.Field]model.SuggestionList `json:"suggestions"`
}

func NewSessionView(s model.Session) SessionView {
	c := s.Clone()
	return SessionView{
		Form:        c.Form,
		Suggestions: c.Suggestions,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Broker string `json:"broker"`
}
