package model

import "time"

// Field names a location input of the form.
type Field string

const (
	FieldStart       Field = "start"
	FieldDestination Field = "destination"
)

func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldStart, FieldDestination:
		return Field(s), true
	}
	return "", false
}

type VehicleType string

const (
	VehicleAuto VehicleType = "Auto"
	VehicleToto VehicleType = "Toto"
	VehicleTaxi VehicleType = "Taxi"
	VehicleCar  VehicleType = "Car"
)

// VehicleTypes in the order the form lists them.
var VehicleTypes = [...]VehicleType{VehicleAuto, VehicleToto, VehicleTaxi, VehicleCar}

func ParseVehicleType(s string) (VehicleType, bool) {
	for _, v := range VehicleTypes {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// FormState is what the user has typed or picked so far. ScheduledAt keeps
// the raw datetime-local value; it is parsed only when composing.
type FormState struct {
	Start       string      `json:"start"`
	Destination string      `json:"destination"`
	ScheduledAt string      `json:"scheduled_at"`
	VehicleType VehicleType `json:"vehicle_type"`
}

func NewFormState() FormState {
	return FormState{VehicleType: VehicleAuto}
}

func (f FormState) Location(field Field) string {
	if field == FieldDestination {
		return f.Destination
	}
	return f.Start
}

func (f *FormState) SetLocation(field Field, value string) {
	if field == FieldDestination {
		f.Destination = value
		return
	}
	f.Start = value
}

// Session is the server-side state of one open form.
type Session struct {
	ID          string                   `json:"id"`
	Form        FormState                `json:"form"`
	Suggestions map[Field]SuggestionList `json:"suggestions"`
	Seq         map[Field]uint64         `json:"seq"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func NewSession(id string, now time.Time) Session {
	return Session{
		ID:   id,
		Form: NewFormState(),
		Suggestions: map[Field]SuggestionList{
			FieldStart:       {},
			FieldDestination: {},
		},
		Seq:       map[Field]uint64{FieldStart: 0, FieldDestination: 0},
		UpdatedAt: now,
	}
}

// Normalize fills maps lost by a round trip through storage.
func (s *Session) Normalize() {
	if s.Suggestions == nil {
		s.Suggestions = make(map[Field]SuggestionList, 2)
	}
	if s.Seq == nil {
		s.Seq = make(map[Field]uint64, 2)
	}
	for _, f := range []Field{FieldStart, FieldDestination} {
		if s.Suggestions[f] == nil {
			s.Suggestions[f] = SuggestionList{}
		}
	}
	if s.Form.VehicleType == "" {
		s.Form.VehicleType = VehicleAuto
	}
}

// Clone returns a copy that shares no maps or slices with s.
func (s Session) Clone() Session {
	out := s
	out.Suggestions = make(map[Field]SuggestionList, len(s.Suggestions))
	for k, v := range s.Suggestions {
		out.Suggestions[k] = append(SuggestionList{}, v...)
	}
	out.Seq = make(map[Field]uint64, len(s.Seq))
	for k, v := range s.Seq {
		out.Seq[k] = v
	}
	return out
}
