package myerrors

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamUnavailable       = errors.New("places provider unavailable")
	ErrMalformedUpstreamResponse = errors.New("malformed places provider response")
	ErrInvalidSchedule           = errors.New("invalid schedule")
	ErrSessionNotFound           = errors.New("session not found")
	ErrUnknownField              = errors.New("unknown form field")
	ErrUnknownVehicleType        = errors.New("unknown vehicle type")
	ErrUnknownLocale             = errors.New("unknown locale")
	ErrStoreConnClosed           = errors.New("session store is closed")
)

// UpstreamStatusError reports a non-2xx answer of the places provider.
type UpstreamStatusError struct {
	Status int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("places provider answered %d", e.Status)
}

func (e *UpstreamStatusError) Unwrap() error {
	return ErrUpstreamUnavailable
}

// InvalidScheduleError keeps the raw input that failed to parse.
type InvalidScheduleError struct {
	Raw string
}

func (e *InvalidScheduleError) Error() string {
	if e.Raw == "" {
		return "invalid schedule: no date selected"
	}
	return fmt.Sprintf("invalid schedule: %q", e.Raw)
}

func (e *InvalidScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}
