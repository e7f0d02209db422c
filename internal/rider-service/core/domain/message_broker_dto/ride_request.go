package messagebrokerdto

import "time"

// RideRequested is published when a user submits the form.
type RideRequested struct {
	RequestID   string    `json:"request_id"`
	SessionID   string    `json:"session_id"`
	Locale      string    `json:"locale"`
	VehicleType string    `json:"vehicle_type"`
	Start       string    `json:"start"`
	Destination string    `json:"destination"`
	ScheduledAt string    `json:"scheduled_at"`
	Link        string    `json:"link"`
	RequestedAt time.Time `json:"requested_at"`
}
