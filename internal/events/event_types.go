package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRosterLoaded       EventType = "roster_loaded"
	EventVolunteerScheduled EventType = "volunteer_scheduled"
	EventWeekReset          EventType = "week_reset"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RosterLoadedPayload payload.
type RosterLoadedPayload struct {
	Rows int `json:"rows"`
}

// VolunteerScheduledPayload payload.
type VolunteerScheduledPayload struct {
	Name          string `json:"name"`
	TimesSelected int    `json:"times_selected"`
	InteractionID string `json:"interaction_id,omitempty"`
}

// WeekResetPayload payload.
type WeekResetPayload struct {
	PreviousWindowStart time.Time `json:"previous_window_start"`
	NewWindowStart      time.Time `json:"new_window_start"`
}
