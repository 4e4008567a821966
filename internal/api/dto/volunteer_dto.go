package dto

// VolunteerCard is one result row shown to the user.
type VolunteerCard struct {
	Name          string `json:"name"`
	CRG           string `json:"crg"`
	Timezone      string `json:"timezone"`
	BusinessUnit  string `json:"business_unit"`
	Email         string `json:"email"`
	TimesSelected int    `json:"times_selected"`
	// InteractionID must be echoed back by the schedule call; a reused id
	// is ignored server-side.
	InteractionID string `json:"interaction_id"`
}

// FindResponse is the payload of GET /api/volunteers.
type FindResponse struct {
	Volunteers    []VolunteerCard `json:"volunteers"`
	Total         int             `json:"total"`
	ResetOccurred bool            `json:"reset_occurred"`
}

// OptionsResponse is the payload of GET /api/volunteers/options.
type OptionsResponse struct {
	CRG           []string `json:"crg"`
	Timezones     []string `json:"timezone"`
	BusinessUnits []string `json:"business_unit"`
}

// ScheduleRequest is the body of POST /api/volunteers/schedule.
type ScheduleRequest struct {
	Name          string `json:"name"`
	InteractionID string `json:"interaction_id"`
}

// ScheduleResponse is the payload of POST /api/volunteers/schedule.
type ScheduleResponse struct {
	Name          string `json:"name"`
	TimesSelected int    `json:"times_selected"`
	Mailto        string `json:"mailto"`
	Applied       bool   `json:"applied"`
	ResetOccurred bool   `json:"reset_occurred"`
}
