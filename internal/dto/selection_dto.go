package dto

type LogSelectionRequest struct {
	City           string   `json:"city"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	TodayStatus    string   `json:"today_status"`
	TomorrowStatus string   `json:"tomorrow_status"`
	Weekday        string   `json:"weekday"`
	Weather        string   `json:"weather"`
	Temperature    *float64 `json:"temperature"`
	Mood           string   `json:"mood"`
	VoiceTone      string   `json:"voice_tone"`
	Movie          string   `json:"movie" validate:"required,max=300"`
}

type LogSelectionResponse struct {
	Status string `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type MovieCount struct {
	Movie string `json:"movie"`
	Count int    `json:"count"`
}

type SelectionStatsResponse struct {
	Total     int                     `json:"total"`
	ByMood    map[string]int          `json:"by_mood"`
	TopMovies map[string][]MovieCount `json:"top_movies"`
}
