package dto

// ContextRequest optionally overrides auto-detected location fields.
type ContextRequest struct {
	City      string   `json:"city" query:"city" validate:"omitempty,max=120"`
	Latitude  *float64 `json:"latitude" query:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" query:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type ContextResponse struct {
	City               string  `json:"city"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Weather            string  `json:"weather"`
	WeatherDescription string  `json:"weather_description"`
	Temperature        float64 `json:"temperature"`
	TodayStatus        string  `json:"today_status"`
	TomorrowStatus     string  `json:"tomorrow_status"`
	Weekday            string  `json:"weekday"`
	Timestamp          string  `json:"timestamp"`
}
