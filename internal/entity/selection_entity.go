package entity

import (
	"time"

	"github.com/google/uuid"
)

// Selection is one realised choice, the unit of the append-only selection log.
type Selection struct {
	Id             uuid.UUID
	Timestamp      time.Time
	City           string
	Latitude       float64
	Longitude      float64
	TodayStatus    string
	TomorrowStatus string
	Weekday        string
	WeatherDesc    string
	Temperature    float64
	Mood           string
	VoiceTone      string
	MovieSelected  string
}
