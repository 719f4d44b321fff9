package entity

import (
	"time"

	"moodflix-be/pkg/ambient"
	"moodflix-be/pkg/emotion"
	"moodflix-be/pkg/voice"
)

type Location struct {
	City      string
	Latitude  float64
	Longitude float64
}

type Ambient struct {
	WeatherDescription string
	Temperature        float64
}

type Calendar struct {
	TodayStatus    string
	TomorrowStatus string
	Weekday        string
}

// Context is the assembled snapshot one recommend call works from. Build it with
// NewContext and treat it as read-only afterwards.
type Context struct {
	Location          Location
	Ambient           Ambient
	Calendar          Calendar
	Emotion           string
	EmotionConfidence float64
	VoiceTone         string
	// WatchedItems is ordered most recent first.
	WatchedItems []string
	// AvailableItems restricts recommendations when non-empty.
	AvailableItems []string
	AssembledAt    time.Time
}

// NewContext returns a context with every field at its documented default.
func NewContext(now time.Time) Context {
	return Context{
		Location: Location{City: ambient.DefaultCity},
		Ambient: Ambient{
			WeatherDescription: ambient.DefaultWeatherDescription,
			Temperature:        ambient.DefaultTemperature,
		},
		Calendar: Calendar{
			TodayStatus:    ambient.StatusWeekday,
			TomorrowStatus: ambient.StatusWeekday,
			Weekday:        now.Weekday().String(),
		},
		Emotion:           emotion.Neutral,
		EmotionConfidence: emotion.DefaultConfidence,
		VoiceTone:         string(voice.ToneNeutral),
		WatchedItems:      []string{},
		AvailableItems:    []string{},
		AssembledAt:       now,
	}
}
