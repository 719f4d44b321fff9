package mapper

import (
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/entity"
	"moodflix-be/pkg/ranking"
)

type ContextMapper struct{}

func NewContextMapper() *ContextMapper {
	return &ContextMapper{}
}

func (m *ContextMapper) ToResponse(c entity.Context) *dto.ContextResponse {
	return &dto.ContextResponse{
		City:               c.Location.City,
		Latitude:           c.Location.Latitude,
		Longitude:          c.Location.Longitude,
		Weather:            c.Ambient.WeatherDescription,
		WeatherDescription: c.Ambient.WeatherDescription,
		Temperature:        c.Ambient.Temperature,
		TodayStatus:        c.Calendar.TodayStatus,
		TomorrowStatus:     c.Calendar.TomorrowStatus,
		Weekday:            c.Calendar.Weekday,
		Timestamp:          c.AssembledAt.Format(time.RFC3339),
	}
}

func (m *ContextMapper) ToQuery(c entity.Context) ranking.Query {
	return ranking.Query{
		City:        c.Location.City,
		TodayStatus: c.Calendar.TodayStatus,
		Mood:        c.Emotion,
		Latitude:    c.Location.Latitude,
		Longitude:   c.Location.Longitude,
		Temperature: c.Ambient.Temperature,
	}
}
