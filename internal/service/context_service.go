package service

import (
	"context"
	"strings"
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/entity"
	"moodflix-be/internal/mapper"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/pkg/ambient"
	"moodflix-be/pkg/emotion"
	"moodflix-be/pkg/voice"
)

// ILocator resolves a client address to a coarse location.
type ILocator interface {
	Locate(ctx context.Context, ip string) (ambient.Location, error)
}

// IWeatherProvider reports current conditions for a location.
type IWeatherProvider interface {
	Current(ctx context.Context, loc ambient.Location) (ambient.Weather, error)
}

type IContextService interface {
	// GetContext detects location, weather and day information for a client.
	GetContext(ctx context.Context, req *dto.ContextRequest, clientIP string) (*dto.ContextResponse, error)
	// Assemble does the same and returns the snapshot.
	Assemble(ctx context.Context, req *dto.ContextRequest, clientIP string) entity.Context
	// FromRecommendRequest builds the snapshot a recommend call works from using only
	// client-supplied fields and their defaults.
	FromRecommendRequest(req *dto.RecommendRequest) entity.Context
}

type contextService struct {
	locator  ILocator
	weather  IWeatherProvider
	calendar ambient.HolidayCalendar
	mapper   *mapper.ContextMapper
	logger   logger.ILogger
	now      func() time.Time
}

func NewContextService(
	locator ILocator,
	weather IWeatherProvider,
	calendar ambient.HolidayCalendar,
	logger logger.ILogger,
) IContextService {
	return &contextService{
		locator:  locator,
		weather:  weather,
		calendar: calendar,
		mapper:   mapper.NewContextMapper(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *contextService) GetContext(ctx context.Context, req *dto.ContextRequest, clientIP string) (*dto.ContextResponse, error) {
	return s.mapper.ToResponse(s.Assemble(ctx, req, clientIP)), nil
}

func (s *contextService) Assemble(ctx context.Context, req *dto.ContextRequest, clientIP string) entity.Context {
	now := s.now()
	c := entity.NewContext(now)

	loc := ambient.DefaultLocation()
	switch {
	case req != nil && strings.TrimSpace(req.City) != "":
		loc.City = strings.TrimSpace(req.City)
		if req.Latitude != nil && req.Longitude != nil {
			loc.Latitude, loc.Longitude = *req.Latitude, *req.Longitude
		}
	case req != nil && req.Latitude != nil && req.Longitude != nil:
		loc.Latitude, loc.Longitude = *req.Latitude, *req.Longitude
	case s.locator != nil:
		found, err := s.locator.Locate(ctx, clientIP)
		if err != nil {
			s.logger.Warn("ContextService", "Geolocation unavailable, using defaults", map[string]interface{}{"error": err.Error()})
		} else {
			loc = found
		}
	}
	c.Location = entity.Location{City: loc.City, Latitude: loc.Latitude, Longitude: loc.Longitude}

	if s.weather != nil {
		w, err := s.weather.Current(ctx, loc)
		if err != nil {
			s.logger.Warn("ContextService", "Weather unavailable, using defaults", map[string]interface{}{"error": err.Error(), "city": loc.City})
			w = ambient.DefaultWeather()
		}
		c.Ambient = entity.Ambient{WeatherDescription: w.Description, Temperature: w.Temperature}
	}

	days := ambient.Days(s.calendar, now)
	c.Calendar = entity.Calendar{TodayStatus: days.TodayStatus, TomorrowStatus: days.TomorrowStatus, Weekday: days.Weekday}

	return c
}

func (s *contextService) FromRecommendRequest(req *dto.RecommendRequest) entity.Context {
	c := entity.NewContext(s.now())
	if req == nil {
		return c
	}

	if city := strings.TrimSpace(req.City); city != "" {
		c.Location.City = city
	}
	if req.Latitude != nil {
		c.Location.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		c.Location.Longitude = *req.Longitude
	}
	if w := strings.TrimSpace(req.Weather); w != "" {
		c.Ambient.WeatherDescription = w
	}
	if req.Temperature != nil {
		c.Ambient.Temperature = *req.Temperature
	}
	if req.TodayStatus != "" {
		c.Calendar.TodayStatus = ambient.NormalizeStatus(req.TodayStatus)
	}
	c.Emotion = emotion.Normalize(req.Emotion)
	if req.EmotionConfidence != nil {
		c.EmotionConfidence = *req.EmotionConfidence
	}
	c.VoiceTone = string(voice.NormalizeTone(req.VoiceTone))
	c.WatchedItems = cleanTitles(req.WatchedMovies)
	c.AvailableItems = cleanTitles(req.AvailableMovies)
	return c
}

func cleanTitles(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
