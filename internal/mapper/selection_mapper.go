package mapper

import (
	"encoding/json"
	"strings"
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/entity"
	"moodflix-be/internal/model"
	"moodflix-be/pkg/ambient"
	"moodflix-be/pkg/emotion"
	"moodflix-be/pkg/ranking"
	"moodflix-be/pkg/voice"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SelectionMapper struct{}

func NewSelectionMapper() *SelectionMapper {
	return &SelectionMapper{}
}

// FromRequest fills absent fields with the log defaults. Categorical fields go through
// the same normalisation as the recommend path so logged rows match later queries.
func (m *SelectionMapper) FromRequest(req *dto.LogSelectionRequest, now time.Time) *entity.Selection {
	s := &entity.Selection{
		Id:             uuid.New(),
		Timestamp:      now,
		City:           orDefault(req.City, ambient.DefaultCity),
		TodayStatus:    ambient.NormalizeStatus(req.TodayStatus),
		TomorrowStatus: ambient.NormalizeStatus(req.TomorrowStatus),
		Weekday:        orDefault(req.Weekday, "Unknown"),
		WeatherDesc:    orDefault(req.Weather, "clear"),
		Temperature:    ambient.DefaultTemperature,
		Mood:           emotion.Normalize(req.Mood),
		VoiceTone:      string(voice.NormalizeTone(req.VoiceTone)),
		MovieSelected:  strings.TrimSpace(req.Movie),
	}
	if req.Latitude != nil {
		s.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		s.Longitude = *req.Longitude
	}
	if req.Temperature != nil {
		s.Temperature = *req.Temperature
	}
	return s
}

func (m *SelectionMapper) ToModel(s *entity.Selection) *model.SelectionLog {
	payload, _ := json.Marshal(s)
	return &model.SelectionLog{
		Id:             s.Id,
		City:           s.City,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		TodayStatus:    s.TodayStatus,
		TomorrowStatus: s.TomorrowStatus,
		Weekday:        s.Weekday,
		WeatherDesc:    s.WeatherDesc,
		Temperature:    s.Temperature,
		Mood:           s.Mood,
		VoiceTone:      s.VoiceTone,
		MovieSelected:  s.MovieSelected,
		Payload:        datatypes.JSON(payload),
		CreatedAt:      s.Timestamp,
	}
}

func (m *SelectionMapper) ToEntity(l *model.SelectionLog) *entity.Selection {
	if l == nil {
		return nil
	}
	return &entity.Selection{
		Id:             l.Id,
		Timestamp:      l.CreatedAt,
		City:           l.City,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		TodayStatus:    l.TodayStatus,
		TomorrowStatus: l.TomorrowStatus,
		Weekday:        l.Weekday,
		WeatherDesc:    l.WeatherDesc,
		Temperature:    l.Temperature,
		Mood:           l.Mood,
		VoiceTone:      l.VoiceTone,
		MovieSelected:  l.MovieSelected,
	}
}

func (m *SelectionMapper) ToExample(s *entity.Selection) ranking.Example {
	return ranking.Example{
		City:          s.City,
		TodayStatus:   s.TodayStatus,
		Mood:          s.Mood,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		Temperature:   s.Temperature,
		MovieSelected: s.MovieSelected,
	}
}

func (m *SelectionMapper) ToExamples(selections []*entity.Selection) []ranking.Example {
	out := make([]ranking.Example, 0, len(selections))
	for _, s := range selections {
		out = append(out, m.ToExample(s))
	}
	return out
}

// ToEventPayload is the data published with a SELECTION_LOGGED event.
func (m *SelectionMapper) ToEventPayload(s *entity.Selection) map[string]interface{} {
	return map[string]interface{}{
		"id":           s.Id.String(),
		"key":          SelectionKey(s),
		"city":         s.City,
		"today_status": s.TodayStatus,
		"weather_desc": s.WeatherDesc,
		"temperature":  s.Temperature,
		"mood":         s.Mood,
		"voice_tone":   s.VoiceTone,
		"movie":        s.MovieSelected,
	}
}

// SelectionKey identifies a logged row across stores. The CSV log carries no id and
// postgres keeps timestamps to the microsecond, so the key uses both truncated that far.
func SelectionKey(s *entity.Selection) string {
	return s.Timestamp.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano) + "|" + s.MovieSelected
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
