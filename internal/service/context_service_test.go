package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/pkg/ambient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Thursday, July 4th 2024
var independenceDay = time.Date(2024, time.July, 4, 10, 0, 0, 0, time.UTC)

func TestContextServiceAssemble(t *testing.T) {
	loc := &fakeLocator{loc: ambient.Location{City: "Austin", Latitude: 30.27, Longitude: -97.74}}
	w := &fakeWeather{w: ambient.Weather{Description: "few clouds", Temperature: 33}}
	svc := fixedClock(NewContextService(loc, w, ambient.NewHolidayCalendar("US"), nopLog), independenceDay)

	res, err := svc.GetContext(context.Background(), &dto.ContextRequest{}, "8.8.8.8")
	require.NoError(t, err)

	assert.Equal(t, "Austin", res.City)
	assert.Equal(t, 30.27, res.Latitude)
	assert.Equal(t, "few clouds", res.Weather)
	assert.Equal(t, "few clouds", res.WeatherDescription)
	assert.Equal(t, 33.0, res.Temperature)
	assert.Equal(t, ambient.StatusHoliday, res.TodayStatus)
	assert.Equal(t, ambient.StatusWeekday, res.TomorrowStatus)
	assert.Equal(t, "Thursday", res.Weekday)
	assert.Equal(t, "Austin", w.got.City)
}

func TestContextServiceDefaultsOnCollaboratorFailure(t *testing.T) {
	loc := &fakeLocator{err: errors.New("timeout")}
	w := &fakeWeather{err: errors.New("401")}
	svc := fixedClock(NewContextService(loc, w, ambient.NewHolidayCalendar("US"), nopLog), independenceDay)

	c := svc.Assemble(context.Background(), nil, "")
	assert.Equal(t, "Unknown", c.Location.City)
	assert.Zero(t, c.Location.Latitude)
	assert.Zero(t, c.Location.Longitude)
	assert.Equal(t, "clear sky", c.Ambient.WeatherDescription)
	assert.Equal(t, 20.0, c.Ambient.Temperature)
	assert.Equal(t, "neutral", c.Emotion)
	assert.Equal(t, "neutral", c.VoiceTone)
}

func TestContextServiceClientCitySkipsGeolocation(t *testing.T) {
	loc := &fakeLocator{loc: ambient.Location{City: "Austin"}}
	w := &fakeWeather{w: ambient.Weather{Description: "mist", Temperature: 4}}
	svc := NewContextService(loc, w, nil, nopLog)

	c := svc.Assemble(context.Background(), &dto.ContextRequest{City: " Boston "}, "")
	assert.Equal(t, 0, loc.calls)
	assert.Equal(t, "Boston", c.Location.City)
	assert.Equal(t, "mist", c.Ambient.WeatherDescription)
}

func TestFromRecommendRequest(t *testing.T) {
	svc := NewContextService(nil, nil, nil, nopLog)

	c := svc.FromRecommendRequest(&dto.RecommendRequest{})
	assert.Equal(t, "Unknown", c.Location.City)
	assert.Equal(t, "clear sky", c.Ambient.WeatherDescription)
	assert.Equal(t, 20.0, c.Ambient.Temperature)
	assert.Equal(t, "Weekday", c.Calendar.TodayStatus)
	assert.Equal(t, "neutral", c.Emotion)
	assert.Empty(t, c.WatchedItems)
	assert.Empty(t, c.AvailableItems)

	c = svc.FromRecommendRequest(&dto.RecommendRequest{
		Emotion:         "Happy",
		City:            "Austin",
		Latitude:        ptr(30.27),
		Temperature:     ptr(0.0),
		TodayStatus:     "weekend",
		VoiceTone:       "SAD",
		WatchedMovies:   []string{" Up ", ""},
		AvailableMovies: []string{"Coco"},
	})
	assert.Equal(t, "happy", c.Emotion)
	assert.Equal(t, 30.27, c.Location.Latitude)
	assert.Equal(t, 0.0, c.Ambient.Temperature)
	assert.Equal(t, "Weekend", c.Calendar.TodayStatus)
	assert.Equal(t, "sad", c.VoiceTone)
	assert.Equal(t, []string{"Up"}, c.WatchedItems)
	assert.Equal(t, []string{"Coco"}, c.AvailableItems)
}
