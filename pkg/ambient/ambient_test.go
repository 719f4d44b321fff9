package ambient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"moodflix-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDayStatus(t *testing.T) {
	us := NewHolidayCalendar("US")

	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{"plain weekday", date(2024, time.March, 13), StatusWeekday},
		{"saturday", date(2024, time.March, 16), StatusWeekend},
		{"sunday", date(2024, time.March, 17), StatusWeekend},
		{"independence day", date(2024, time.July, 4), StatusHoliday},
		{"thanksgiving", date(2024, time.November, 28), StatusHoliday},
		{"memorial day", date(2024, time.May, 27), StatusHoliday},
		{"labor day", date(2024, time.September, 2), StatusHoliday},
		{"mlk day", date(2024, time.January, 15), StatusHoliday},
		{"christmas on saturday", date(2021, time.December, 25), StatusHoliday},
		{"christmas observed friday", date(2021, time.December, 24), StatusHoliday},
		{"july 4th observed monday", date(2021, time.July, 5), StatusHoliday},
		{"new year observed dec 31", date(2021, time.December, 31), StatusHoliday},
		{"juneteenth before 2021", date(2020, time.June, 19), StatusWeekday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayStatus(us, tt.day))
		})
	}
}

func TestDaysWithoutHolidayRules(t *testing.T) {
	info := Days(NewHolidayCalendar("ID"), date(2024, time.July, 4))
	assert.Equal(t, StatusWeekday, info.TodayStatus)
	assert.Equal(t, StatusWeekday, info.TomorrowStatus)
	assert.Equal(t, "Thursday", info.Weekday)

	info = Days(NewHolidayCalendar("ID"), date(2024, time.July, 5))
	assert.Equal(t, StatusWeekend, info.TomorrowStatus)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusWeekend, NormalizeStatus(" weekend "))
	assert.Equal(t, StatusHoliday, NormalizeStatus("HOLIDAY"))
	assert.Equal(t, StatusWeekday, NormalizeStatus("whatever"))
}

func TestLocatorLocate(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","city":"Austin","lat":30.27,"lon":-97.74}`))
	}))
	defer srv.Close()

	loc := NewLocator(srv.URL, srv.Client(), cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	got, err := loc.Locate(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, Location{City: "Austin", Latitude: 30.27, Longitude: -97.74}, got)

	_, err = loc.Locate(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestLocatorPrivateIPUsesOwnAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","city":"Boston","lat":42.36,"lon":-71.06}`))
	}))
	defer srv.Close()

	got, err := NewLocator(srv.URL, srv.Client(), nil, 0).Locate(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Boston", got.City)
}

func TestLocatorFailureDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	got, err := NewLocator(srv.URL, srv.Client(), nil, 0).Locate(context.Background(), "")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Equal(t, DefaultLocation(), got)
}

func TestWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Austin", q.Get("q"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "key", q.Get("appid"))
		_, _ = w.Write([]byte(`{"weather":[{"description":"light rain"}],"main":{"temp":14.5}}`))
	}))
	defer srv.Close()

	wc := NewWeatherClient("key", srv.URL, srv.Client(), nil, 0)
	got, err := wc.Current(context.Background(), Location{City: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, Weather{Description: "light rain", Temperature: 14.5}, got)
}

func TestWeatherByCoordinatesWhenCityUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Empty(t, q.Get("q"))
		assert.Equal(t, "42.3600", q.Get("lat"))
		_, _ = w.Write([]byte(`{"weather":[{"description":"mist"}],"main":{"temp":3}}`))
	}))
	defer srv.Close()

	got, err := NewWeatherClient("key", srv.URL, srv.Client(), nil, 0).
		Current(context.Background(), Location{City: DefaultCity, Latitude: 42.36, Longitude: -71.06})
	require.NoError(t, err)
	assert.Equal(t, "mist", got.Description)
}

func TestWeatherFailuresDefault(t *testing.T) {
	_, err := NewWeatherClient("", "", nil, nil, 0).Current(context.Background(), DefaultLocation())
	assert.ErrorIs(t, err, ErrNoAPIKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	got, err := NewWeatherClient("bad", srv.URL, srv.Client(), nil, 0).Current(context.Background(), Location{City: "Austin"})
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Equal(t, DefaultWeather(), got)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"weather":[]}`))
	}))
	defer empty.Close()

	got, err = NewWeatherClient("k", empty.URL, empty.Client(), nil, 0).Current(context.Background(), Location{City: "Austin"})
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Equal(t, DefaultWeather(), got)
}
