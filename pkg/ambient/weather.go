package ambient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moodflix-be/pkg/cache"
)

const (
	DefaultWeatherDescription = "clear sky"
	DefaultTemperature        = 20.0
	DefaultWeatherURL         = "https://api.openweathermap.org/data/2.5/weather"
)

var ErrNoAPIKey = errors.New("weather api key not configured")

type Weather struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
}

func DefaultWeather() Weather {
	return Weather{Description: DefaultWeatherDescription, Temperature: DefaultTemperature}
}

// WeatherClient queries current conditions from an OpenWeatherMap compatible API in
// metric units.
type WeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   cache.Cache
	ttl     time.Duration
}

func NewWeatherClient(apiKey, baseURL string, client *http.Client, c cache.Cache, ttl time.Duration) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &WeatherClient{apiKey: apiKey, baseURL: baseURL, client: client, cache: c, ttl: ttl}
}

// Current returns conditions for loc, by city name when known and by coordinates
// otherwise. Failures return DefaultWeather alongside the error.
func (w *WeatherClient) Current(ctx context.Context, loc Location) (Weather, error) {
	if w.apiKey == "" {
		return DefaultWeather(), ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")
	var key string
	if loc.City != "" && loc.City != DefaultCity {
		params.Set("q", loc.City)
		key = "weather:" + strings.ToLower(loc.City)
	} else {
		params.Set("lat", fmt.Sprintf("%.4f", loc.Latitude))
		params.Set("lon", fmt.Sprintf("%.4f", loc.Longitude))
		key = fmt.Sprintf("weather:%.2f,%.2f", loc.Latitude, loc.Longitude)
	}

	if w.cache != nil {
		var cached Weather
		if ok, _ := w.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	var body struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	}
	if err := getJSON(ctx, w.client, w.baseURL+"?"+params.Encode(), &body); err != nil {
		return DefaultWeather(), err
	}
	if len(body.Weather) == 0 || body.Main.Temp == nil {
		return DefaultWeather(), fmt.Errorf("%w: incomplete weather payload", ErrLookupFailed)
	}

	out := Weather{Description: body.Weather[0].Description, Temperature: *body.Main.Temp}
	if out.Description == "" {
		out.Description = DefaultWeatherDescription
	}
	if w.cache != nil {
		_ = w.cache.Set(ctx, key, out, w.ttl)
	}
	return out, nil
}
