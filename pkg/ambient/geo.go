// Package ambient looks up the surroundings of a request: where it comes from, what
// the weather is like there and what kind of day it is.
package ambient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"moodflix-be/pkg/cache"
)

const (
	DefaultCity    = "Unknown"
	DefaultGeoURL  = "http://ip-api.com/json/"
	defaultTimeout = 5 * time.Second
)

var ErrLookupFailed = errors.New("ambient lookup failed")

type Location struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func DefaultLocation() Location {
	return Location{City: DefaultCity}
}

// Locator resolves a client IP to a coarse location through an ip-api compatible
// endpoint. An empty or private IP resolves the caller's own public address.
type Locator struct {
	baseURL string
	client  *http.Client
	cache   cache.Cache
	ttl     time.Duration
}

func NewLocator(baseURL string, client *http.Client, c cache.Cache, ttl time.Duration) *Locator {
	if baseURL == "" {
		baseURL = DefaultGeoURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Locator{baseURL: strings.TrimRight(baseURL, "/") + "/", client: client, cache: c, ttl: ttl}
}

func (l *Locator) Locate(ctx context.Context, ip string) (Location, error) {
	if !isPublicIP(ip) {
		ip = ""
	}
	key := "geo:" + ip
	if l.cache != nil {
		var loc Location
		if ok, _ := l.cache.Get(ctx, key, &loc); ok {
			return loc, nil
		}
	}

	var body struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		City    string  `json:"city"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := getJSON(ctx, l.client, l.baseURL+ip+"?fields=status,message,city,lat,lon", &body); err != nil {
		return DefaultLocation(), err
	}
	if body.Status != "" && body.Status != "success" {
		return DefaultLocation(), fmt.Errorf("%w: geolocation %s", ErrLookupFailed, body.Message)
	}

	loc := Location{City: body.City, Latitude: body.Lat, Longitude: body.Lon}
	if loc.City == "" {
		loc.City = DefaultCity
	}
	if l.cache != nil {
		_ = l.cache.Set(ctx, key, loc, l.ttl)
	}
	return loc, nil
}

func isPublicIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast())
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return nil
}
