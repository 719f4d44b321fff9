// Package ranking fits a per-request preference model over logged selections and
// scores the current context against every title seen in the log.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"moodflix-be/pkg/emotion"
)

var (
	// ErrUnavailable means no model can score this request; callers fall back to
	// candidate order.
	ErrUnavailable = errors.New("ranking model unavailable")
	// ErrUnseenCategory is returned when a query carries a categorical value the
	// encoders never saw. It wraps ErrUnavailable.
	ErrUnseenCategory = fmt.Errorf("%w: unseen category", ErrUnavailable)
)

// Example is one logged selection.
type Example struct {
	City          string
	TodayStatus   string
	Mood          string
	Latitude      float64
	Longitude     float64
	Temperature   float64
	MovieSelected string
}

// Query is the context being scored.
type Query struct {
	City        string
	TodayStatus string
	Mood        string
	Latitude    float64
	Longitude   float64
	Temperature float64
}

type Config struct {
	Forest ForestConfig
	// MaxRows keeps only the most recent examples when positive.
	MaxRows int
}

func DefaultConfig() Config {
	return Config{Forest: DefaultForestConfig(), MaxRows: 5000}
}

// Model is fitted per request and discarded afterwards.
type Model struct {
	city   *LabelEncoder
	today  *LabelEncoder
	mood   *LabelEncoder
	target *LabelEncoder
	forest *Forest
	rows   int
}

// Fit encodes examples and trains the forest. Any problem with the data is reported as
// an error wrapping ErrUnavailable.
func Fit(ctx context.Context, examples []Example, cfg Config) (m *Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%w: fit panic: %v", ErrUnavailable, r)
		}
	}()

	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no logged selections", ErrUnavailable)
	}
	if cfg.MaxRows > 0 && len(examples) > cfg.MaxRows {
		examples = examples[len(examples)-cfg.MaxRows:]
	}

	cities := make([]string, len(examples))
	statuses := make([]string, len(examples))
	movies := make([]string, len(examples))
	for i, ex := range examples {
		if ex.MovieSelected == "" {
			return nil, fmt.Errorf("%w: row %d has no movie_selected", ErrUnavailable, i)
		}
		if !finite(ex.Latitude, ex.Longitude, ex.Temperature) {
			return nil, fmt.Errorf("%w: row %d has non-numeric coordinates or temperature", ErrUnavailable, i)
		}
		cities[i] = ex.City
		statuses[i] = ex.TodayStatus
		movies[i] = ex.MovieSelected
	}

	m = &Model{
		city:   FitEncoder(cities),
		today:  FitEncoder(statuses),
		mood:   FitEncoder(emotion.Vocabulary),
		target: FitEncoder(movies),
		rows:   len(examples),
	}

	X := make([][]float64, len(examples))
	y := make([]int, len(examples))
	for i, ex := range examples {
		row, err := m.encode(Query{
			City:        ex.City,
			TodayStatus: ex.TodayStatus,
			Mood:        ex.Mood,
			Latitude:    ex.Latitude,
			Longitude:   ex.Longitude,
			Temperature: ex.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrUnavailable, i, err)
		}
		X[i] = row
		y[i], _ = m.target.Transform(ex.MovieSelected)
	}

	m.forest, err = FitForest(ctx, X, y, m.target.Len(), cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return m, nil
}

// encode builds the feature vector {latitude, longitude, temperature, city, today_status, mood}.
func (m *Model) encode(q Query) ([]float64, error) {
	city, err := m.city.Transform(q.City)
	if err != nil {
		return nil, fmt.Errorf("city: %w", err)
	}
	today, err := m.today.Transform(q.TodayStatus)
	if err != nil {
		return nil, fmt.Errorf("today_status: %w", err)
	}
	mood, err := m.mood.Transform(q.Mood)
	if err != nil {
		return nil, fmt.Errorf("mood: %w", err)
	}
	return []float64{q.Latitude, q.Longitude, q.Temperature, float64(city), float64(today), float64(mood)}, nil
}

// Predict scores q against every known title. An unseen categorical value returns an
// error wrapping ErrUnseenCategory.
func (m *Model) Predict(q Query) (*Prediction, error) {
	x, err := m.encode(q)
	if err != nil {
		return nil, err
	}
	return &Prediction{
		Labels:        m.target.Classes(),
		Probabilities: m.forest.PredictProba(x),
	}, nil
}

func (m *Model) Rows() int {
	return m.rows
}

func (m *Model) Labels() []string {
	return m.target.Classes()
}

// Prediction is a probability per known title, aligned by index.
type Prediction struct {
	Labels        []string
	Probabilities []float64
}

func (p *Prediction) Probability(label string) float64 {
	for i, l := range p.Labels {
		if l == label {
			return p.Probabilities[i]
		}
	}
	return 0
}

// Ordered returns labels by descending probability. Ties put the label with the larger
// encoded index first.
func (p *Prediction) Ordered() []string {
	idx := make([]int, len(p.Labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := p.Probabilities[idx[a]], p.Probabilities[idx[b]]
		if pa != pb {
			return pa > pb
		}
		return idx[a] > idx[b]
	})
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = p.Labels[j]
	}
	return out
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
