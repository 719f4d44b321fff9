// Package metrics exposes Prometheus instrumentation for the HTTP surface and the
// recommendation pipeline stages.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodflix_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EmotionReadings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_emotion_readings_total",
			Help: "Facial emotion classifications by label",
		},
		[]string{"emotion"},
	)

	VoiceTones = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_voice_tones_total",
			Help: "Voice tone estimations by tone",
		},
		[]string{"tone"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodflix_generation_duration_seconds",
			Help:    "Latency of the generative candidate backend",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	GenerationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_generation_outcomes_total",
			Help: "Candidate generation outcomes (ok, empty, error)",
		},
		[]string{"outcome"},
	)

	RankingFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodflix_ranking_fit_duration_seconds",
			Help:    "Time spent fitting the per-request ranking forest",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_ranking_outcomes_total",
			Help: "Ranking model outcomes (available, unavailable, unseen)",
		},
		[]string{"outcome"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_recommendations_served_total",
			Help: "Recommend responses by merge source (hybrid, candidates_only, empty)",
		},
		[]string{"source"},
	)

	SelectionsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_selections_logged_total",
			Help: "Selections appended to the log, by mood",
		},
		[]string{"mood"},
	)

	SelectionLogErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodflix_selection_log_errors_total",
			Help: "Failed selection log appends",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_events_published_total",
			Help: "Published events by transport and result",
		},
		[]string{"transport", "result"},
	)
)

func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordGeneration(duration time.Duration, candidates int, err error) {
	GenerationDuration.Observe(duration.Seconds())
	switch {
	case err != nil:
		GenerationOutcomes.WithLabelValues("error").Inc()
	case candidates == 0:
		GenerationOutcomes.WithLabelValues("empty").Inc()
	default:
		GenerationOutcomes.WithLabelValues("ok").Inc()
	}
}

func RecordRanking(duration time.Duration, outcome string) {
	RankingFitDuration.Observe(duration.Seconds())
	RankingOutcomes.WithLabelValues(outcome).Inc()
}

func RecordEventPublish(transport string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(transport, result).Inc()
}

// Middleware records request counts and latency per matched route.
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		route := ctx.Route().Path
		if route == "" || route == "/" && ctx.Path() != "/" {
			route = "unmatched"
		}
		RecordAPIRequest(ctx.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}
