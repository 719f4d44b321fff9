package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/repository/implementation"
	"moodflix-be/internal/repository/specification"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func seedLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_logs.csv")
	repo := implementation.NewSelectionCSVRepository(path)
	base := time.Date(2024, 7, 6, 20, 0, 0, 0, time.UTC)
	rows := []struct {
		city, mood, movie string
	}{
		{"Austin", "happy", "Up"},
		{"Austin", "happy", "Up"},
		{"Boston", "sad", "Coco"},
		{"Austin", "happy", "Toy Story"},
	}
	for i, r := range rows {
		require.NoError(t, repo.Append(context.Background(), &entity.Selection{
			Id:             uuid.New(),
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
			City:           r.city,
			TodayStatus:    "Weekend",
			TomorrowStatus: "Weekday",
			Weekday:        "Saturday",
			WeatherDesc:    "clear sky",
			Temperature:    25,
			Mood:           r.mood,
			VoiceTone:      "neutral",
			MovieSelected:  r.movie,
		}))
	}
	return path
}

func TestSummarize(t *testing.T) {
	repo := implementation.NewSelectionCSVRepository(seedLog(t))
	var out bytes.Buffer

	require.NoError(t, summarize(context.Background(), &out, repo, nil, 0))
	text := out.String()
	assert.Contains(t, text, "Selections: 4")
	assert.Contains(t, text, "Up (2)")
	assert.Contains(t, text, "Coco (1)")
	assert.Contains(t, text, "Boston")
}

func TestSummarizeFiltered(t *testing.T) {
	repo := implementation.NewSelectionCSVRepository(seedLog(t))
	var out bytes.Buffer

	specs := []specification.Specification{specification.ByCity{City: "boston"}}
	require.NoError(t, summarize(context.Background(), &out, repo, specs, 0))
	assert.Contains(t, out.String(), "Selections: 1")
	assert.NotContains(t, out.String(), "Up (")
}

func TestSummarizeEmptyLog(t *testing.T) {
	repo := implementation.NewSelectionCSVRepository(filepath.Join(t.TempDir(), "missing.csv"))
	var out bytes.Buffer

	require.NoError(t, summarize(context.Background(), &out, repo, nil, 0))
	assert.Contains(t, out.String(), "Selections: 0")
}

func TestFilters(t *testing.T) {
	moodFlag, cityFlag, statusFlag, sinceFlag = "happy", "", "Weekend", 24*time.Hour
	t.Cleanup(func() { moodFlag, cityFlag, statusFlag, sinceFlag = "", "", "", 0 })

	now := time.Date(2024, 7, 7, 0, 0, 0, 0, time.UTC)
	specs := filters(now)
	require.Len(t, specs, 3)
	assert.Equal(t, specification.Since{From: now.Add(-24 * time.Hour)}, specs[2])
}

func TestPrintLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	lines := `{"level":"INFO","timestamp":"2024-07-06T20:00:00Z","message":"request","module":"HTTP","details":{"status":200}}
{"level":"ERROR","timestamp":"2024-07-06T20:01:00Z","message":"Failed to append selection","module":"SelectionService","details":{"error":"disk full"}}
not json
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	var out bytes.Buffer
	require.NoError(t, printLogs(&out, path, "error", "", 10))
	assert.Contains(t, out.String(), "[SelectionService] Failed to append selection error=disk full")
	assert.NotContains(t, out.String(), "HTTP")

	out.Reset()
	require.NoError(t, printLogs(&out, filepath.Join(t.TempDir(), "none.log"), "", "", 10))
	assert.Contains(t, out.String(), "No log entries")
}
