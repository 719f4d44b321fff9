package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/repository/implementation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportLog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := implementation.NewSelectionCSVRepository(filepath.Join(dir, "src.csv"))
	dst := implementation.NewSelectionCSVRepository(filepath.Join(dir, "dst.csv"))

	for i, movie := range []string{"Up", "Coco"} {
		require.NoError(t, src.Append(ctx, &entity.Selection{
			Id:             uuid.New(),
			Timestamp:      time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC),
			City:           "Austin",
			TodayStatus:    "Weekday",
			TomorrowStatus: "Weekday",
			Weekday:        "Monday",
			WeatherDesc:    "clear sky",
			Temperature:    20,
			Mood:           "happy",
			VoiceTone:      "neutral",
			MovieSelected:  movie,
		}))
	}

	n, err := importLog(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := dst.FindRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Coco", rows[1].MovieSelected)

	n, err = importLog(ctx, src, dst)
	require.NoError(t, err)
	assert.Zero(t, n)
}
