package implementation

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/model"
	"moodflix-be/internal/repository/specification"
	"moodflix-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionRepositoryPostgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false, &model.SelectionLog{})
	require.NoError(t, err)

	// a city nobody else uses keeps reruns isolated
	city := "it-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Where("city = ?", city).Delete(&model.SelectionLog{})
	})

	repo := NewSelectionRepository(db)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	for i, movie := range []string{"Up", "Coco", "Toy Story"} {
		mood := "happy"
		if i == 1 {
			mood = "sad"
		}
		require.NoError(t, repo.Append(ctx, &entity.Selection{
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			City:           city,
			TodayStatus:    "Weekday",
			TomorrowStatus: "Weekday",
			Weekday:        "Monday",
			WeatherDesc:    "clear sky",
			Temperature:    21.5,
			Mood:           mood,
			VoiceTone:      "neutral",
			MovieSelected:  movie,
		}))
	}

	rows, err := repo.FindRecent(ctx, 2, specification.ByCity{City: city})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Coco", rows[0].MovieSelected)
	assert.Equal(t, "Toy Story", rows[1].MovieSelected)
	assert.NotEqual(t, uuid.Nil, rows[0].Id)

	n, err := repo.Count(ctx, specification.ByCity{City: city}, specification.ByMood{Mood: "HAPPY"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
