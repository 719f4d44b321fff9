package memory

import (
	"sync"
	"testing"
	"time"

	"moodflix-be/pkg/emotion"

	"github.com/stretchr/testify/assert"
)

func TestEmotionHistoryRepository(t *testing.T) {
	repo := NewEmotionHistoryRepository(3)

	_, ok := repo.Get("s1")
	assert.False(t, ok)

	h := repo.GetOrCreate("s1")
	assert.Equal(t, 3, h.Cap())
	h.Add(emotion.Sample{Label: emotion.Happy, Confidence: 0.9, Timestamp: time.Now()})

	again, ok := repo.Get("s1")
	assert.True(t, ok)
	assert.Same(t, h, again)
	assert.Equal(t, 1, again.Len())

	assert.NotSame(t, h, repo.GetOrCreate("s2"))

	repo.Delete("s1")
	_, ok = repo.Get("s1")
	assert.False(t, ok)
}

func TestEmotionHistoryRepositoryConcurrentCreate(t *testing.T) {
	repo := NewEmotionHistoryRepository(10)

	var wg sync.WaitGroup
	results := make([]*emotion.History, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	final := repo.GetOrCreate("shared")
	for _, h := range results {
		assert.Same(t, final, h)
	}
}
