package memory

import (
	"time"

	"moodflix-be/internal/repository/contract"
	"moodflix-be/pkg/emotion"

	"github.com/patrickmn/go-cache"
)

type EmotionHistoryRepository struct {
	cache    *cache.Cache
	capacity int
}

// NewEmotionHistoryRepository keeps idle session histories for an hour.
func NewEmotionHistoryRepository(capacity int) contract.EmotionHistoryRepository {
	return &EmotionHistoryRepository{
		cache:    cache.New(1*time.Hour, 10*time.Minute),
		capacity: capacity,
	}
}

func (r *EmotionHistoryRepository) GetOrCreate(sessionId string) *emotion.History {
	if h, ok := r.Get(sessionId); ok {
		return h
	}
	h := emotion.NewHistory(r.capacity)
	if err := r.cache.Add(sessionId, h, cache.DefaultExpiration); err != nil {
		// lost the race to another request for the same session
		if existing, ok := r.Get(sessionId); ok {
			return existing
		}
		r.cache.Set(sessionId, h, cache.DefaultExpiration)
	}
	return h
}

// Get also refreshes the session's expiry.
func (r *EmotionHistoryRepository) Get(sessionId string) (*emotion.History, bool) {
	x, found := r.cache.Get(sessionId)
	if !found {
		return nil, false
	}
	h := x.(*emotion.History)
	r.cache.Set(sessionId, h, cache.DefaultExpiration)
	return h, true
}

func (r *EmotionHistoryRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
