package contract

import "moodflix-be/pkg/emotion"

// EmotionHistoryRepository keeps one bounded emotion history per client session.
type EmotionHistoryRepository interface {
	// GetOrCreate returns the session history, creating an empty one if needed.
	GetOrCreate(sessionId string) *emotion.History
	Get(sessionId string) (*emotion.History, bool)
	Delete(sessionId string)
}
