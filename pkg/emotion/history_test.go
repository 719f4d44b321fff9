package emotion

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i <= 10; i++ {
		h.Add(Sample{Label: Happy, Confidence: float64(i), Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	got := h.Snapshot()
	assert.Len(t, got, 10)
	for i, s := range got {
		assert.Equal(t, float64(i+1), s.Confidence, "position %d", i)
	}
	assert.True(t, got[0].Timestamp.Before(got[9].Timestamp))
}

func TestHistoryNeverExceedsCapacity(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 50; i++ {
		n := h.Add(Sample{Label: Sad, Confidence: 0.9})
		assert.LessOrEqual(t, n, 3)
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3, h.Cap())
}

func TestHistoryDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistorySize, NewHistory(0).Cap())
}

func TestHistoryConcurrentAdds(t *testing.T) {
	h := NewHistory(10)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Add(Sample{Label: Happy, Confidence: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, h.Len())
}

func TestHistoryDominant(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		want    string
	}{
		{"empty", nil, Neutral},
		{"all below threshold", []Sample{{Label: Angry, Confidence: 0.1}, {Label: Sad, Confidence: 0.3}}, Neutral},
		{"weighted winner", []Sample{
			{Label: Happy, Confidence: 0.9},
			{Label: Sad, Confidence: 0.5},
			{Label: Sad, Confidence: 0.5},
			{Label: Happy, Confidence: 0.2},
		}, Sad},
		{"tie goes to most recent", []Sample{{Label: Happy, Confidence: 0.6}, {Label: Fear, Confidence: 0.6}}, Fear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(10)
			for _, s := range tt.samples {
				h.Add(s)
			}
			assert.Equal(t, tt.want, h.Dominant(ConfidenceThreshold))
		})
	}
}

func TestGateAndNormalize(t *testing.T) {
	assert.Equal(t, Neutral, Gate(Happy, 0.2, ConfidenceThreshold))
	assert.Equal(t, Happy, Gate(Happy, 0.4, ConfidenceThreshold))
	assert.Equal(t, Surprise, Normalize("  Surprise "))
	assert.Equal(t, Neutral, Normalize("bored"))
}
