package specification

import (
	"testing"
	"time"

	"moodflix-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestMatchAll(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sel := &entity.Selection{City: "Austin", Mood: "happy", TodayStatus: "Weekend", Timestamp: now}

	tests := []struct {
		name  string
		specs []Specification
		want  bool
	}{
		{"no specs", nil, true},
		{"mood matches", []Specification{ByMood{"HAPPY"}}, true},
		{"city case-insensitive", []Specification{ByCity{"austin"}}, true},
		{"wrong status", []Specification{ByTodayStatus{"Weekday"}}, false},
		{"since before", []Specification{Since{now.Add(-time.Hour)}}, true},
		{"since after", []Specification{Since{now.Add(time.Hour)}}, false},
		{"combined", []Specification{ByMood{"happy"}, ByCity{"Boston"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchAll(sel, tt.specs...))
		})
	}
}
