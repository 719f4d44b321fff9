package specification

import (
	"moodflix-be/internal/entity"

	"gorm.io/gorm"
)

// Specification filters selection log rows. Apply narrows a gorm query; Match is the
// same predicate for stores without a query engine.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
	Match(s *entity.Selection) bool
}

// MatchAll reports whether s satisfies every spec.
func MatchAll(s *entity.Selection, specs ...Specification) bool {
	for _, spec := range specs {
		if !spec.Match(s) {
			return false
		}
	}
	return true
}
