package specification

import (
	"strings"
	"time"

	"moodflix-be/internal/entity"

	"gorm.io/gorm"
)

type ByMood struct {
	Mood string
}

func (s ByMood) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mood = ?", strings.ToLower(s.Mood))
}

func (s ByMood) Match(sel *entity.Selection) bool {
	return strings.EqualFold(sel.Mood, s.Mood)
}

type ByCity struct {
	City string
}

func (s ByCity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(city) = ?", strings.ToLower(s.City))
}

func (s ByCity) Match(sel *entity.Selection) bool {
	return strings.EqualFold(sel.City, s.City)
}

type ByTodayStatus struct {
	Status string
}

func (s ByTodayStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("today_status = ?", s.Status)
}

func (s ByTodayStatus) Match(sel *entity.Selection) bool {
	return sel.TodayStatus == s.Status
}

// Since keeps rows logged at or after From.
type Since struct {
	From time.Time
}

func (s Since) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.From)
}

func (s Since) Match(sel *entity.Selection) bool {
	return !sel.Timestamp.Before(s.From)
}
