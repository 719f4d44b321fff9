package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SelectionLog struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	City           string         `gorm:"type:varchar(120);not null;index"`
	Latitude       float64        `gorm:"not null;default:0"`
	Longitude      float64        `gorm:"not null;default:0"`
	TodayStatus    string         `gorm:"type:varchar(20);not null"`
	TomorrowStatus string         `gorm:"type:varchar(20);not null"`
	Weekday        string         `gorm:"type:varchar(20)"`
	WeatherDesc    string         `gorm:"type:varchar(120)"`
	Temperature    float64        `gorm:"not null;default:20"`
	Mood           string         `gorm:"type:varchar(20);not null;index"`
	VoiceTone      string         `gorm:"type:varchar(20)"`
	MovieSelected  string         `gorm:"type:varchar(300);not null"`
	Payload        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"default:now();not null;index"`
}

func (SelectionLog) TableName() string {
	return "selection_logs"
}
