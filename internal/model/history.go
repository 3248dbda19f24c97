package model

import "time"

// History snapshot kinds.
const (
	HistoryDaily  = "daily"
	HistoryWeekly = "weekly"
)

// History is an append-only audit snapshot of a box's aggregate condition.
// Never updated, only inserted.
type History struct {
	ID              int64   `gorm:"primaryKey" json:"id"`
	BoxID           int64   `gorm:"index;not null" json:"boxId"`
	Kind            string  `gorm:"size:16;not null" json:"kind"` // daily|weekly
	Week            int     `gorm:"not null" json:"week"`
	Temperature     float64 `gorm:"not null" json:"temperature"`
	Humidity        float64 `gorm:"not null" json:"humidity"`
	WaterLevel      float64 `gorm:"not null" json:"waterLevel"`
	LightHours      float64 `gorm:"not null" json:"lightHours"`
	EstimatedHealth float64 `gorm:"not null" json:"estimatedHealth"`
	Date            time.Time `gorm:"index;not null" json:"date"`

	// Associations
	Box Box `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
