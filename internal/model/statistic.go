package model

import "time"

// Statistic is the authoritative weekly summary for a box, unique per
// (BoxID, Week) where Week is the ISO-8601 week number. Upserted by the
// aggregator; values persisted rounded to 2 decimal places.
type Statistic struct {
	ID              int64   `gorm:"primaryKey" json:"id"`
	BoxID           int64   `gorm:"uniqueIndex:idx_statistics_box_week;not null" json:"boxId"`
	Week            int     `gorm:"uniqueIndex:idx_statistics_box_week;not null" json:"week"`
	AvgTemperature  float64 `gorm:"not null" json:"avgTemperature"`
	AvgHumidity     float64 `gorm:"not null" json:"avgHumidity"`
	AvgLightHours   float64 `gorm:"not null" json:"avgLightHours"`
	AvgWaterLevel   float64 `gorm:"not null" json:"avgWaterLevel"`
	EstimatedHealth float64 `gorm:"not null" json:"estimatedHealth"`
	GeneratedAt     time.Time `gorm:"not null" json:"generatedAt"`

	// Associations
	Box Box `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
