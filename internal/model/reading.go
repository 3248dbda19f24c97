package model

import "time"

// Reading is one timestamped sensor sample from a box. Append-only.
type Reading struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	BoxID        int64     `gorm:"index:idx_readings_box_ts;not null" json:"boxId"`
	Temperature  float64   `gorm:"not null" json:"temperature"`
	Humidity     float64   `gorm:"not null" json:"humidity"`
	SoilMoisture float64   `gorm:"not null" json:"soilMoisture"`
	WaterLevel   float64   `gorm:"not null" json:"waterLevel"`
	LightHours   float64   `gorm:"not null" json:"lightHours"`
	Timestamp    time.Time `gorm:"index:idx_readings_box_ts;not null" json:"timestamp"`

	// Associations
	Box Box `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
