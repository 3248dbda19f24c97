package model

import "time"

// Plant holds the tolerance and target configuration for a plant species.
// A box evaluates its readings against the profile of its assigned plant.
type Plant struct {
	ID                int64    `gorm:"primaryKey" json:"id"`
	Name              string   `gorm:"uniqueIndex;size:128;not null" json:"name"`
	MinTemperature    float64  `gorm:"not null" json:"minTemperature"`
	MaxTemperature    float64  `gorm:"not null" json:"maxTemperature"`
	MinHumidity       float64  `gorm:"not null" json:"minHumidity"`
	MaxHumidity       float64  `gorm:"not null" json:"maxHumidity"`
	MinWaterLevel     float64  `gorm:"not null" json:"minWaterLevel"`
	MinSoilMoisture   *float64 `json:"minSoilMoisture"` // nil means the engine default applies
	LightHours        float64  `gorm:"not null" json:"lightHours"`
	WateringFrequency int      `gorm:"not null" json:"wateringFrequency"` // target waterings per day
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	// Associations
	Guides []Guide `gorm:"foreignKey:PlantID" json:"-"`
}
