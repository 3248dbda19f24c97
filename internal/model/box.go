package model

import "time"

// Box represents a physical plant enclosure with sensors and actuators.
// The actuator fields form one logical state row per box; they are mutated
// exclusively by the control pipeline (last-writer-wins, each box is driven
// by exactly one physical device).
type Box struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Code   string `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Name   string `gorm:"size:128;not null" json:"name"`
	PlantID *int64 `gorm:"index" json:"plantId"`

	LedStatus        bool       `gorm:"not null" json:"ledStatus"`
	PumpStatus       bool       `gorm:"not null" json:"pumpStatus"`
	ManualLed        bool       `gorm:"not null" json:"manualLed"`
	ManualPump       bool       `gorm:"not null" json:"manualPump"`
	WateringCount    int        `gorm:"not null" json:"wateringCount"` // resets daily
	LastWateringDate *time.Time `json:"lastWateringDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Plant *Plant `gorm:"constraint:OnDelete:SET NULL" json:"plant,omitempty"`
}
