package model

import "time"

// Guide is one step of a plant's care guide.
type Guide struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	PlantID     int64  `gorm:"index;not null" json:"plantId"`
	Title       string `gorm:"size:128;not null" json:"title"`
	Description string `gorm:"size:1024" json:"description"`
	Step        int    `gorm:"not null" json:"step"`
	Image       string `gorm:"size:512" json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
