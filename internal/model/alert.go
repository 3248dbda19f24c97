package model

import "time"

// Alert is a persisted, deduplicated threshold violation.
// Invariant: at most one unresolved alert per (BoxID, Type, Message).
// Alerts never auto-resolve when the condition clears; an operator
// resolves them explicitly.
type Alert struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	BoxID    int64  `gorm:"index;not null" json:"boxId"`
	Type     string `gorm:"size:32;not null" json:"type"`     // temperature|humidity|water|soilMoisture|light
	Message  string `gorm:"size:256;not null" json:"message"`
	Priority string `gorm:"size:16;not null" json:"priority"` // high|medium|low
	Resolved bool   `gorm:"not null;index" json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`

	// Associations
	Box Box `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
