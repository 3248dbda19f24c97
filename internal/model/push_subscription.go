package model

import "time"

// PushSubscription holds a browser push subscription registered for a box.
// Alerts raised for the box are delivered to every subscription it has.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	BoxID     int64     `gorm:"index;not null" json:"boxId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`

	// Associations
	Box Box `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
