package models

import (
	"time"

	"github.com/google/uuid"
)

type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Endpoint  string    `gorm:"not null;uniqueIndex" json:"endpoint"`
	P256dh    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	UserAgent string    `gorm:"not null;default:''" json:"ua"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReminderTarget is a subscription joined with the owning profile's
// reminder settings.
type ReminderTarget struct {
	PushSubscription
	Timezone     string
	ReminderTime string
}
