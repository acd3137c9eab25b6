package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ChartStyleGradient = "gradient"
	ChartStyleBrush    = "brush"
	ChartStyleSolid    = "solid"
)

const (
	DateFormatISO      = "YYYY-MM-DD"
	DateFormatDayFirst = "DD/MM/YYYY"
	DateFormatUS       = "MM/DD/YYYY"
	DateFormatDotted   = "DD.MM.YYYY"
)

const (
	DefaultTimezone     = "UTC"
	DefaultReminderTime = "20:00"
	MinAccountTier      = 0
	MaxAccountTier      = 4
)

// ChartPalette maps a named chart color (e.g. "primary") to a hex value.
type ChartPalette map[string]string

type Profile struct {
	UserID       uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"user_id"`
	DisplayName  string                           `gorm:"not null;default:''" json:"display_name"`
	Timezone     string                           `gorm:"not null;default:UTC" json:"timezone"`
	ReminderTime string                           `gorm:"not null;default:'20:00'" json:"reminder_time"`
	PushOptIn    bool                             `gorm:"not null;default:false" json:"push_opt_in"`
	AccountTier  int                              `gorm:"not null;default:0" json:"account_tier"`
	IsAdmin      bool                             `gorm:"not null;default:false" json:"is_admin"`
	ChartPalette datatypes.JSONType[ChartPalette] `json:"chart_palette"`
	ChartStyle   string                           `gorm:"not null;default:solid" json:"chart_style"`
	DateFormat   string                           `gorm:"not null;default:'YYYY-MM-DD'" json:"date_format"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// DefaultProfile is what a user sees before their first profile write.
func DefaultProfile(userID uuid.UUID) Profile {
	return Profile{
		UserID:       userID,
		Timezone:     DefaultTimezone,
		ReminderTime: DefaultReminderTime,
		ChartPalette: datatypes.NewJSONType(ChartPalette{}),
		ChartStyle:   ChartStyleSolid,
		DateFormat:   DateFormatISO,
	}
}

func (profile Profile) Palette() ChartPalette {
	palette := profile.ChartPalette.Data()
	if palette == nil {
		return ChartPalette{}
	}
	return palette
}
