package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/datatypes"
)

var ErrAccountTierInvalid = errors.New("account tier must be between 0 and 4")

type ProfileRepository interface {
	FindByUserID(userID uuid.UUID) (models.Profile, bool, error)
	UpsertSettings(profile *models.Profile) error
	UpsertTier(userID uuid.UUID, tier int, isAdmin *bool) (models.Profile, error)
	ListAll() ([]models.Profile, error)
}

// ProfileUpdate carries a partial profile change; nil fields are untouched.
type ProfileUpdate struct {
	DisplayName  *string              `json:"display_name"`
	Timezone     *string              `json:"timezone"`
	ReminderTime *string              `json:"reminder_time"`
	PushOptIn    *bool                `json:"push_opt_in"`
	ChartPalette *models.ChartPalette `json:"chart_palette"`
	ChartStyle   *string              `json:"chart_style"`
	DateFormat   *string              `json:"date_format"`
}

type ProfileService struct {
	profiles ProfileRepository
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Load returns the stored profile, or the defaults for a user who never
// saved one.
func (service *ProfileService) Load(userID uuid.UUID) (models.Profile, error) {
	profile, found, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return models.DefaultProfile(userID), nil
	}
	return profile, nil
}

func (service *ProfileService) Update(userID uuid.UUID, update ProfileUpdate) (models.Profile, error) {
	profile, err := service.Load(userID)
	if err != nil {
		return models.Profile{}, err
	}
	if err := ApplyProfileUpdate(&profile, update); err != nil {
		return models.Profile{}, err
	}
	if err := service.profiles.UpsertSettings(&profile); err != nil {
		return models.Profile{}, err
	}
	return service.Load(userID)
}

// ApplyProfileUpdate validates every present field before touching profile,
// then gates palette and chart style on the profile's tier.
func ApplyProfileUpdate(profile *models.Profile, update ProfileUpdate) error {
	var displayName string
	if update.DisplayName != nil {
		normalized, err := NormalizeDisplayName(*update.DisplayName)
		if err != nil {
			return err
		}
		displayName = normalized
	}
	if update.Timezone != nil {
		if err := ValidateTimezone(*update.Timezone); err != nil {
			return err
		}
	}
	if update.ReminderTime != nil {
		if err := ValidateReminderTime(*update.ReminderTime); err != nil {
			return err
		}
	}
	if update.ChartPalette != nil {
		if err := ValidatePalette(*update.ChartPalette); err != nil {
			return err
		}
	}
	if update.ChartStyle != nil && !IsChartStyle(*update.ChartStyle) {
		return ErrProfileChartStyleInvalid
	}
	if update.DateFormat != nil && !IsDateFormat(*update.DateFormat) {
		return ErrProfileDateFormatInvalid
	}

	limits := LimitsForProfile(*profile)
	if update.ChartPalette != nil && len(*update.ChartPalette) > 0 && !limits.CustomPalette {
		return ErrTierPaletteLocked
	}
	if update.ChartStyle != nil && *update.ChartStyle != models.ChartStyleSolid && !limits.AllChartStyles {
		return ErrTierChartStyleLocked
	}

	if update.DisplayName != nil {
		profile.DisplayName = displayName
	}
	if update.Timezone != nil {
		profile.Timezone = strings.TrimSpace(*update.Timezone)
	}
	if update.ReminderTime != nil {
		profile.ReminderTime = *update.ReminderTime
	}
	if update.PushOptIn != nil {
		profile.PushOptIn = *update.PushOptIn
	}
	if update.ChartPalette != nil {
		profile.ChartPalette = datatypes.NewJSONType(*update.ChartPalette)
	}
	if update.ChartStyle != nil {
		profile.ChartStyle = *update.ChartStyle
	}
	if update.DateFormat != nil {
		profile.DateFormat = *update.DateFormat
	}
	return nil
}

func (service *ProfileService) List() ([]models.Profile, error) {
	return service.profiles.ListAll()
}

// SetTier is the admin path for tier and admin flag changes. It touches only
// those columns and creates the profile when the user has none yet.
func (service *ProfileService) SetTier(userID uuid.UUID, tier int, isAdmin *bool) (models.Profile, error) {
	if tier < models.MinAccountTier || tier > models.MaxAccountTier {
		return models.Profile{}, ErrAccountTierInvalid
	}
	return service.profiles.UpsertTier(userID, tier, isAdmin)
}
