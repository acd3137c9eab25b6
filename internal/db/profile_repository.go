package db

import (
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

func (repo *ProfileRepository) FindByUserID(userID uuid.UUID) (models.Profile, bool, error) {
	profile := models.Profile{}
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&profile)
	if result.Error != nil {
		return models.Profile{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Profile{}, false, nil
	}
	return profile, true, nil
}

// profileSettingsColumns are the columns a user may change on their own
// profile. Tier and admin flag belong to the admin path only.
var profileSettingsColumns = []string{
	"display_name",
	"timezone",
	"reminder_time",
	"push_opt_in",
	"chart_palette",
	"chart_style",
	"date_format",
	"updated_at",
}

// Upsert creates the profile row on first write and overwrites every
// mutable column afterwards, tier included. Select("*") keeps zero values
// such as push_opt_in=false from falling back to column defaults.
func (repo *ProfileRepository) Upsert(profile *models.Profile) error {
	return repo.upsertColumns(profile, append([]string{"account_tier", "is_admin"}, profileSettingsColumns...))
}

// UpsertSettings writes the user-editable columns. On an existing row the
// stored tier and admin flag are left alone, so a concurrent tier change is
// never overwritten by a stale read.
func (repo *ProfileRepository) UpsertSettings(profile *models.Profile) error {
	return repo.upsertColumns(profile, profileSettingsColumns)
}

// UpsertTier writes only the tier, and the admin flag when given. A user
// without a row gets one with default settings.
func (repo *ProfileRepository) UpsertTier(userID uuid.UUID, tier int, isAdmin *bool) (models.Profile, error) {
	profile := models.DefaultProfile(userID)
	profile.AccountTier = tier
	columns := []string{"account_tier", "updated_at"}
	if isAdmin != nil {
		profile.IsAdmin = *isAdmin
		columns = append(columns, "is_admin")
	}
	if err := repo.upsertColumns(&profile, columns); err != nil {
		return models.Profile{}, err
	}

	stored, found, err := repo.FindByUserID(userID)
	if err != nil {
		return models.Profile{}, err
	}
	if !found {
		return models.Profile{}, gorm.ErrRecordNotFound
	}
	return stored, nil
}

func (repo *ProfileRepository) upsertColumns(profile *models.Profile, columns []string) error {
	return repo.database.Select("*").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(profile).Error
}

func (repo *ProfileRepository) ListAll() ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	if err := repo.database.Order("created_at ASC, user_id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
