package db

import (
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushSubscriptionRepository struct {
	database *gorm.DB
}

func NewPushSubscriptionRepository(database *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{database: database}
}

// Upsert stores the user's single subscription, replacing the previous
// browser. An endpoint registered under another account is released first so
// one browser never notifies two users.
func (repo *PushSubscriptionRepository) Upsert(subscription *models.PushSubscription) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ? AND user_id <> ?", subscription.Endpoint, subscription.UserID).
			Delete(&models.PushSubscription{}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"endpoint", "p256dh", "auth", "user_agent", "updated_at"}),
		}).Create(subscription).Error; err != nil {
			return err
		}
		var stored models.PushSubscription
		if err := tx.Where("user_id = ?", subscription.UserID).Take(&stored).Error; err != nil {
			return err
		}
		*subscription = stored
		return nil
	})
}

func (repo *PushSubscriptionRepository) ListByUser(userID uuid.UUID) ([]models.PushSubscription, error) {
	subscriptions := make([]models.PushSubscription, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("id ASC").Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (repo *PushSubscriptionRepository) DeleteByUserAndEndpoint(userID uuid.UUID, endpoint string) (int64, error) {
	result := repo.database.Where("user_id = ? AND endpoint = ?", userID, endpoint).Delete(&models.PushSubscription{})
	return result.RowsAffected, result.Error
}

func (repo *PushSubscriptionRepository) DeleteByID(id uint) error {
	return repo.database.Delete(&models.PushSubscription{}, id).Error
}

// ListReminderTargets joins every subscription with its owner's reminder
// settings, restricted to profiles that opted in to push reminders.
func (repo *PushSubscriptionRepository) ListReminderTargets() ([]models.ReminderTarget, error) {
	targets := make([]models.ReminderTarget, 0)
	if err := repo.database.
		Table("push_subscriptions").
		Select("push_subscriptions.*, profiles.timezone AS timezone, profiles.reminder_time AS reminder_time").
		Joins("JOIN profiles ON profiles.user_id = push_subscriptions.user_id").
		Where("profiles.push_opt_in = ?", true).
		Order("push_subscriptions.id ASC").
		Scan(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}
