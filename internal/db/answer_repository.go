package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/gorm"
)

type AnswerRepository struct {
	database *gorm.DB
}

func NewAnswerRepository(database *gorm.DB) *AnswerRepository {
	return &AnswerRepository{database: database}
}

func (repo *AnswerRepository) ListByUserRange(userID uuid.UUID, fromStart *time.Time, toEnd *time.Time) ([]models.Answer, error) {
	query := repo.database.Model(&models.Answer{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	answers := make([]models.Answer, 0)
	if err := query.Order("date ASC, template_id ASC").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (repo *AnswerRepository) ListByUserDayRange(userID uuid.UUID, dayStart time.Time, dayEnd time.Time) ([]models.Answer, error) {
	answers := make([]models.Answer, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("template_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

// ApplyDay writes one day's answers atomically: entries in upserts replace
// the stored value for their template, templates in removals lose theirs.
func (repo *AnswerRepository) ApplyDay(userID uuid.UUID, dayStart time.Time, dayEnd time.Time, upserts []models.Answer, removals []uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for _, templateID := range removals {
			if err := tx.
				Where("user_id = ? AND template_id = ? AND date >= ? AND date < ?", userID, templateID, dayStart, dayEnd).
				Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}

		for index := range upserts {
			incoming := upserts[index]
			var existing models.Answer
			result := tx.
				Where("user_id = ? AND template_id = ? AND date >= ? AND date < ?", userID, incoming.TemplateID, dayStart, dayEnd).
				Limit(1).
				Find(&existing)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				if err := tx.Create(&incoming).Error; err != nil {
					return err
				}
				continue
			}

			existing.BoolValue = incoming.BoolValue
			existing.NumberValue = incoming.NumberValue
			existing.ScaleValue = incoming.ScaleValue
			existing.TextValue = incoming.TextValue
			existing.PromptSnapshot = incoming.PromptSnapshot
			existing.CategorySnapshot = incoming.CategorySnapshot
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *AnswerRepository) DeleteByUserDayRange(userID uuid.UUID, dayStart time.Time, dayEnd time.Time) (int64, error) {
	result := repo.database.Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).Delete(&models.Answer{})
	return result.RowsAffected, result.Error
}
