package db

import (
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	database *gorm.DB
}

func NewTemplateRepository(database *gorm.DB) *TemplateRepository {
	return &TemplateRepository{database: database}
}

// ListVisible returns global templates plus the ones owned by userID.
func (repo *TemplateRepository) ListVisible(userID uuid.UUID) ([]models.QuestionTemplate, error) {
	templates := make([]models.QuestionTemplate, 0)
	if err := repo.database.
		Preload("Category").
		Preload("AnswerType").
		Where("owner_id IS NULL OR owner_id = ?", userID).
		Order("title ASC, id ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (repo *TemplateRepository) FindByID(id uint) (models.QuestionTemplate, error) {
	var template models.QuestionTemplate
	if err := repo.database.
		Preload("Category").
		Preload("AnswerType").
		First(&template, id).Error; err != nil {
		return models.QuestionTemplate{}, err
	}
	return template, nil
}

func (repo *TemplateRepository) CountOwnedBy(userID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.QuestionTemplate{}).Where("owner_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *TemplateRepository) Create(template *models.QuestionTemplate) error {
	return repo.database.Omit("Category", "AnswerType").Create(template).Error
}

func (repo *TemplateRepository) Save(template *models.QuestionTemplate) error {
	return repo.database.Omit("Category", "AnswerType").Save(template).Error
}

// Delete removes the template and every user's link to it. Answers keep
// their prompt and category snapshots.
func (repo *TemplateRepository) Delete(id uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&models.UserQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QuestionTemplate{}, id).Error
	})
}
