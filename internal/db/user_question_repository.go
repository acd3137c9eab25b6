package db

import (
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/gorm"
)

type UserQuestionRepository struct {
	database *gorm.DB
}

func NewUserQuestionRepository(database *gorm.DB) *UserQuestionRepository {
	return &UserQuestionRepository{database: database}
}

func (repo *UserQuestionRepository) withTemplate() *gorm.DB {
	return repo.database.
		Preload("Template").
		Preload("Template.Category").
		Preload("Template.AnswerType")
}

func (repo *UserQuestionRepository) ListByUser(userID uuid.UUID) ([]models.UserQuestion, error) {
	questions := make([]models.UserQuestion, 0)
	if err := repo.withTemplate().
		Where("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (repo *UserQuestionRepository) ListActiveByUser(userID uuid.UUID) ([]models.UserQuestion, error) {
	questions := make([]models.UserQuestion, 0)
	if err := repo.withTemplate().
		Where("user_id = ? AND active = ?", userID, true).
		Order("sort_order ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (repo *UserQuestionRepository) FindByID(userID uuid.UUID, id uint) (models.UserQuestion, error) {
	var question models.UserQuestion
	if err := repo.withTemplate().
		Where("user_id = ? AND id = ?", userID, id).
		First(&question).Error; err != nil {
		return models.UserQuestion{}, err
	}
	return question, nil
}

func (repo *UserQuestionRepository) ExistsForTemplate(userID uuid.UUID, templateID uint) (bool, error) {
	var count int64
	if err := repo.database.Model(&models.UserQuestion{}).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *UserQuestionRepository) CountActive(userID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.UserQuestion{}).
		Where("user_id = ? AND active = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserQuestionRepository) NextSortOrder(userID uuid.UUID) (int, error) {
	var maxOrder *int
	if err := repo.database.Model(&models.UserQuestion{}).
		Where("user_id = ?", userID).
		Select("MAX(sort_order)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder + 1, nil
}

func (repo *UserQuestionRepository) Create(question *models.UserQuestion) error {
	return repo.database.Omit("Template").Create(question).Error
}

func (repo *UserQuestionRepository) Save(question *models.UserQuestion) error {
	return repo.database.Omit("Template").Save(question).Error
}

func (repo *UserQuestionRepository) Delete(userID uuid.UUID, id uint) (int64, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, id).Delete(&models.UserQuestion{})
	return result.RowsAffected, result.Error
}

// Reorder assigns sort_order by position in ids.
func (repo *UserQuestionRepository) Reorder(userID uuid.UUID, ids []uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for position, id := range ids {
			if err := tx.Model(&models.UserQuestion{}).
				Where("user_id = ? AND id = ?", userID, id).
				Update("sort_order", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
