package db

import (
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository stores the admin-managed categories and answer types.
type CatalogRepository struct {
	database *gorm.DB
}

func NewCatalogRepository(database *gorm.DB) *CatalogRepository {
	return &CatalogRepository{database: database}
}

func (repo *CatalogRepository) ListCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := repo.database.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (repo *CatalogRepository) FindCategory(id uint) (models.Category, error) {
	var category models.Category
	if err := repo.database.First(&category, id).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (repo *CatalogRepository) CategoryNameTaken(name string, exceptID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Category{}).
		Where("lower(name) = lower(?) AND id <> ?", name, exceptID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *CatalogRepository) CreateCategory(category *models.Category) error {
	return repo.database.Create(category).Error
}

func (repo *CatalogRepository) SaveCategory(category *models.Category) error {
	return repo.database.Save(category).Error
}

func (repo *CatalogRepository) DeleteCategory(id uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.QuestionTemplate{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

func (repo *CatalogRepository) ListAnswerTypes() ([]models.AnswerType, error) {
	answerTypes := make([]models.AnswerType, 0)
	if err := repo.database.Order("id ASC").Find(&answerTypes).Error; err != nil {
		return nil, err
	}
	return answerTypes, nil
}

func (repo *CatalogRepository) FindAnswerType(id uint) (models.AnswerType, error) {
	var answerType models.AnswerType
	if err := repo.database.First(&answerType, id).Error; err != nil {
		return models.AnswerType{}, err
	}
	return answerType, nil
}

func (repo *CatalogRepository) CreateAnswerType(answerType *models.AnswerType) error {
	return repo.database.Create(answerType).Error
}

func (repo *CatalogRepository) SaveAnswerType(answerType *models.AnswerType) error {
	return repo.database.Save(answerType).Error
}

func (repo *CatalogRepository) CountTemplatesUsingAnswerType(id uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.QuestionTemplate{}).Where("answer_type_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *CatalogRepository) DeleteAnswerType(id uint) error {
	return repo.database.Delete(&models.AnswerType{}, id).Error
}
