package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxTemplateTitleLength = 120

var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateForbidden    = errors.New("template belongs to another user")
	ErrTemplateTitleInvalid = errors.New("title must be 1-120 characters")
	ErrTemplateMetaInvalid  = errors.New("template meta does not fit the answer type")
	ErrTierTemplateLimit    = errors.New("personal template limit reached for this account tier")
	ErrGlobalTemplateAdmin  = errors.New("only admins can manage global templates")
)

type TemplateRepository interface {
	ListVisible(userID uuid.UUID) ([]models.QuestionTemplate, error)
	FindByID(id uint) (models.QuestionTemplate, error)
	CountOwnedBy(userID uuid.UUID) (int64, error)
	Create(template *models.QuestionTemplate) error
	Save(template *models.QuestionTemplate) error
	Delete(id uint) error
}

type TemplateCatalogReader interface {
	FindCategory(id uint) (models.Category, error)
	FindAnswerType(id uint) (models.AnswerType, error)
}

type TemplateInput struct {
	Title        string              `json:"title"`
	CategoryID   *uint               `json:"category_id"`
	AnswerTypeID uint                `json:"answer_type_id"`
	Meta         models.TemplateMeta `json:"meta"`
	Global       bool                `json:"global"`
}

type TemplateService struct {
	templates TemplateRepository
	catalog   TemplateCatalogReader
}

func NewTemplateService(templates TemplateRepository, catalog TemplateCatalogReader) *TemplateService {
	return &TemplateService{templates: templates, catalog: catalog}
}

func (service *TemplateService) ListVisible(userID uuid.UUID) ([]models.QuestionTemplate, error) {
	return service.templates.ListVisible(userID)
}

// FindVisible loads a template the user may add: global or their own.
func (service *TemplateService) FindVisible(userID uuid.UUID, id uint) (models.QuestionTemplate, error) {
	template, err := service.find(id)
	if err != nil {
		return models.QuestionTemplate{}, err
	}
	if template.OwnerID != nil && *template.OwnerID != userID {
		return models.QuestionTemplate{}, ErrTemplateNotFound
	}
	return template, nil
}

func (service *TemplateService) Create(actor models.Profile, input TemplateInput) (models.QuestionTemplate, error) {
	isAdmin := IsAdminProfile(actor)
	if input.Global && !isAdmin {
		return models.QuestionTemplate{}, ErrGlobalTemplateAdmin
	}

	template := models.QuestionTemplate{}
	if err := service.applyInput(&template, input); err != nil {
		return models.QuestionTemplate{}, err
	}

	if !input.Global {
		owned, err := service.templates.CountOwnedBy(actor.UserID)
		if err != nil {
			return models.QuestionTemplate{}, err
		}
		if !WithinLimit(LimitsForProfile(actor).MaxPersonalTemplates, owned) {
			return models.QuestionTemplate{}, ErrTierTemplateLimit
		}
		ownerID := actor.UserID
		template.OwnerID = &ownerID
	}

	if err := service.templates.Create(&template); err != nil {
		return models.QuestionTemplate{}, err
	}
	return service.find(template.ID)
}

func (service *TemplateService) Update(actor models.Profile, id uint, input TemplateInput) (models.QuestionTemplate, error) {
	template, err := service.findEditable(actor, id)
	if err != nil {
		return models.QuestionTemplate{}, err
	}
	if err := service.applyInput(&template, input); err != nil {
		return models.QuestionTemplate{}, err
	}
	template.Category = nil
	template.AnswerType = nil
	if err := service.templates.Save(&template); err != nil {
		return models.QuestionTemplate{}, err
	}
	return service.find(template.ID)
}

func (service *TemplateService) Delete(actor models.Profile, id uint) error {
	if _, err := service.findEditable(actor, id); err != nil {
		return err
	}
	return service.templates.Delete(id)
}

func (service *TemplateService) find(id uint) (models.QuestionTemplate, error) {
	template, err := service.templates.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.QuestionTemplate{}, ErrTemplateNotFound
	}
	return template, err
}

func (service *TemplateService) findEditable(actor models.Profile, id uint) (models.QuestionTemplate, error) {
	template, err := service.find(id)
	if err != nil {
		return models.QuestionTemplate{}, err
	}
	if IsAdminProfile(actor) {
		return template, nil
	}
	if template.OwnerID == nil {
		return models.QuestionTemplate{}, ErrGlobalTemplateAdmin
	}
	if *template.OwnerID != actor.UserID {
		return models.QuestionTemplate{}, ErrTemplateForbidden
	}
	return template, nil
}

func (service *TemplateService) applyInput(template *models.QuestionTemplate, input TemplateInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTemplateTitleLength {
		return ErrTemplateTitleInvalid
	}

	answerType, err := service.catalog.FindAnswerType(input.AnswerTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAnswerTypeNotFound
	}
	if err != nil {
		return err
	}

	if input.CategoryID != nil {
		if _, err := service.catalog.FindCategory(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}

	meta, err := ValidateTemplateMeta(answerType, input.Meta)
	if err != nil {
		return err
	}

	template.Title = title
	template.CategoryID = input.CategoryID
	template.AnswerTypeID = answerType.ID
	template.Meta = datatypes.NewJSONType(meta)
	return nil
}
