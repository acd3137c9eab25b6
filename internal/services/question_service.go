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

const maxCustomLabelLength = 120

var (
	ErrQuestionNotFound       = errors.New("question not found")
	ErrQuestionDuplicate      = errors.New("question already in your daily set")
	ErrQuestionLabelInvalid   = errors.New("custom label must be at most 120 characters")
	ErrQuestionDisplayInvalid = errors.New("display is not allowed for this answer type")
	ErrQuestionOrderInvalid   = errors.New("order must list each of your questions once")
	ErrTierQuestionLimit      = errors.New("active question limit reached for this account tier")
)

type UserQuestionRepository interface {
	ListByUser(userID uuid.UUID) ([]models.UserQuestion, error)
	ListActiveByUser(userID uuid.UUID) ([]models.UserQuestion, error)
	FindByID(userID uuid.UUID, id uint) (models.UserQuestion, error)
	ExistsForTemplate(userID uuid.UUID, templateID uint) (bool, error)
	CountActive(userID uuid.UUID) (int64, error)
	NextSortOrder(userID uuid.UUID) (int, error)
	Create(question *models.UserQuestion) error
	Save(question *models.UserQuestion) error
	Delete(userID uuid.UUID, id uint) (int64, error)
	Reorder(userID uuid.UUID, ids []uint) error
}

type VisibleTemplateFinder interface {
	FindVisible(userID uuid.UUID, id uint) (models.QuestionTemplate, error)
}

type QuestionInput struct {
	TemplateID  uint   `json:"template_id"`
	CustomLabel string `json:"custom_label"`
}

type QuestionUpdate struct {
	CustomLabel     *string              `json:"custom_label"`
	Active          *bool                `json:"active"`
	DisplayOverride *string              `json:"display_override"`
	ColorPalette    *models.ChartPalette `json:"color_palette"`
}

type QuestionService struct {
	questions UserQuestionRepository
	templates VisibleTemplateFinder
}

func NewQuestionService(questions UserQuestionRepository, templates VisibleTemplateFinder) *QuestionService {
	return &QuestionService{questions: questions, templates: templates}
}

func (service *QuestionService) List(userID uuid.UUID) ([]models.UserQuestion, error) {
	return service.questions.ListByUser(userID)
}

func (service *QuestionService) ListActive(userID uuid.UUID) ([]models.UserQuestion, error) {
	return service.questions.ListActiveByUser(userID)
}

func (service *QuestionService) Add(actor models.Profile, input QuestionInput) (models.UserQuestion, error) {
	label, err := normalizeCustomLabel(input.CustomLabel)
	if err != nil {
		return models.UserQuestion{}, err
	}
	template, err := service.templates.FindVisible(actor.UserID, input.TemplateID)
	if err != nil {
		return models.UserQuestion{}, err
	}

	exists, err := service.questions.ExistsForTemplate(actor.UserID, template.ID)
	if err != nil {
		return models.UserQuestion{}, err
	}
	if exists {
		return models.UserQuestion{}, ErrQuestionDuplicate
	}
	if err := service.checkActiveLimit(actor); err != nil {
		return models.UserQuestion{}, err
	}

	sortOrder, err := service.questions.NextSortOrder(actor.UserID)
	if err != nil {
		return models.UserQuestion{}, err
	}

	question := models.UserQuestion{
		UserID:       actor.UserID,
		TemplateID:   template.ID,
		CustomLabel:  label,
		SortOrder:    sortOrder,
		Active:       true,
		ColorPalette: datatypes.NewJSONType(models.ChartPalette{}),
	}
	if err := service.questions.Create(&question); err != nil {
		return models.UserQuestion{}, err
	}
	return service.find(actor.UserID, question.ID)
}

func (service *QuestionService) Update(actor models.Profile, id uint, update QuestionUpdate) (models.UserQuestion, error) {
	question, err := service.find(actor.UserID, id)
	if err != nil {
		return models.UserQuestion{}, err
	}

	var label string
	if update.CustomLabel != nil {
		label, err = normalizeCustomLabel(*update.CustomLabel)
		if err != nil {
			return models.UserQuestion{}, err
		}
	}
	if update.DisplayOverride != nil && *update.DisplayOverride != "" {
		if question.Template == nil || question.Template.AnswerType == nil || !AllowsDisplay(*question.Template.AnswerType, *update.DisplayOverride) {
			return models.UserQuestion{}, ErrQuestionDisplayInvalid
		}
	}
	if update.ColorPalette != nil {
		if err := ValidatePalette(*update.ColorPalette); err != nil {
			return models.UserQuestion{}, err
		}
		if len(*update.ColorPalette) > 0 && !LimitsForProfile(actor).CustomPalette {
			return models.UserQuestion{}, ErrTierPaletteLocked
		}
	}
	if update.Active != nil && *update.Active && !question.Active {
		if err := service.checkActiveLimit(actor); err != nil {
			return models.UserQuestion{}, err
		}
	}

	if update.CustomLabel != nil {
		question.CustomLabel = label
	}
	if update.Active != nil {
		question.Active = *update.Active
	}
	if update.DisplayOverride != nil {
		question.DisplayOverride = *update.DisplayOverride
	}
	if update.ColorPalette != nil {
		question.ColorPalette = datatypes.NewJSONType(*update.ColorPalette)
	}

	template := question.Template
	question.Template = nil
	if err := service.questions.Save(&question); err != nil {
		return models.UserQuestion{}, err
	}
	question.Template = template
	return question, nil
}

// Reorder requires ids to name every question of the user exactly once.
func (service *QuestionService) Reorder(userID uuid.UUID, ids []uint) error {
	questions, err := service.questions.ListByUser(userID)
	if err != nil {
		return err
	}
	if len(ids) != len(questions) {
		return ErrQuestionOrderInvalid
	}
	owned := make(map[uint]bool, len(questions))
	for _, question := range questions {
		owned[question.ID] = false
	}
	for _, id := range ids {
		seen, ok := owned[id]
		if !ok || seen {
			return ErrQuestionOrderInvalid
		}
		owned[id] = true
	}
	return service.questions.Reorder(userID, ids)
}

func (service *QuestionService) Delete(userID uuid.UUID, id uint) error {
	removed, err := service.questions.Delete(userID, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (service *QuestionService) find(userID uuid.UUID, id uint) (models.UserQuestion, error) {
	question, err := service.questions.FindByID(userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserQuestion{}, ErrQuestionNotFound
	}
	return question, err
}

func (service *QuestionService) checkActiveLimit(actor models.Profile) error {
	active, err := service.questions.CountActive(actor.UserID)
	if err != nil {
		return err
	}
	if !WithinLimit(LimitsForProfile(actor).MaxActiveQuestions, active) {
		return ErrTierQuestionLimit
	}
	return nil
}

func normalizeCustomLabel(raw string) (string, error) {
	label := strings.TrimSpace(raw)
	if utf8.RuneCountInString(label) > maxCustomLabelLength {
		return "", ErrQuestionLabelInvalid
	}
	return label, nil
}
