package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxCategoryNameLength   = 64
	maxAnswerTypeNameLength = 64
	minChoiceItems          = 2
	maxChoiceItems          = 20
	maxChoiceItemLength     = 64
)

var (
	ErrCategoryNameInvalid      = errors.New("category name must be 1-64 characters")
	ErrCategoryNameTaken        = errors.New("category name already exists")
	ErrCategoryColorInvalid     = errors.New("category color must be a hex color")
	ErrAnswerTypeNameInvalid    = errors.New("answer type name must be 1-64 characters")
	ErrAnswerTypeKindInvalid    = errors.New("invalid answer type")
	ErrAnswerTypeItemsInvalid   = errors.New("choice types need 2-20 unique items")
	ErrAnswerTypeMetaInvalid    = errors.New("min must be less than max and step positive")
	ErrAnswerTypeDisplayInvalid = errors.New("default display must be one of the allowed displays")
	ErrAnswerTypeInUse          = errors.New("answer type is used by templates")
	ErrCategoryNotFound         = errors.New("category not found")
	ErrAnswerTypeNotFound       = errors.New("answer type not found")
)

type CatalogRepository interface {
	ListCategories() ([]models.Category, error)
	FindCategory(id uint) (models.Category, error)
	CategoryNameTaken(name string, exceptID uint) (bool, error)
	CreateCategory(category *models.Category) error
	SaveCategory(category *models.Category) error
	DeleteCategory(id uint) error
	ListAnswerTypes() ([]models.AnswerType, error)
	FindAnswerType(id uint) (models.AnswerType, error)
	CreateAnswerType(answerType *models.AnswerType) error
	SaveAnswerType(answerType *models.AnswerType) error
	CountTemplatesUsingAnswerType(id uint) (int64, error)
	DeleteAnswerType(id uint) error
}

type CategoryInput struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

type AnswerTypeInput struct {
	Name            string             `json:"name"`
	Kind            string             `json:"type"`
	Items           []string           `json:"items"`
	Meta            models.NumericMeta `json:"meta"`
	DefaultDisplay  string             `json:"default_display"`
	AllowedDisplays []string           `json:"allowed_displays"`
}

type CatalogService struct {
	catalog CatalogRepository
}

func NewCatalogService(catalog CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (service *CatalogService) ListCategories() ([]models.Category, error) {
	return service.catalog.ListCategories()
}

func (service *CatalogService) CreateCategory(input CategoryInput) (models.Category, error) {
	category := models.Category{}
	if err := service.applyCategoryInput(&category, input); err != nil {
		return models.Category{}, err
	}
	if err := service.catalog.CreateCategory(&category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (service *CatalogService) FindCategory(id uint) (models.Category, error) {
	category, err := service.catalog.FindCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	return category, err
}

func (service *CatalogService) UpdateCategory(id uint, input CategoryInput) (models.Category, error) {
	category, err := service.FindCategory(id)
	if err != nil {
		return models.Category{}, err
	}
	if err := service.applyCategoryInput(&category, input); err != nil {
		return models.Category{}, err
	}
	if err := service.catalog.SaveCategory(&category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (service *CatalogService) DeleteCategory(id uint) error {
	if _, err := service.FindCategory(id); err != nil {
		return err
	}
	return service.catalog.DeleteCategory(id)
}

func (service *CatalogService) applyCategoryInput(category *models.Category, input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > maxCategoryNameLength {
		return ErrCategoryNameInvalid
	}
	color := strings.TrimSpace(input.Color)
	if color != "" && !IsHexColor(color) {
		return ErrCategoryColorInvalid
	}
	taken, err := service.catalog.CategoryNameTaken(name, category.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCategoryNameTaken
	}

	category.Name = name
	category.Color = color
	category.SortOrder = input.SortOrder
	return nil
}

func (service *CatalogService) ListAnswerTypes() ([]models.AnswerType, error) {
	return service.catalog.ListAnswerTypes()
}

func (service *CatalogService) FindAnswerType(id uint) (models.AnswerType, error) {
	answerType, err := service.catalog.FindAnswerType(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AnswerType{}, ErrAnswerTypeNotFound
	}
	return answerType, err
}

func (service *CatalogService) CreateAnswerType(input AnswerTypeInput) (models.AnswerType, error) {
	answerType := models.AnswerType{}
	if err := applyAnswerTypeInput(&answerType, input); err != nil {
		return models.AnswerType{}, err
	}
	if err := service.catalog.CreateAnswerType(&answerType); err != nil {
		return models.AnswerType{}, err
	}
	return answerType, nil
}

func (service *CatalogService) UpdateAnswerType(id uint, input AnswerTypeInput) (models.AnswerType, error) {
	answerType, err := service.FindAnswerType(id)
	if err != nil {
		return models.AnswerType{}, err
	}
	if err := applyAnswerTypeInput(&answerType, input); err != nil {
		return models.AnswerType{}, err
	}
	if err := service.catalog.SaveAnswerType(&answerType); err != nil {
		return models.AnswerType{}, err
	}
	return answerType, nil
}

func (service *CatalogService) DeleteAnswerType(id uint) error {
	if _, err := service.FindAnswerType(id); err != nil {
		return err
	}
	inUse, err := service.catalog.CountTemplatesUsingAnswerType(id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrAnswerTypeInUse
	}
	return service.catalog.DeleteAnswerType(id)
}

func applyAnswerTypeInput(answerType *models.AnswerType, input AnswerTypeInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > maxAnswerTypeNameLength {
		return ErrAnswerTypeNameInvalid
	}
	kind := strings.TrimSpace(input.Kind)
	if !IsAnswerKind(kind) {
		return ErrAnswerTypeKindInvalid
	}

	items := []string{}
	if IsChoiceKind(kind) {
		normalized, err := NormalizeChoiceItems(input.Items)
		if err != nil {
			return err
		}
		items = normalized
	}

	meta := models.NumericMeta{}
	switch kind {
	case models.AnswerKindNumber:
		meta = input.Meta
	case models.AnswerKindScale:
		meta = withScaleDefaults(input.Meta)
	}
	if err := ValidateNumericMeta(meta); err != nil {
		return err
	}

	allowed, defaultDisplay, err := normalizeDisplays(input.AllowedDisplays, input.DefaultDisplay)
	if err != nil {
		return err
	}

	answerType.Name = name
	answerType.Kind = kind
	answerType.Items = datatypes.NewJSONType(items)
	answerType.Meta = datatypes.NewJSONType(meta)
	answerType.DefaultDisplay = defaultDisplay
	answerType.AllowedDisplays = datatypes.NewJSONType(allowed)
	return nil
}

func IsAnswerKind(kind string) bool {
	switch kind {
	case models.AnswerKindBoolean, models.AnswerKindNumber, models.AnswerKindScale,
		models.AnswerKindText, models.AnswerKindSingleChoice, models.AnswerKindMultiChoice:
		return true
	default:
		return false
	}
}

func IsChoiceKind(kind string) bool {
	return kind == models.AnswerKindSingleChoice || kind == models.AnswerKindMultiChoice
}

func IsDisplay(value string) bool {
	switch value {
	case models.DisplayLine, models.DisplayBar, models.DisplayCalendar, models.DisplayHeatmap, models.DisplayList:
		return true
	default:
		return false
	}
}

// NormalizeChoiceItems trims items and requires 2-20 distinct,
// case-insensitively unique entries.
func NormalizeChoiceItems(raw []string) ([]string, error) {
	if len(raw) < minChoiceItems || len(raw) > maxChoiceItems {
		return nil, ErrAnswerTypeItemsInvalid
	}
	seen := make(map[string]struct{}, len(raw))
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" || utf8.RuneCountInString(trimmed) > maxChoiceItemLength {
			return nil, ErrAnswerTypeItemsInvalid
		}
		key := strings.ToLower(trimmed)
		if _, duplicate := seen[key]; duplicate {
			return nil, ErrAnswerTypeItemsInvalid
		}
		seen[key] = struct{}{}
		items = append(items, trimmed)
	}
	return items, nil
}

func ValidateNumericMeta(meta models.NumericMeta) error {
	if meta.Min != nil && meta.Max != nil && *meta.Min >= *meta.Max {
		return ErrAnswerTypeMetaInvalid
	}
	if meta.Step != nil && *meta.Step <= 0 {
		return ErrAnswerTypeMetaInvalid
	}
	return nil
}

func withScaleDefaults(meta models.NumericMeta) models.NumericMeta {
	if meta.Min == nil {
		value := 1.0
		meta.Min = &value
	}
	if meta.Max == nil {
		value := 5.0
		meta.Max = &value
	}
	if meta.Step == nil {
		value := 1.0
		meta.Step = &value
	}
	return meta
}

func normalizeDisplays(rawAllowed []string, rawDefault string) ([]string, string, error) {
	allowed := make([]string, 0, len(rawAllowed))
	seen := make(map[string]struct{}, len(rawAllowed))
	for _, display := range rawAllowed {
		trimmed := strings.TrimSpace(display)
		if !IsDisplay(trimmed) {
			return nil, "", ErrAnswerTypeDisplayInvalid
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		allowed = append(allowed, trimmed)
	}

	defaultDisplay := strings.TrimSpace(rawDefault)
	if defaultDisplay == "" {
		defaultDisplay = models.DisplayList
	}
	if !IsDisplay(defaultDisplay) {
		return nil, "", ErrAnswerTypeDisplayInvalid
	}
	if len(allowed) == 0 {
		allowed = append(allowed, defaultDisplay)
	}
	if _, ok := seen[defaultDisplay]; !ok && len(seen) > 0 {
		return nil, "", ErrAnswerTypeDisplayInvalid
	}
	return allowed, defaultDisplay, nil
}

// AllowsDisplay reports whether display is offered by the answer type.
func AllowsDisplay(answerType models.AnswerType, display string) bool {
	for _, allowed := range answerType.AllowedDisplays.Data() {
		if allowed == display {
			return true
		}
	}
	return answerType.DefaultDisplay == display
}
