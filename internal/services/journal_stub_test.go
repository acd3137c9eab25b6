package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// journalStub keeps templates, user questions and answers in memory.
type journalStub struct {
	templates map[uint]models.QuestionTemplate
	questions map[uint]models.UserQuestion
	answers   []models.Answer
	nextID    uint
	applyErr  error
	applied   int
}

func newJournalStub() *journalStub {
	return &journalStub{
		templates: make(map[uint]models.QuestionTemplate),
		questions: make(map[uint]models.UserQuestion),
		nextID:    1,
	}
}

func (stub *journalStub) id() uint {
	id := stub.nextID
	stub.nextID++
	return id
}

func (stub *journalStub) addTemplate(title string, answerType models.AnswerType, category *models.Category, owner *uuid.UUID) models.QuestionTemplate {
	template := models.QuestionTemplate{
		ID:           stub.id(),
		Title:        title,
		AnswerTypeID: answerType.ID,
		AnswerType:   &answerType,
		Category:     category,
		OwnerID:      owner,
		Meta:         datatypes.NewJSONType(models.TemplateMeta{}),
	}
	if category != nil {
		template.CategoryID = &category.ID
	}
	stub.templates[template.ID] = template
	return template
}

func (stub *journalStub) addQuestion(userID uuid.UUID, template models.QuestionTemplate, active bool) models.UserQuestion {
	question := models.UserQuestion{
		ID:         stub.id(),
		UserID:     userID,
		TemplateID: template.ID,
		SortOrder:  len(stub.questions),
		Active:     active,
	}
	stub.questions[question.ID] = question
	return stub.withTemplate(question)
}

func (stub *journalStub) withTemplate(question models.UserQuestion) models.UserQuestion {
	if template, ok := stub.templates[question.TemplateID]; ok {
		question.Template = &template
	}
	return question
}

func (stub *journalStub) sortedQuestions(userID uuid.UUID, onlyActive bool) []models.UserQuestion {
	result := make([]models.UserQuestion, 0)
	for _, question := range stub.questions {
		if question.UserID != userID || (onlyActive && !question.Active) {
			continue
		}
		result = append(result, stub.withTemplate(question))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder == result[j].SortOrder {
			return result[i].ID < result[j].ID
		}
		return result[i].SortOrder < result[j].SortOrder
	})
	return result
}

func (stub *journalStub) ListVisible(userID uuid.UUID) ([]models.QuestionTemplate, error) {
	result := make([]models.QuestionTemplate, 0)
	for _, template := range stub.templates {
		if template.OwnerID == nil || *template.OwnerID == userID {
			result = append(result, template)
		}
	}
	return result, nil
}

func (stub *journalStub) FindByID(id uint) (models.QuestionTemplate, error) {
	template, ok := stub.templates[id]
	if !ok {
		return models.QuestionTemplate{}, gorm.ErrRecordNotFound
	}
	return template, nil
}

func (stub *journalStub) CountOwnedBy(userID uuid.UUID) (int64, error) {
	var count int64
	for _, template := range stub.templates {
		if template.OwnerID != nil && *template.OwnerID == userID {
			count++
		}
	}
	return count, nil
}

func (stub *journalStub) Create(template *models.QuestionTemplate) error {
	template.ID = stub.id()
	stub.templates[template.ID] = *template
	return nil
}

func (stub *journalStub) Save(template *models.QuestionTemplate) error {
	stub.templates[template.ID] = *template
	return nil
}

func (stub *journalStub) Delete(id uint) error {
	delete(stub.templates, id)
	for questionID, question := range stub.questions {
		if question.TemplateID == id {
			delete(stub.questions, questionID)
		}
	}
	return nil
}

// journalQuestions adapts the stub to UserQuestionRepository, whose method
// names overlap with the template repository.
type journalQuestions struct{ *journalStub }

func (stub journalQuestions) ListByUser(userID uuid.UUID) ([]models.UserQuestion, error) {
	return stub.sortedQuestions(userID, false), nil
}

func (stub journalQuestions) ListActiveByUser(userID uuid.UUID) ([]models.UserQuestion, error) {
	return stub.sortedQuestions(userID, true), nil
}

func (stub journalQuestions) FindByID(userID uuid.UUID, id uint) (models.UserQuestion, error) {
	question, ok := stub.questions[id]
	if !ok || question.UserID != userID {
		return models.UserQuestion{}, gorm.ErrRecordNotFound
	}
	return stub.withTemplate(question), nil
}

func (stub journalQuestions) ExistsForTemplate(userID uuid.UUID, templateID uint) (bool, error) {
	for _, question := range stub.questions {
		if question.UserID == userID && question.TemplateID == templateID {
			return true, nil
		}
	}
	return false, nil
}

func (stub journalQuestions) CountActive(userID uuid.UUID) (int64, error) {
	return int64(len(stub.sortedQuestions(userID, true))), nil
}

func (stub journalQuestions) NextSortOrder(userID uuid.UUID) (int, error) {
	next := 0
	for _, question := range stub.sortedQuestions(userID, false) {
		if question.SortOrder >= next {
			next = question.SortOrder + 1
		}
	}
	return next, nil
}

func (stub journalQuestions) Create(question *models.UserQuestion) error {
	question.ID = stub.id()
	stored := *question
	stored.Template = nil
	stub.questions[question.ID] = stored
	return nil
}

func (stub journalQuestions) Save(question *models.UserQuestion) error {
	stored := *question
	stored.Template = nil
	stub.questions[question.ID] = stored
	return nil
}

func (stub journalQuestions) Delete(userID uuid.UUID, id uint) (int64, error) {
	question, ok := stub.questions[id]
	if !ok || question.UserID != userID {
		return 0, nil
	}
	delete(stub.questions, id)
	return 1, nil
}

func (stub journalQuestions) Reorder(userID uuid.UUID, ids []uint) error {
	for position, id := range ids {
		question := stub.questions[id]
		question.SortOrder = position
		stub.questions[id] = question
	}
	return nil
}

func (stub *journalStub) ListByUserRange(userID uuid.UUID, fromStart *time.Time, toEnd *time.Time) ([]models.Answer, error) {
	result := make([]models.Answer, 0)
	for _, answer := range stub.answers {
		if answer.UserID != userID {
			continue
		}
		if fromStart != nil && answer.Date.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !answer.Date.Before(*toEnd) {
			continue
		}
		result = append(result, answer)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (stub *journalStub) ListByUserDayRange(userID uuid.UUID, dayStart time.Time, dayEnd time.Time) ([]models.Answer, error) {
	return stub.ListByUserRange(userID, &dayStart, &dayEnd)
}

func (stub *journalStub) ApplyDay(userID uuid.UUID, dayStart time.Time, dayEnd time.Time, upserts []models.Answer, removals []uint) error {
	if stub.applyErr != nil {
		return stub.applyErr
	}
	stub.applied++
	drop := make(map[uint]struct{}, len(removals)+len(upserts))
	for _, templateID := range removals {
		drop[templateID] = struct{}{}
	}
	for _, answer := range upserts {
		drop[answer.TemplateID] = struct{}{}
	}

	kept := make([]models.Answer, 0, len(stub.answers))
	for _, answer := range stub.answers {
		_, dropped := drop[answer.TemplateID]
		inDay := !answer.Date.Before(dayStart) && answer.Date.Before(dayEnd)
		if answer.UserID == userID && inDay && dropped {
			continue
		}
		kept = append(kept, answer)
	}
	stub.answers = append(kept, upserts...)
	return nil
}

func (stub *journalStub) DeleteByUserDayRange(userID uuid.UUID, dayStart time.Time, dayEnd time.Time) (int64, error) {
	kept := make([]models.Answer, 0, len(stub.answers))
	var removed int64
	for _, answer := range stub.answers {
		if answer.UserID == userID && !answer.Date.Before(dayStart) && answer.Date.Before(dayEnd) {
			removed++
			continue
		}
		kept = append(kept, answer)
	}
	stub.answers = kept
	return removed, nil
}

type stubTemplateCatalog struct {
	categories  map[uint]models.Category
	answerTypes map[uint]models.AnswerType
}

func (stub stubTemplateCatalog) FindCategory(id uint) (models.Category, error) {
	category, ok := stub.categories[id]
	if !ok {
		return models.Category{}, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (stub stubTemplateCatalog) FindAnswerType(id uint) (models.AnswerType, error) {
	answerType, ok := stub.answerTypes[id]
	if !ok {
		return models.AnswerType{}, gorm.ErrRecordNotFound
	}
	return answerType, nil
}

var (
	booleanType    = models.AnswerType{ID: 101, Name: "Yes/No", Kind: models.AnswerKindBoolean, DefaultDisplay: models.DisplayCalendar, AllowedDisplays: datatypes.NewJSONType([]string{models.DisplayCalendar, models.DisplayList})}
	scaleType      = models.AnswerType{ID: 102, Name: "Scale", Kind: models.AnswerKindScale, DefaultDisplay: models.DisplayLine, Meta: datatypes.NewJSONType(models.NumericMeta{Min: floatPtr(1), Max: floatPtr(5), Step: floatPtr(1)})}
	moodType       = models.AnswerType{ID: 103, Name: "Mood", Kind: models.AnswerKindSingleChoice, DefaultDisplay: models.DisplayBar, Items: datatypes.NewJSONType([]string{"good", "meh", "bad"})}
	healthCategory = models.Category{ID: 201, Name: "Health"}
)

func mustDay(t interface{ Fatalf(string, ...any) }, raw string) time.Time {
	parsed, err := ParseDay(raw)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", raw, err)
	}
	return parsed
}
