package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
)

var (
	ErrDayInFuture          = errors.New("date is in the future")
	ErrDayQuestionUnknown   = errors.New("question is not in your daily set")
	ErrDayAnswerDuplicate   = errors.New("each question may be answered once per request")
	ErrDayAnswersSaveFailed = errors.New("save answers failed")
	ErrDayAnswersLoadFailed = errors.New("load answers failed")
)

type AnswerRepository interface {
	ListByUserRange(userID uuid.UUID, fromStart *time.Time, toEnd *time.Time) ([]models.Answer, error)
	ListByUserDayRange(userID uuid.UUID, dayStart time.Time, dayEnd time.Time) ([]models.Answer, error)
	ApplyDay(userID uuid.UUID, dayStart time.Time, dayEnd time.Time, upserts []models.Answer, removals []uint) error
	DeleteByUserDayRange(userID uuid.UUID, dayStart time.Time, dayEnd time.Time) (int64, error)
}

type DayQuestionReader interface {
	ListByUser(userID uuid.UUID) ([]models.UserQuestion, error)
	ListActiveByUser(userID uuid.UUID) ([]models.UserQuestion, error)
}

type DayAnswerInput struct {
	TemplateID uint            `json:"template_id"`
	Value      json.RawMessage `json:"value"`
}

type DayQuestion struct {
	QuestionID uint               `json:"question_id"`
	TemplateID uint               `json:"template_id"`
	Prompt     string             `json:"prompt"`
	Category   string             `json:"category"`
	Definition QuestionDefinition `json:"definition"`
	Value      any                `json:"value"`
}

type DayView struct {
	Date      string        `json:"date"`
	Questions []DayQuestion `json:"questions"`
}

type DayService struct {
	answers   AnswerRepository
	questions DayQuestionReader
}

func NewDayService(answers AnswerRepository, questions DayQuestionReader) *DayService {
	return &DayService{answers: answers, questions: questions}
}

func (service *DayService) LoadDay(userID uuid.UUID, day time.Time) (DayView, error) {
	questions, err := service.questions.ListActiveByUser(userID)
	if err != nil {
		return DayView{}, fmt.Errorf("%w: %v", ErrDayAnswersLoadFailed, err)
	}
	dayStart, dayEnd := DayRange(day, time.UTC)
	answers, err := service.answers.ListByUserDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return DayView{}, fmt.Errorf("%w: %v", ErrDayAnswersLoadFailed, err)
	}

	byTemplate := make(map[uint]models.Answer, len(answers))
	for _, answer := range answers {
		byTemplate[answer.TemplateID] = answer
	}

	view := DayView{Date: FormatDay(dayStart), Questions: make([]DayQuestion, 0, len(questions))}
	for _, question := range questions {
		definition := DefinitionForQuestion(question)
		entry := DayQuestion{
			QuestionID: question.ID,
			TemplateID: question.TemplateID,
			Prompt:     question.Prompt(),
			Category:   questionCategoryName(question),
			Definition: definition,
		}
		if answer, ok := byTemplate[question.TemplateID]; ok {
			entry.Value = AnswerValue(answer, definition.Kind)
		}
		view.Questions = append(view.Questions, entry)
	}
	return view, nil
}

// SaveDay validates every answer before writing any of them; the writes
// then run in one transaction.
func (service *DayService) SaveDay(profile models.Profile, day time.Time, inputs []DayAnswerInput, now time.Time) (DayView, error) {
	if day.After(TodayInTimezone(now, profile.Timezone)) {
		return DayView{}, ErrDayInFuture
	}

	questions, err := service.questions.ListByUser(profile.UserID)
	if err != nil {
		return DayView{}, fmt.Errorf("%w: %v", ErrDayAnswersLoadFailed, err)
	}
	byTemplate := make(map[uint]models.UserQuestion, len(questions))
	for _, question := range questions {
		byTemplate[question.TemplateID] = question
	}

	dayStart, dayEnd := DayRange(day, time.UTC)
	upserts := make([]models.Answer, 0, len(inputs))
	removals := make([]uint, 0)
	seen := make(map[uint]struct{}, len(inputs))

	for _, input := range inputs {
		question, ok := byTemplate[input.TemplateID]
		if !ok {
			return DayView{}, fmt.Errorf("%w: template %d", ErrDayQuestionUnknown, input.TemplateID)
		}
		if _, duplicate := seen[input.TemplateID]; duplicate {
			return DayView{}, ErrDayAnswerDuplicate
		}
		seen[input.TemplateID] = struct{}{}

		answer := models.Answer{
			UserID:           profile.UserID,
			TemplateID:       input.TemplateID,
			Date:             dayStart,
			PromptSnapshot:   question.Prompt(),
			CategorySnapshot: questionCategoryName(question),
		}
		present, err := ApplyAnswerValue(&answer, DefinitionForQuestion(question), input.Value)
		if err != nil {
			return DayView{}, fmt.Errorf("%s: %w", question.Prompt(), err)
		}
		if !present {
			removals = append(removals, input.TemplateID)
			continue
		}
		upserts = append(upserts, answer)
	}

	if err := service.answers.ApplyDay(profile.UserID, dayStart, dayEnd, upserts, removals); err != nil {
		return DayView{}, fmt.Errorf("%w: %v", ErrDayAnswersSaveFailed, err)
	}
	return service.LoadDay(profile.UserID, dayStart)
}

func (service *DayService) DeleteDay(userID uuid.UUID, day time.Time) (int64, error) {
	dayStart, dayEnd := DayRange(day, time.UTC)
	return service.answers.DeleteByUserDayRange(userID, dayStart, dayEnd)
}

func questionCategoryName(question models.UserQuestion) string {
	if question.Template == nil || question.Template.Category == nil {
		return ""
	}
	return question.Template.Category.Name
}
