package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
)

var ExportCSVHeaders = []string{"Date", "Category", "Question", "Type", "Value"}

type ExportAnswerReader interface {
	ListByUserRange(userID uuid.UUID, fromStart *time.Time, toEnd *time.Time) ([]models.Answer, error)
}

type ExportQuestionReader interface {
	ListByUser(userID uuid.UUID) ([]models.UserQuestion, error)
}

type ExportService struct {
	answers   ExportAnswerReader
	questions ExportQuestionReader
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

type ExportCSVRow struct {
	Date     string
	Category string
	Question string
	Type     string
	Value    string
}

func NewExportService(answers ExportAnswerReader, questions ExportQuestionReader) *ExportService {
	return &ExportService{
		answers:   answers,
		questions: questions,
	}
}

func (service *ExportService) BuildSummary(userID uuid.UUID, from *time.Time, to *time.Time) (ExportSummary, error) {
	answers, err := service.answers.ListByUserRange(userID, from, RangeEnd(to))
	if err != nil {
		return ExportSummary{}, err
	}
	if len(answers) == 0 {
		return ExportSummary{}, nil
	}

	first := answers[0].Date
	last := answers[0].Date
	for _, answer := range answers[1:] {
		if answer.Date.Before(first) {
			first = answer.Date
		}
		if answer.Date.After(last) {
			last = answer.Date
		}
	}

	return ExportSummary{
		TotalEntries: len(answers),
		HasData:      true,
		DateFrom:     FormatDay(first),
		DateTo:       FormatDay(last),
	}, nil
}

// BuildCSVRows orders rows by date, then by the question's position in the
// user's set; answers whose question was removed sort after by prompt.
func (service *ExportService) BuildCSVRows(userID uuid.UUID, from *time.Time, to *time.Time) ([]ExportCSVRow, error) {
	answers, err := service.answers.ListByUserRange(userID, from, RangeEnd(to))
	if err != nil {
		return nil, err
	}
	questions, err := service.questions.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	kinds := make(map[uint]string, len(questions))
	positions := make(map[uint]int, len(questions))
	for index, question := range questions {
		positions[question.TemplateID] = index
		kinds[question.TemplateID] = DefinitionForQuestion(question).Kind
	}

	sort.SliceStable(answers, func(i, j int) bool {
		left, right := answers[i], answers[j]
		if !left.Date.Equal(right.Date) {
			return left.Date.Before(right.Date)
		}
		leftPosition, leftKnown := positions[left.TemplateID]
		rightPosition, rightKnown := positions[right.TemplateID]
		if leftKnown != rightKnown {
			return leftKnown
		}
		if leftKnown && leftPosition != rightPosition {
			return leftPosition < rightPosition
		}
		return left.PromptSnapshot < right.PromptSnapshot
	})

	rows := make([]ExportCSVRow, 0, len(answers))
	for _, answer := range answers {
		kind := exportAnswerKind(answer, kinds)
		rows = append(rows, ExportCSVRow{
			Date:     FormatDay(answer.Date),
			Category: answer.CategorySnapshot,
			Question: answer.PromptSnapshot,
			Type:     kind,
			Value:    FormatAnswerValue(answer, kind),
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{row.Date, row.Category, row.Question, row.Type, row.Value}
}

func exportAnswerKind(answer models.Answer, kinds map[uint]string) string {
	if kind, ok := kinds[answer.TemplateID]; ok && kind != "" {
		return kind
	}
	switch {
	case answer.BoolValue != nil:
		return models.AnswerKindBoolean
	case answer.NumberValue != nil:
		return models.AnswerKindNumber
	case answer.ScaleValue != nil:
		return models.AnswerKindScale
	default:
		return models.AnswerKindText
	}
}

func ExportFilename(now time.Time) string {
	return "bujo-export-" + now.UTC().Format(dayLayout) + ".csv"
}
