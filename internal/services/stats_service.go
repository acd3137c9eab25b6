package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
)

const maxTopChoices = 5

type TrendPoint struct {
	Date  string `json:"date"`
	Value any    `json:"value"`
}

type ChoiceCount struct {
	Choice string `json:"choice"`
	Count  int    `json:"count"`
}

type TrendSummary struct {
	Count      int           `json:"count"`
	Average    *float64      `json:"average,omitempty"`
	TrueRate   *float64      `json:"true_rate,omitempty"`
	TopChoices []ChoiceCount `json:"top_choices,omitempty"`
}

type QuestionTrend struct {
	QuestionID   uint                `json:"question_id"`
	TemplateID   uint                `json:"template_id"`
	Prompt       string              `json:"prompt"`
	Category     string              `json:"category"`
	Definition   QuestionDefinition  `json:"definition"`
	ColorPalette models.ChartPalette `json:"color_palette"`
	Series       []TrendPoint        `json:"series"`
	Summary      TrendSummary        `json:"summary"`
}

type TrendReport struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Questions []QuestionTrend `json:"questions"`
}

type CalendarDay struct {
	Date     string `json:"date"`
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
}

type CalendarMonth struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type StatsService struct {
	answers   AnswerRepository
	questions DayQuestionReader
}

func NewStatsService(answers AnswerRepository, questions DayQuestionReader) *StatsService {
	return &StatsService{answers: answers, questions: questions}
}

// BuildTrends returns one series per active question over [from, to].
func (service *StatsService) BuildTrends(userID uuid.UUID, from time.Time, to time.Time) (TrendReport, error) {
	questions, err := service.questions.ListActiveByUser(userID)
	if err != nil {
		return TrendReport{}, err
	}
	answers, err := service.answers.ListByUserRange(userID, &from, RangeEnd(&to))
	if err != nil {
		return TrendReport{}, err
	}

	byTemplate := make(map[uint][]models.Answer)
	for _, answer := range answers {
		byTemplate[answer.TemplateID] = append(byTemplate[answer.TemplateID], answer)
	}

	report := TrendReport{From: FormatDay(from), To: FormatDay(to), Questions: make([]QuestionTrend, 0, len(questions))}
	for _, question := range questions {
		definition := DefinitionForQuestion(question)
		questionAnswers := byTemplate[question.TemplateID]

		series := make([]TrendPoint, 0, len(questionAnswers))
		for _, answer := range questionAnswers {
			series = append(series, TrendPoint{Date: FormatDay(answer.Date), Value: AnswerValue(answer, definition.Kind)})
		}

		report.Questions = append(report.Questions, QuestionTrend{
			QuestionID:   question.ID,
			TemplateID:   question.TemplateID,
			Prompt:       question.Prompt(),
			Category:     questionCategoryName(question),
			Definition:   definition,
			ColorPalette: paletteOf(question),
			Series:       series,
			Summary:      SummarizeAnswers(definition.Kind, questionAnswers),
		})
	}
	return report, nil
}

func SummarizeAnswers(kind string, answers []models.Answer) TrendSummary {
	summary := TrendSummary{Count: len(answers)}
	if len(answers) == 0 {
		return summary
	}

	switch kind {
	case models.AnswerKindNumber, models.AnswerKindScale:
		total := 0.0
		counted := 0
		for _, answer := range answers {
			switch {
			case answer.NumberValue != nil:
				total += *answer.NumberValue
				counted++
			case answer.ScaleValue != nil:
				total += float64(*answer.ScaleValue)
				counted++
			}
		}
		if counted > 0 {
			average := total / float64(counted)
			summary.Average = &average
		}
	case models.AnswerKindBoolean:
		yes := 0
		counted := 0
		for _, answer := range answers {
			if answer.BoolValue == nil {
				continue
			}
			counted++
			if *answer.BoolValue {
				yes++
			}
		}
		if counted > 0 {
			rate := float64(yes) / float64(counted)
			summary.TrueRate = &rate
		}
	case models.AnswerKindSingleChoice, models.AnswerKindMultiChoice:
		summary.TopChoices = topChoices(kind, answers)
	}
	return summary
}

func topChoices(kind string, answers []models.Answer) []ChoiceCount {
	counts := make(map[string]int)
	for _, answer := range answers {
		for _, choice := range AnswerChoices(answer, kind) {
			counts[choice]++
		}
	}
	ranked := make([]ChoiceCount, 0, len(counts))
	for choice, count := range counts {
		ranked = append(ranked, ChoiceCount{Choice: choice, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count == ranked[j].Count {
			return ranked[i].Choice < ranked[j].Choice
		}
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > maxTopChoices {
		ranked = ranked[:maxTopChoices]
	}
	return ranked
}

// BuildCalendar counts, per day of monthStart's month, how many active
// questions have an answer.
func (service *StatsService) BuildCalendar(userID uuid.UUID, monthStart time.Time) (CalendarMonth, error) {
	questions, err := service.questions.ListActiveByUser(userID)
	if err != nil {
		return CalendarMonth{}, err
	}
	monthEnd := monthStart.AddDate(0, 1, 0)
	answers, err := service.answers.ListByUserRange(userID, &monthStart, &monthEnd)
	if err != nil {
		return CalendarMonth{}, err
	}

	active := make(map[uint]struct{}, len(questions))
	for _, question := range questions {
		active[question.TemplateID] = struct{}{}
	}
	answered := make(map[string]int)
	for _, answer := range answers {
		if _, ok := active[answer.TemplateID]; ok {
			answered[FormatDay(answer.Date)]++
		}
	}

	month := CalendarMonth{Month: monthStart.Format("2006-01"), Days: make([]CalendarDay, 0, 31)}
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		key := FormatDay(day)
		month.Days = append(month.Days, CalendarDay{Date: key, Answered: answered[key], Total: len(questions)})
	}
	return month, nil
}

func ParseMonth(raw string, today time.Time) (time.Time, error) {
	if raw == "" {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.ParseInLocation("2006-01", raw, time.UTC)
	if err != nil {
		return time.Time{}, ErrDayInvalid
	}
	return parsed, nil
}

func paletteOf(question models.UserQuestion) models.ChartPalette {
	palette := question.ColorPalette.Data()
	if palette == nil {
		return models.ChartPalette{}
	}
	return palette
}
