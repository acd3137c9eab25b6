package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/bujo/internal/models"
)

const maxTextAnswerLength = 2000

var ErrAnswerValueInvalid = errors.New("invalid answer value")

// QuestionDefinition is the effective shape of a question: the answer
// type's kind with the template's meta and steps layered on top.
type QuestionDefinition struct {
	Kind    string             `json:"type"`
	Items   []string           `json:"items"`
	Meta    models.NumericMeta `json:"meta"`
	Display string             `json:"display"`
}

func DefinitionFor(template models.QuestionTemplate) QuestionDefinition {
	definition := QuestionDefinition{Items: []string{}}
	if template.AnswerType == nil {
		return definition
	}
	answerType := *template.AnswerType
	definition.Kind = answerType.Kind
	definition.Display = answerType.DefaultDisplay
	if items := answerType.Items.Data(); items != nil {
		definition.Items = items
	}
	definition.Meta = mergeNumericMeta(answerType.Meta.Data(), template.Meta.Data().NumericMeta)
	if definition.Kind == models.AnswerKindScale {
		definition.Meta = withScaleDefaults(definition.Meta)
	}
	if steps := template.Meta.Data().Steps; len(steps) > 0 && IsChoiceKind(definition.Kind) {
		definition.Items = steps
	}
	return definition
}

// DefinitionForQuestion applies the user's display override.
func DefinitionForQuestion(question models.UserQuestion) QuestionDefinition {
	if question.Template == nil {
		return QuestionDefinition{Items: []string{}}
	}
	definition := DefinitionFor(*question.Template)
	if question.DisplayOverride != "" {
		definition.Display = question.DisplayOverride
	}
	return definition
}

func mergeNumericMeta(base models.NumericMeta, override models.NumericMeta) models.NumericMeta {
	merged := base
	if override.Min != nil {
		merged.Min = override.Min
	}
	if override.Max != nil {
		merged.Max = override.Max
	}
	if override.Step != nil {
		merged.Step = override.Step
	}
	if override.Unit != "" {
		merged.Unit = override.Unit
	}
	return merged
}

// ValidateTemplateMeta checks a template's overrides against its answer type.
func ValidateTemplateMeta(answerType models.AnswerType, meta models.TemplateMeta) (models.TemplateMeta, error) {
	hasNumeric := meta.Min != nil || meta.Max != nil || meta.Step != nil || meta.Unit != ""
	switch answerType.Kind {
	case models.AnswerKindNumber, models.AnswerKindScale:
		if len(meta.Steps) > 0 {
			return models.TemplateMeta{}, ErrTemplateMetaInvalid
		}
		merged := mergeNumericMeta(answerType.Meta.Data(), meta.NumericMeta)
		if err := ValidateNumericMeta(merged); err != nil {
			return models.TemplateMeta{}, ErrTemplateMetaInvalid
		}
		return meta, nil
	case models.AnswerKindSingleChoice, models.AnswerKindMultiChoice:
		if hasNumeric {
			return models.TemplateMeta{}, ErrTemplateMetaInvalid
		}
		if len(meta.Steps) == 0 {
			return models.TemplateMeta{}, nil
		}
		steps, err := NormalizeChoiceItems(meta.Steps)
		if err != nil {
			return models.TemplateMeta{}, ErrTemplateMetaInvalid
		}
		return models.TemplateMeta{Steps: steps}, nil
	default:
		if hasNumeric || len(meta.Steps) > 0 {
			return models.TemplateMeta{}, ErrTemplateMetaInvalid
		}
		return models.TemplateMeta{}, nil
	}
}

// ApplyAnswerValue validates raw against definition and stores it on answer.
// It reports false when the value clears the answer (null, blank text or an
// empty selection).
func ApplyAnswerValue(answer *models.Answer, definition QuestionDefinition, raw json.RawMessage) (bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}

	answer.BoolValue = nil
	answer.NumberValue = nil
	answer.ScaleValue = nil
	answer.TextValue = nil

	switch definition.Kind {
	case models.AnswerKindBoolean:
		var value bool
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return false, fmt.Errorf("%w: expected true or false", ErrAnswerValueInvalid)
		}
		answer.BoolValue = &value
	case models.AnswerKindNumber:
		var value float64
		if err := json.Unmarshal(trimmed, &value); err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return false, fmt.Errorf("%w: expected a number", ErrAnswerValueInvalid)
		}
		if err := checkBounds(value, definition.Meta); err != nil {
			return false, err
		}
		answer.NumberValue = &value
	case models.AnswerKindScale:
		var value float64
		if err := json.Unmarshal(trimmed, &value); err != nil || value != math.Trunc(value) {
			return false, fmt.Errorf("%w: expected a whole number", ErrAnswerValueInvalid)
		}
		if err := checkBounds(value, definition.Meta); err != nil {
			return false, err
		}
		if step := definition.Meta.Step; step != nil && definition.Meta.Min != nil {
			offset := (value - *definition.Meta.Min) / *step
			if math.Abs(offset-math.Round(offset)) > 1e-9 {
				return false, fmt.Errorf("%w: value is off the scale step", ErrAnswerValueInvalid)
			}
		}
		scaled := int(value)
		answer.ScaleValue = &scaled
	case models.AnswerKindText:
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return false, fmt.Errorf("%w: expected text", ErrAnswerValueInvalid)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return false, nil
		}
		if utf8.RuneCountInString(value) > maxTextAnswerLength {
			return false, fmt.Errorf("%w: text too long", ErrAnswerValueInvalid)
		}
		answer.TextValue = &value
	case models.AnswerKindSingleChoice:
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return false, fmt.Errorf("%w: expected one choice", ErrAnswerValueInvalid)
		}
		choice, ok := matchChoice(definition.Items, value)
		if !ok {
			return false, fmt.Errorf("%w: %q is not a choice", ErrAnswerValueInvalid, value)
		}
		answer.TextValue = &choice
	case models.AnswerKindMultiChoice:
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return false, fmt.Errorf("%w: expected a list of choices", ErrAnswerValueInvalid)
		}
		if len(values) == 0 {
			return false, nil
		}
		selected := make([]string, 0, len(values))
		seen := make(map[string]struct{}, len(values))
		for _, value := range values {
			choice, ok := matchChoice(definition.Items, value)
			if !ok {
				return false, fmt.Errorf("%w: %q is not a choice", ErrAnswerValueInvalid, value)
			}
			if _, duplicate := seen[choice]; duplicate {
				continue
			}
			seen[choice] = struct{}{}
			selected = append(selected, choice)
		}
		encoded, err := json.Marshal(selected)
		if err != nil {
			return false, err
		}
		text := string(encoded)
		answer.TextValue = &text
	default:
		return false, fmt.Errorf("%w: unknown answer type %q", ErrAnswerValueInvalid, definition.Kind)
	}
	return true, nil
}

func checkBounds(value float64, meta models.NumericMeta) error {
	if meta.Min != nil && value < *meta.Min {
		return fmt.Errorf("%w: below minimum %g", ErrAnswerValueInvalid, *meta.Min)
	}
	if meta.Max != nil && value > *meta.Max {
		return fmt.Errorf("%w: above maximum %g", ErrAnswerValueInvalid, *meta.Max)
	}
	return nil
}

func matchChoice(items []string, raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	for _, item := range items {
		if item == value {
			return item, true
		}
	}
	return "", false
}

// AnswerValue returns the stored value in its API shape.
func AnswerValue(answer models.Answer, kind string) any {
	switch kind {
	case models.AnswerKindBoolean:
		if answer.BoolValue != nil {
			return *answer.BoolValue
		}
	case models.AnswerKindNumber:
		if answer.NumberValue != nil {
			return *answer.NumberValue
		}
	case models.AnswerKindScale:
		if answer.ScaleValue != nil {
			return *answer.ScaleValue
		}
	case models.AnswerKindMultiChoice:
		return AnswerChoices(answer, kind)
	default:
		if answer.TextValue != nil {
			return *answer.TextValue
		}
	}
	return nil
}

// AnswerChoices decodes the selections of a choice answer. Only multi
// choice answers are stored as a JSON list.
func AnswerChoices(answer models.Answer, kind string) []string {
	if answer.TextValue == nil {
		return nil
	}
	if kind == models.AnswerKindMultiChoice {
		var values []string
		if err := json.Unmarshal([]byte(*answer.TextValue), &values); err == nil {
			return values
		}
	}
	return []string{*answer.TextValue}
}

// FormatAnswerValue renders a stored value of the given kind as plain text
// for exports.
func FormatAnswerValue(answer models.Answer, kind string) string {
	switch {
	case answer.BoolValue != nil:
		if *answer.BoolValue {
			return "Yes"
		}
		return "No"
	case answer.NumberValue != nil:
		return fmt.Sprintf("%g", *answer.NumberValue)
	case answer.ScaleValue != nil:
		return fmt.Sprintf("%d", *answer.ScaleValue)
	case answer.TextValue != nil:
		if kind == models.AnswerKindMultiChoice {
			return strings.Join(AnswerChoices(answer, kind), "; ")
		}
		return *answer.TextValue
	default:
		return ""
	}
}
