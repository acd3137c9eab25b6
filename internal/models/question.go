package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AnswerKindBoolean      = "boolean"
	AnswerKindNumber       = "number"
	AnswerKindScale        = "scale"
	AnswerKindText         = "text"
	AnswerKindSingleChoice = "single_choice"
	AnswerKindMultiChoice  = "multi_choice"
)

const (
	DisplayLine     = "line"
	DisplayBar      = "bar"
	DisplayCalendar = "calendar"
	DisplayHeatmap  = "heatmap"
	DisplayList     = "list"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"not null;default:''" json:"color"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NumericMeta bounds number and scale answers. Nil fields are unbounded.
type NumericMeta struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

type AnswerType struct {
	ID              uint                            `gorm:"primaryKey" json:"id"`
	Name            string                          `gorm:"not null" json:"name"`
	Kind            string                          `gorm:"column:type;not null" json:"type"`
	Items           datatypes.JSONType[[]string]    `json:"items"`
	Meta            datatypes.JSONType[NumericMeta] `json:"meta"`
	DefaultDisplay  string                          `gorm:"not null;default:list" json:"default_display"`
	AllowedDisplays datatypes.JSONType[[]string]    `json:"allowed_displays"`
	CreatedAt       time.Time                       `json:"created_at"`
	UpdatedAt       time.Time                       `json:"updated_at"`
}

// TemplateMeta overrides the answer type's numeric meta and choice items.
type TemplateMeta struct {
	NumericMeta
	Steps []string `json:"steps,omitempty"`
}

type QuestionTemplate struct {
	ID           uint                             `gorm:"primaryKey" json:"id"`
	Title        string                           `gorm:"not null" json:"title"`
	CategoryID   *uint                            `gorm:"index" json:"category_id"`
	AnswerTypeID uint                             `gorm:"not null;index" json:"answer_type_id"`
	Meta         datatypes.JSONType[TemplateMeta] `json:"meta"`
	OwnerID      *uuid.UUID                       `gorm:"type:uuid;index" json:"owner_id"`
	Category     *Category                        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AnswerType   *AnswerType                      `gorm:"foreignKey:AnswerTypeID" json:"answer_type,omitempty"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

func (template QuestionTemplate) IsGlobal() bool {
	return template.OwnerID == nil
}

type UserQuestion struct {
	ID              uint                             `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex:uidx_user_template" json:"user_id"`
	TemplateID      uint                             `gorm:"not null;uniqueIndex:uidx_user_template" json:"template_id"`
	CustomLabel     string                           `gorm:"not null;default:''" json:"custom_label"`
	SortOrder       int                              `gorm:"not null;default:0" json:"sort_order"`
	Active          bool                             `gorm:"not null;default:true" json:"active"`
	DisplayOverride string                           `gorm:"not null;default:''" json:"display_override"`
	ColorPalette    datatypes.JSONType[ChartPalette] `json:"color_palette"`
	Template        *QuestionTemplate                `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	CreatedAt       time.Time                        `json:"created_at"`
	UpdatedAt       time.Time                        `json:"updated_at"`
}

// Prompt is the label shown for the question on the user's daily page.
func (question UserQuestion) Prompt() string {
	if question.CustomLabel != "" {
		return question.CustomLabel
	}
	if question.Template != nil {
		return question.Template.Title
	}
	return ""
}
