package models

import (
	"time"

	"github.com/google/uuid"
)

type Answer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_answer_user_template_date" json:"user_id"`
	TemplateID       uint      `gorm:"not null;uniqueIndex:uidx_answer_user_template_date" json:"template_id"`
	Date             time.Time `gorm:"type:date;not null;uniqueIndex:uidx_answer_user_template_date" json:"date"`
	BoolValue        *bool     `json:"bool_value,omitempty"`
	NumberValue      *float64  `json:"number_value,omitempty"`
	ScaleValue       *int      `json:"scale_value,omitempty"`
	TextValue        *string   `json:"text_value,omitempty"`
	PromptSnapshot   string    `gorm:"not null;default:''" json:"prompt_snapshot"`
	CategorySnapshot string    `gorm:"not null;default:''" json:"category_snapshot"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
