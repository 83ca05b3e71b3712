package model

import (
	"github.com/google/uuid"
)

// Template option type constants
const (
	OptionTypeText    = "text"
	OptionTypeNumber  = "number"
	OptionTypeBoolean = "boolean"
	OptionTypeSelect  = "select"
)

// Template is a read-only catalog entry describing a plan generation
// pattern. PromptTemplate uses {placeholders} substituted from the
// account's business profile and the plan fields.
type Template struct {
	Base
	Name           string            `json:"name" db:"name"`
	Description    string            `json:"description" db:"description"`
	PromptTemplate string            `json:"-" db:"prompt_template"`
	IsActive       bool              `json:"-" db:"is_active"`
	Options        []*TemplateOption `json:"options" db:"-"`
}

// TemplateOption is a configurable input owned by exactly one template.
type TemplateOption struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TemplateID   uuid.UUID `json:"-" db:"template_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	IsRequired   bool      `json:"is_required" db:"is_required"`
	OptionType   string    `json:"option_type" db:"option_type"`
	DefaultValue JSONValue `json:"default_value" db:"default_value"`
}
