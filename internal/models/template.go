package models

import (
	"time"

	"gorm.io/datatypes"
)

// EvaluationTemplate (modelo) is a reusable, ordered composition of
// competencies and custom questions used to run evaluations.
type EvaluationTemplate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Competencies []TemplateCompetency `gorm:"foreignKey:TemplateID" json:"competencies,omitempty"`
	Questions    []CustomQuestion     `gorm:"foreignKey:TemplateID" json:"questions,omitempty"`
}

// TableName specifies the table name for EvaluationTemplate model.
func (EvaluationTemplate) TableName() string {
	return "evaluation_templates"
}

// TemplateCompetency orders a competency inside a template.
type TemplateCompetency struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TemplateID   uint       `gorm:"not null;index" json:"template_id"`
	CompetencyID uint       `gorm:"not null;index" json:"competency_id"`
	Competency   Competency `gorm:"foreignKey:CompetencyID" json:"competency,omitempty"`
	Position     int        `gorm:"not null;default:0" json:"position"`
}

// TableName specifies the table name for TemplateCompetency model.
func (TemplateCompetency) TableName() string {
	return "template_competencies"
}

// CustomQuestion is a template-defined question with per-language titles and
// descriptions. The pt-BR title is the canonical one and must be present
// before a template can be saved.
type CustomQuestion struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TemplateID uint           `gorm:"not null;index" json:"template_id"`
	Position   int            `gorm:"not null;default:0" json:"position"`
	Scope      string         `gorm:"size:50;not null;default:both" json:"scope"`
	Required   bool           `gorm:"default:false" json:"required"`
	Options    datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"` // multiple-choice options, if any

	TitlePT       string `gorm:"not null;size:500" json:"title_pt"`
	DescriptionPT string `gorm:"type:text" json:"description_pt"`
	TitleEN       string `gorm:"size:500" json:"title_en"`
	DescriptionEN string `gorm:"type:text" json:"description_en"`
	TitleES       string `gorm:"size:500" json:"title_es"`
	DescriptionES string `gorm:"type:text" json:"description_es"`
}

// TableName specifies the table name for CustomQuestion model.
func (CustomQuestion) TableName() string {
	return "custom_questions"
}

// Question scope constants.
const (
	QuestionScopeCollaborator = "collaborator"
	QuestionScopeManager      = "manager"
	QuestionScopeBoth         = "both"
)
