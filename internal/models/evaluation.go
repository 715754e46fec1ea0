package models

import (
	"time"
)

// Evaluation is an assessment of one collaborator by one reviewer against
// one template.
type Evaluation struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	CollaboratorID uint                `gorm:"not null;index" json:"collaborator_id"`
	ReviewerID     uint                `gorm:"not null;index" json:"reviewer_id"`
	TemplateID     uint                `gorm:"not null;index" json:"template_id"`
	Template       *EvaluationTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Status         string              `gorm:"size:50;not null;default:draft;index" json:"status"`
	Date           *time.Time          `json:"date"`
	Strengths      string              `gorm:"type:text" json:"strengths"`
	Improvements   string              `gorm:"type:text" json:"improvements"`
	Notes          string              `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Relationships
	Scores  []EvaluationScore  `gorm:"foreignKey:EvaluationID" json:"scores,omitempty"`
	Answers []EvaluationAnswer `gorm:"foreignKey:EvaluationID" json:"answers,omitempty"`
	Tags    []Tag              `gorm:"many2many:evaluation_tags" json:"tags,omitempty"`
}

// TableName specifies the table name for Evaluation model.
func (Evaluation) TableName() string {
	return "evaluations"
}

// IsFinalized reports whether the evaluation has reached its terminal state.
func (e *Evaluation) IsFinalized() bool {
	return e.Status == EvaluationStatusFinalized
}

// EvaluationScore is one criterion score inside an evaluation. Score 0 means
// the criterion was left unscored and is excluded from averages.
type EvaluationScore struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	EvaluationID uint   `gorm:"not null;index" json:"evaluation_id"`
	CompetencyID uint   `gorm:"not null;index" json:"competency_id"`
	CriterionID  uint   `gorm:"not null;index" json:"criterion_id"`
	Score        int    `gorm:"not null;default:0" json:"score"` // 0..5
	Note         string `gorm:"type:text" json:"note"`
}

// TableName specifies the table name for EvaluationScore model.
func (EvaluationScore) TableName() string {
	return "evaluation_scores"
}

// EvaluationAnswer stores the answer to a template-defined custom question.
type EvaluationAnswer struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	EvaluationID uint   `gorm:"not null;index" json:"evaluation_id"`
	QuestionID   uint   `gorm:"not null;index" json:"question_id"`
	Answer       string `gorm:"type:text" json:"answer"`
}

// TableName specifies the table name for EvaluationAnswer model.
func (EvaluationAnswer) TableName() string {
	return "evaluation_answers"
}

// Evaluation status constants.
const (
	EvaluationStatusDraft      = "draft"
	EvaluationStatusPending    = "pending"
	EvaluationStatusInProgress = "in_progress"
	EvaluationStatusCompleted  = "completed"
	EvaluationStatusFinalized  = "finalized"
)
