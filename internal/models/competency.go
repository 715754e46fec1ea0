package models

import (
	"time"
)

// Competency is a named evaluation dimension composed of weighted criteria.
type Competency struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Criteria    []Criterion `gorm:"foreignKey:CompetencyID" json:"criteria,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Competency model.
func (Competency) TableName() string {
	return "competencies"
}

// Criterion is a scored sub-item of a competency.
type Criterion struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CompetencyID uint   `gorm:"not null;index" json:"competency_id"`
	Name         string `gorm:"not null;size:255" json:"name"`
	Weight       int    `gorm:"default:1" json:"weight"`
}

// TableName specifies the table name for Criterion model.
func (Criterion) TableName() string {
	return "criteria"
}
