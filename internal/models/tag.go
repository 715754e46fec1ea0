package models

import (
	"time"
)

// Tag represents a categorization label attached to contents and to
// finalized evaluations. Tags are the signal that drives recommendations.
type Tag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Tag model.
func (Tag) TableName() string {
	return "tags"
}

// MediaType classifies a content item (course, video, book, podcast...).
type MediaType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:100" json:"name"`
}

// TableName specifies the table name for MediaType model.
func (MediaType) TableName() string {
	return "media_types"
}

// Audience is a target group a content item is aimed at.
type Audience struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:100" json:"name"`
}

// TableName specifies the table name for Audience model.
func (Audience) TableName() string {
	return "audiences"
}
