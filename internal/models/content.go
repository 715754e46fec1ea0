package models

import (
	"time"
)

// Content represents a learning content item that can be recommended and
// enrolled into a user's development plan.
type Content struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null;size:255" json:"title"`
	ShortDescription string     `gorm:"size:500" json:"short_description"`
	Description      string     `gorm:"type:text" json:"description"`
	CoverImageURL    string     `gorm:"type:text" json:"cover_image_url"`
	MediaTypeID      *uint      `gorm:"index" json:"media_type_id"`
	MediaType        *MediaType `gorm:"foreignKey:MediaTypeID" json:"media_type,omitempty"`
	ExternalLink     string     `gorm:"type:text" json:"external_link"`
	DurationMinutes  *int       `json:"duration_minutes"`
	CostCents        *int       `json:"cost_cents"`
	Active           bool       `gorm:"default:true;index" json:"active"`
	AvgRating        float64    `gorm:"type:decimal(3,2);default:0" json:"avg_rating"`
	RatingCount      int        `gorm:"default:0" json:"rating_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relationships
	Tags         []Tag        `gorm:"many2many:content_tags" json:"tags,omitempty"`
	Competencies []Competency `gorm:"many2many:content_competencies" json:"competencies,omitempty"`
	Audiences    []Audience   `gorm:"many2many:content_audiences" json:"audiences,omitempty"`
}

// TableName specifies the table name for Content model.
func (Content) TableName() string {
	return "contents"
}
