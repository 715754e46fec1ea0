package models

import (
	"time"
)

// Enrollment links a user to a content item in their development plan.
// The (user_id, content_id) pair is unique; a duplicate insert surfaces as
// a conflict so callers can report "already in your plan".
type Enrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index;uniqueIndex:idx_user_content" json:"user_id"`
	ContentID   uint       `gorm:"not null;index;uniqueIndex:idx_user_content" json:"content_id"`
	Content     Content    `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Status      string     `gorm:"size:50;not null;default:in_progress;index" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	Rating      *int       `json:"rating"` // 1..5, set on completion
	Comment     string     `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Enrollment model.
func (Enrollment) TableName() string {
	return "user_contents"
}

// IsCompleted reports whether the enrollment has been marked done.
func (e *Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted
}

// UserAction is a free-form personal development action owned by a user.
type UserAction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	CostCents   *int       `json:"cost_cents"`
	Status      string     `gorm:"size:50;not null;default:in_progress;index" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for UserAction model.
func (UserAction) TableName() string {
	return "user_actions"
}

// Enrollment and action status constants.
const (
	EnrollmentStatusInProgress = "in_progress"
	EnrollmentStatusCompleted  = "completed"
)
