package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
)

// TaskReport is the assignee's completion report for a task. Exactly one
// report exists per (task_id, user_id). Status moves one way, draft to
// submitted; is_resolved is an admin-only flag set after submission.
type TaskReport struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_report_task_user" json:"task_id"`
	Task        *Task      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_report_task_user" json:"user_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	FileURL     *string    `gorm:"size:500" json:"file_url,omitempty"`
	Status      string     `gorm:"size:20;default:'draft'" json:"status"`
	IsResolved  bool       `gorm:"default:false" json:"is_resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
