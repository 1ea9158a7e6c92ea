package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusNotStarted = "not_started"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

var TaskStatuses = map[string]bool{
	TaskStatusNotStarted: true,
	TaskStatusInProgress: true,
	TaskStatusCompleted:  true,
	TaskStatusCancelled:  true,
}

var TaskPriorities = map[string]bool{
	TaskPriorityLow:    true,
	TaskPriorityMedium: true,
	TaskPriorityHigh:   true,
	TaskPriorityUrgent: true,
}

// PriorityRank orders priorities for sorting (urgent > high > medium > low).
var PriorityRank = map[string]int{
	TaskPriorityUrgent: 4,
	TaskPriorityHigh:   3,
	TaskPriorityMedium: 2,
	TaskPriorityLow:    1,
}

// Project groups tasks. Deleting a project detaches its tasks.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is the central domain record. Status is a free four-value field gated
// by authorization only; is_confirmed flips exclusively through report
// resolution and only while status is completed.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	AssigneeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"assignee_id"`
	WatcherID   *uuid.UUID `gorm:"type:uuid;index" json:"watcher_id,omitempty"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Project     *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
	StartDate   time.Time  `json:"start_date"`
	DueDate     time.Time  `gorm:"not null;index" json:"due_date"`
	Priority    string     `gorm:"size:20;default:'medium'" json:"priority"`
	Status      string     `gorm:"size:20;default:'not_started';index" json:"status"`
	IsConfirmed bool       `gorm:"default:false" json:"is_confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy *uuid.UUID `gorm:"type:uuid" json:"confirmed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Files       []TaskFile `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

// TaskFile is an attachment record. The upload middleware has already
// validated the file; only the metadata tuple is stored here.
type TaskFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	FilePath  string    `gorm:"size:500;not null" json:"file_path"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `gorm:"size:100" json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}
