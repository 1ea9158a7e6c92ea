package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/models"
)

// TaskFileRequest is the already-validated upload tuple handed down by the
// upload middleware.
type TaskFileRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FilePath string `json:"file_path" validate:"required"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}

type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Description string            `json:"description"`
	AssigneeID  uuid.UUID         `json:"assignee_id" validate:"required"`
	WatcherID   *uuid.UUID        `json:"watcher_id"`
	ProjectID   *uuid.UUID        `json:"project_id"`
	StartDate   time.Time         `json:"start_date"`
	DueDate     time.Time         `json:"due_date" validate:"required"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	Files       []TaskFileRequest `json:"files" validate:"dive"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	WatcherID   *uuid.UUID `json:"watcher_id"`
	ProjectID   *uuid.UUID `json:"project_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TaskListResponse struct {
	Tasks      []models.Task `json:"tasks"`
	Pagination *Pagination   `json:"pagination"`
}
