package dto

import "github.com/selimerdal/taskhub-backend/internal/models"

type CreateReportRequest struct {
	Description string           `json:"description" validate:"required"`
	File        *TaskFileRequest `json:"file"`
}

type UpdateReportRequest struct {
	Description string           `json:"description" validate:"required"`
	File        *TaskFileRequest `json:"file"`
}

type ReportListResponse struct {
	Reports    []models.TaskReport `json:"reports"`
	Pagination *Pagination         `json:"pagination"`
}
