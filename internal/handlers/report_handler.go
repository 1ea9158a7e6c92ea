package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/apperr"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/principal"
	"github.com/selimerdal/taskhub-backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create opens a draft report for a completed task. Only the assignee may
// report.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "description is required")
	}

	report, err := h.reportService.Create(taskID, p.ID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetForTask returns the caller's own report on a task.
func (h *ReportHandler) GetForTask(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	report, err := h.reportService.GetForTask(taskID, p.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Update(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "description is required")
	}

	report, err := h.reportService.Update(id, p.ID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	report, err := h.reportService.Submit(id, p.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

// Resolve is the admin acceptance of a submitted report.
func (h *ReportHandler) Resolve(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	report, err := h.reportService.MarkResolved(id, p.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	if err := h.reportService.Delete(id, p); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Report deleted"})
}

// List is the admin review queue.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var resolved *bool
	if raw := c.Query("resolved"); raw != "" {
		v := c.QueryBool("resolved")
		resolved = &v
	}

	reports, pagination, err := h.reportService.List(
		c.Query("status"), resolved, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Pagination: pagination})
}
