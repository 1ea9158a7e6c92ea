package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/apperr"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/principal"
	"github.com/selimerdal/taskhub-backend/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func queryUUID(c *fiber.Ctx, param string) (uuid.UUID, bool, error) {
	raw := c.Query(param)
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "title, assignee_id and due_date are required")
	}

	task, err := h.taskService.Create(p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	task, err := h.taskService.Get(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	opts := services.TaskListOptions{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 20),
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Overdue:   c.QueryBool("overdue"),
		DueToday:  c.QueryBool("today"),
		Upcoming:  c.QueryBool("upcoming"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if id, ok, err := queryUUID(c, "project_id"); err != nil {
		return badRequest(c, "Invalid project_id")
	} else if ok {
		opts.ProjectID = &id
	}
	if id, ok, err := queryUUID(c, "assignee_id"); err != nil {
		return badRequest(c, "Invalid assignee_id")
	} else if ok {
		opts.AssigneeID = &id
	}
	if id, ok, err := queryUUID(c, "creator_id"); err != nil {
		return badRequest(c, "Invalid creator_id")
	} else if ok {
		opts.CreatorID = &id
	}
	if id, ok, err := queryUUID(c, "watcher_id"); err != nil {
		return badRequest(c, "Invalid watcher_id")
	} else if ok {
		opts.WatcherID = &id
	}

	tasks, pagination, err := h.taskService.List(opts)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.TaskListResponse{Tasks: tasks, Pagination: pagination})
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskService.Update(id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "status is required")
	}

	task, err := h.taskService.UpdateStatus(id, req.Status, p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

// DeleteConfirmed is the assignee-side deletion of a confirmed task.
func (h *TaskHandler) DeleteConfirmed(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	if err := h.taskService.DeleteConfirmed(id, p.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Task deleted"})
}

// Delete is the admin hard delete.
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	if err := h.taskService.Delete(id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Task deleted"})
}
