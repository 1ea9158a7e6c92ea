package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/apperr"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/principal"
	"github.com/selimerdal/taskhub-backend/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	notifications, pagination, err := h.notificationService.List(
		p.ID, p.UserType, c.QueryInt("page", 1), c.QueryInt("limit", 20), c.QueryBool("unread"))
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, apperr.CodeInternal, "Internal server error")
	}
	return c.JSON(dto.NotificationListResponse{Notifications: notifications, Pagination: pagination})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	count, err := h.notificationService.UnreadCount(p.ID, p.UserType)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, apperr.CodeInternal, "Internal server error")
	}
	return c.JSON(dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.notificationService.MarkRead(id, p.ID, p.UserType); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	if _, err := h.notificationService.MarkAllRead(p.ID, p.UserType); err != nil {
		return respondError(c, fiber.StatusInternalServerError, apperr.CodeInternal, "Internal server error")
	}
	return c.JSON(dto.MessageResponse{Message: "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.notificationService.Delete(id, p.ID, p.UserType); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification deleted"})
}
