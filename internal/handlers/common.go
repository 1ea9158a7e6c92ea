package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/selimerdal/taskhub-backend/internal/apperr"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/services"
)

var validate = validator.New()

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Code: code, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusBadRequest, apperr.CodeValidationError, message)
}

// serviceError maps a sentinel service error onto a stable machine code and
// HTTP status. Anything unrecognized is a 500 with no detail leaked.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeAuthenticationFailed, "Authentication failed")
	case errors.Is(err, services.ErrAccountDisabled):
		return respondError(c, fiber.StatusForbidden, apperr.CodeAccountDisabled, "Account is disabled")
	case errors.Is(err, services.ErrTokenNotFound):
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeTokenNotFound, "Refresh token is invalid")
	case errors.Is(err, services.ErrInvalidToken):
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Refresh token is invalid")
	case errors.Is(err, services.ErrPrincipalInactive):
		return respondError(c, fiber.StatusUnauthorized, apperr.CodePrincipalInactive, "Account is no longer active")
	case errors.Is(err, services.ErrInvalidCurrentPassword):
		return respondError(c, fiber.StatusBadRequest, apperr.CodeInvalidCurrentPassword, "Current password is incorrect")

	case errors.Is(err, services.ErrTaskNotFound):
		return respondError(c, fiber.StatusNotFound, apperr.CodeTaskNotFound, "Task not found")
	case errors.Is(err, services.ErrTaskAccessDenied):
		return respondError(c, fiber.StatusForbidden, apperr.CodeForbidden, "Not allowed to modify this task")
	case errors.Is(err, services.ErrTaskNotConfirmed):
		return respondError(c, fiber.StatusConflict, apperr.CodeTaskNotConfirmed, "Task has not been confirmed yet")

	case errors.Is(err, services.ErrReportNotFound):
		return respondError(c, fiber.StatusNotFound, apperr.CodeReportNotFound, "Report not found")
	case errors.Is(err, services.ErrNotReportOwner):
		return respondError(c, fiber.StatusForbidden, apperr.CodeForbidden, "Not allowed to access this report")
	case errors.Is(err, services.ErrTaskNotCompleted):
		return respondError(c, fiber.StatusConflict, apperr.CodeTaskNotCompleted, "Task is not completed")
	case errors.Is(err, services.ErrReportExists):
		return respondError(c, fiber.StatusConflict, apperr.CodeReportExists, "A report already exists for this task")
	case errors.Is(err, services.ErrAlreadySubmitted):
		return respondError(c, fiber.StatusConflict, apperr.CodeAlreadySubmitted, "Report has already been submitted")
	case errors.Is(err, services.ErrReportNotSubmitted):
		return respondError(c, fiber.StatusConflict, apperr.CodeReportNotSubmitted, "Report has not been submitted")
	case errors.Is(err, services.ErrAlreadyResolved):
		return respondError(c, fiber.StatusConflict, apperr.CodeAlreadyResolved, "Report has already been resolved")
	case errors.Is(err, services.ErrReportNotResolved):
		return respondError(c, fiber.StatusConflict, apperr.CodeReportNotResolved, "Report has not been resolved")

	case errors.Is(err, services.ErrNotificationNotFound):
		return respondError(c, fiber.StatusNotFound, apperr.CodeNotFound, "Notification not found")

	case errors.Is(err, services.ErrValidation):
		return respondError(c, fiber.StatusBadRequest, apperr.CodeValidationError, err.Error())
	}

	return respondError(c, fiber.StatusInternalServerError, apperr.CodeInternal, "Internal server error")
}
