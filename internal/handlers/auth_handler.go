package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/selimerdal/taskhub-backend/internal/apperr"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/principal"
	"github.com/selimerdal/taskhub-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "identifier and password are required")
	}

	p, pair, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Principal:    *p,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "refresh_token is required")
	}

	p, pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Principal:    *p,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "refresh_token is required")
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		return respondError(c, fiber.StatusInternalServerError, apperr.CodeInternal, "Failed to logout")
	}

	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "current_password and new_password (min 8 chars) are required")
	}

	if err := h.authService.ChangePassword(p, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Password changed; all sessions have been revoked"})
}

// Me returns the current principal, re-fetched so deactivation and profile
// changes are visible immediately.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, apperr.CodeInvalidToken, "Unauthorized")
	}

	p, err := h.authService.FindPrincipal(claims.ID, claims.UserType)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, apperr.CodeInternal, "Internal server error")
	}
	if p == nil {
		return respondError(c, fiber.StatusNotFound, apperr.CodeNotFound, "Account not found")
	}

	return c.JSON(p)
}
