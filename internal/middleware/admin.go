package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/selimerdal/taskhub-backend/internal/apperr"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"github.com/selimerdal/taskhub-backend/internal/principal"
	"gorm.io/gorm"
)

// AdminRequired gates a route to admin principals. The claim is not trusted
// alone: the admin row must still exist and be active, so a deactivated
// admin loses access as soon as their access token is next used.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: apperr.CodeInvalidToken, Message: "Unauthorized",
			})
		}

		if p.IsAdmin() {
			var admin models.Admin
			if err := db.First(&admin, "id = ?", p.ID).Error; err == nil && admin.IsActive {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Code: apperr.CodeForbidden, Message: "Admin access required",
		})
	}
}
