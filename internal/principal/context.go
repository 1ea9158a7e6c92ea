// Package principal extracts the authenticated identity from JWT claims
// stored in the request context by the auth middleware.
package principal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/models"
)

var ErrNoPrincipal = errors.New("no authenticated principal in context")

// FromContext rebuilds the acting principal from access-token claims.
func FromContext(c *fiber.Ctx) (models.Principal, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return models.Principal{}, ErrNoPrincipal
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Principal{}, ErrNoPrincipal
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.Principal{}, ErrNoPrincipal
	}

	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	userType, _ := claims["user_type"].(string)
	if userType != models.UserTypeAdmin && userType != models.UserTypeUser {
		return models.Principal{}, ErrNoPrincipal
	}

	return models.Principal{
		ID:       id,
		Username: username,
		Email:    email,
		Role:     role,
		UserType: userType,
		IsActive: true,
	}, nil
}
