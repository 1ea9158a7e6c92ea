package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/config"
	"github.com/selimerdal/taskhub-backend/internal/models"
)

// TokenService signs and verifies JWTs. It is a pure function of the
// secrets, the claims and the configured TTLs; persistence lives in the
// session ledger, not here. Access and refresh tokens use separate secrets:
// the bearer middleware only knows the access secret, so a refresh token can
// never authenticate a request even while its ledger row is active.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessExpiry:  cfg.JWTAccessExpiry,
		refreshExpiry: cfg.JWTRefreshExpiry,
	}
}

func (t *TokenService) RefreshExpiry() time.Duration {
	return t.refreshExpiry
}

// SignAccess mints a short-lived access token carrying display claims.
func (t *TokenService) SignAccess(p models.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       p.ID.String(),
		"username":  p.Username,
		"email":     p.Email,
		"role":      p.Role,
		"user_type": p.UserType,
		"iat":       now.Unix(),
		"exp":       now.Add(t.accessExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.accessSecret)
}

// SignRefresh mints a refresh token with a minimal claim surface: identity
// only, no display data.
func (t *TokenService) SignRefresh(id uuid.UUID, userType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       id.String(),
		"user_type": userType,
		"iat":       now.Unix(),
		"exp":       now.Add(t.refreshExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.refreshSecret)
}

// VerifyRefresh checks signature and expiry and returns the embedded
// identity. Ledger state is checked separately by the caller.
func (t *TokenService) VerifyRefresh(raw string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", errors.New("invalid refresh token claims")
	}
	sub, _ := claims["sub"].(string)
	userType, _ := claims["user_type"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid subject claim")
	}
	if userType != models.UserTypeAdmin && userType != models.UserTypeUser {
		return uuid.Nil, "", errors.New("invalid user_type claim")
	}
	return id, userType, nil
}

// HashToken returns the SHA-256 hex digest stored in the session ledger in
// place of the raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
