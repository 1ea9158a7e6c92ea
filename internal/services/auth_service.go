package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials     = errors.New("authentication failed")
	ErrAccountDisabled        = errors.New("account is disabled")
	ErrTokenNotFound          = errors.New("refresh token not found")
	ErrInvalidToken           = errors.New("invalid or expired refresh token")
	ErrPrincipalInactive      = errors.New("account no longer active")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

// AuthService composes the credential stores, the token service and the
// refresh-token session ledger into login, rotation, logout and
// password-change flows.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Login authenticates one identifier/password pair against the admin store
// first, then the user store. The admin namespace wins on identifier
// collision: once a record is found there, the user store is never
// consulted, even on a wrong password or a disabled account. A user whose
// username or email collides with an admin's therefore cannot log in with
// that identifier at all.
func (s *AuthService) Login(identifier, password string) (*models.Principal, *TokenPair, error) {
	var admin models.Admin
	err := s.db.Where("username = ? OR email = ?", identifier, identifier).First(&admin).Error
	if err == nil {
		return s.finishLogin(admin.AsPrincipal(), admin.PasswordHash, password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("admin lookup failed: %w", err)
	}

	var user models.User
	err = s.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err == nil {
		return s.finishLogin(user.AsPrincipal(), user.PasswordHash, password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("user lookup failed: %w", err)
	}

	return nil, nil, ErrInvalidCredentials
}

func (s *AuthService) finishLogin(p models.Principal, hash, password string) (*models.Principal, *TokenPair, error) {
	if !p.IsActive {
		return nil, nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.issuePair(p)
	if err != nil {
		return nil, nil, err
	}
	return &p, pair, nil
}

// issuePair mints a fresh access/refresh pair and rotates the ledger:
// revoking all prior active rows for the identity and inserting the new one
// happen in a single transaction, so no window with zero or many active
// sessions is observable.
func (s *AuthService) issuePair(p models.Principal) (*TokenPair, error) {
	access, err := s.tokens.SignAccess(p)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.tokens.SignRefresh(p.ID, p.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	row := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    p.ID,
		UserType:  p.UserType,
		TokenHash: HashToken(refresh),
		ExpiresAt: time.Now().Add(s.tokens.RefreshExpiry()),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND user_type = ? AND is_revoked = ?", p.ID, p.UserType, false).
			Update("is_revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new pair. The token is single-use:
// the conditional revoke below is the only gate for "was this token still
// valid", so two concurrent calls with the same token succeed exactly once.
func (s *AuthService) Refresh(raw string) (*models.Principal, *TokenPair, error) {
	hash := HashToken(raw)

	result := s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ? AND expires_at > ?", hash, false, time.Now()).
		Update("is_revoked", true)
	if result.Error != nil {
		return nil, nil, fmt.Errorf("ledger update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Absent, revoked and expired all collapse to the same outcome.
		return nil, nil, ErrTokenNotFound
	}

	// Re-verify the signature independently of the ledger. The row is
	// already revoked above, so a structurally invalid token is never left
	// active.
	id, userType, err := s.tokens.VerifyRefresh(raw)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	p, err := s.findPrincipal(id, userType)
	if err != nil {
		return nil, nil, fmt.Errorf("principal lookup failed: %w", err)
	}
	if p == nil || !p.IsActive {
		return nil, nil, ErrPrincipalInactive
	}

	pair, err := s.issuePair(*p)
	if err != nil {
		return nil, nil, err
	}
	return p, pair, nil
}

// Logout revokes the presented token. A missing or already-revoked token is
// not an error.
func (s *AuthService) Logout(raw string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", HashToken(raw), false).
		Update("is_revoked", true).Error
}

// LogoutAll revokes every active token for an identity, forcing
// re-authentication everywhere.
func (s *AuthService) LogoutAll(id uuid.UUID, userType string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND user_type = ? AND is_revoked = ?", id, userType, false).
		Update("is_revoked", true).Error
}

// ChangePassword verifies the current password, persists the new hash and
// revokes all sessions. If revocation fails the password change still
// stands; the failure is logged as a partial-failure warning.
func (s *AuthService) ChangePassword(p models.Principal, current, newPassword string) error {
	var storedHash string
	switch p.UserType {
	case models.UserTypeAdmin:
		var admin models.Admin
		if err := s.db.First(&admin, "id = ?", p.ID).Error; err != nil {
			return fmt.Errorf("admin lookup failed: %w", err)
		}
		storedHash = admin.PasswordHash
	default:
		var user models.User
		if err := s.db.First(&user, "id = ?", p.ID).Error; err != nil {
			return fmt.Errorf("user lookup failed: %w", err)
		}
		storedHash = user.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(current)); err != nil {
		return ErrInvalidCurrentPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var updateErr error
	if p.UserType == models.UserTypeAdmin {
		updateErr = s.db.Model(&models.Admin{}).Where("id = ?", p.ID).
			Update("password_hash", string(hash)).Error
	} else {
		updateErr = s.db.Model(&models.User{}).Where("id = ?", p.ID).
			Update("password_hash", string(hash)).Error
	}
	if updateErr != nil {
		return fmt.Errorf("failed to update password: %w", updateErr)
	}

	if err := s.LogoutAll(p.ID, p.UserType); err != nil {
		slog.Warn("password changed but session revocation failed",
			"user_id", p.ID.String(), "user_type", p.UserType, "error", err)
	}
	return nil
}

// FindPrincipal re-fetches a principal by id and kind. Returns nil without
// error when no record exists.
func (s *AuthService) FindPrincipal(id uuid.UUID, userType string) (*models.Principal, error) {
	return s.findPrincipal(id, userType)
}

func (s *AuthService) findPrincipal(id uuid.UUID, userType string) (*models.Principal, error) {
	switch userType {
	case models.UserTypeAdmin:
		var admin models.Admin
		err := s.db.First(&admin, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		p := admin.AsPrincipal()
		return &p, nil
	case models.UserTypeUser:
		var user models.User
		err := s.db.First(&user, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		p := user.AsPrincipal()
		return &p, nil
	}
	return nil, nil
}

// StartTokenCleanup runs an hourly goroutine deleting expired and revoked
// ledger rows.
func (s *AuthService) StartTokenCleanup(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				result := s.db.Where("expires_at <= ? OR is_revoked = ?", time.Now(), true).
					Delete(&models.RefreshToken{})
				if result.Error != nil {
					slog.Error("refresh token cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("refresh token cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
