package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one row of the session ledger. Only a SHA-256 hash of the
// signed token is stored. At most one non-revoked, non-expired row exists per
// (user_id, user_type): issuing a new token revokes all prior ones first.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_refresh_identity" json:"user_id"`
	UserType  string    `gorm:"size:10;not null;index:idx_refresh_identity" json:"user_type"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
