package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/config"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database shared by a single connection so
// concurrent callers serialize instead of hitting sqlite write locks.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.RefreshToken{},
		&models.Project{},
		&models.Task{},
		&models.TaskFile{},
		&models.TaskReport{},
		&models.Notification{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testTokenService() *TokenService {
	return NewTokenService(&config.Config{
		JWTSecret:        "test-secret",
		JWTRefreshSecret: "test-refresh-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password string, active bool) models.Admin {
	t.Helper()
	admin := models.Admin{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@admin.example.com",
		PasswordHash: mustHash(t, password),
		Role:         "admin",
		IsActive:     active,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, active bool) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: mustHash(t, password),
		Role:         "user",
		IsActive:     active,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// activeTokenCount counts non-revoked, non-expired ledger rows for one
// identity.
func activeTokenCount(t *testing.T, db *gorm.DB, id uuid.UUID, userType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND user_type = ? AND is_revoked = ? AND expires_at > ?",
			id, userType, false, time.Now()).
		Count(&count).Error)
	return count
}
