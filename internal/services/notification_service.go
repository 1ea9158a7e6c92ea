package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService persists notification records. Creation is
// fire-and-forget: a failed insert never fails the task/report transition
// that triggered it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

type NotificationInput struct {
	UserID   uuid.UUID
	UserType string
	TaskID   *uuid.UUID
	ReportID *uuid.UUID
	Type     string
	Title    string
	Message  string
}

// Notify inserts one notification record. It returns nothing: failures are
// logged and discarded so callers cannot accidentally propagate them into
// their primary transaction outcome.
func (s *NotificationService) Notify(in NotificationInput) {
	n := models.Notification{
		ID:       uuid.New(),
		UserID:   in.UserID,
		UserType: in.UserType,
		TaskID:   in.TaskID,
		ReportID: in.ReportID,
		Type:     in.Type,
		Title:    in.Title,
		Message:  in.Message,
	}
	if err := s.db.Create(&n).Error; err != nil {
		slog.Error("notification create failed",
			"type", in.Type, "user_id", in.UserID.String(), "error", err)
	}
}

// List returns one page of a recipient's notifications, newest first.
func (s *NotificationService) List(userID uuid.UUID, userType string, page, limit int, unreadOnly bool) ([]models.Notification, *dto.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND user_type = ?", userID, userType)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("notification count failed: %w", err)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&notifications).Error; err != nil {
		return nil, nil, fmt.Errorf("notification list failed: %w", err)
	}

	return notifications, dto.NewPagination(page, limit, total), nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID, userType string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND user_type = ? AND is_read = ?", userID, userType, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips is_read on one of the recipient's own notifications.
func (s *NotificationService) MarkRead(id, userID uuid.UUID, userType string) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND user_type = ?", id, userID, userType).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID, userType string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND user_type = ? AND is_read = ?", userID, userType, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (s *NotificationService) Delete(id, userID uuid.UUID, userType string) error {
	result := s.db.Where("id = ? AND user_id = ? AND user_type = ?", id, userID, userType).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// StartCleanup runs a daily goroutine deleting notifications older than the
// retention window. Notifications are ephemeral; nothing references them.
func (s *NotificationService) StartCleanup(retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retentionDays)
				result := s.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
				if result.Error != nil {
					slog.Error("notification cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("notification cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
