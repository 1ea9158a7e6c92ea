package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := seedUser(t, db, "dana", "P@ssword1", true)

	for i := 0; i < 5; i++ {
		svc.Notify(NotificationInput{
			UserID:   user.ID,
			UserType: models.UserTypeUser,
			Type:     models.NotificationTaskUpdated,
			Title:    "Task updated",
			Message:  "Something changed.",
		})
	}

	notifications, pagination, err := svc.List(user.ID, models.UserTypeUser, 1, 3, false)
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.EqualValues(t, 5, pagination.TotalItems)
	assert.True(t, pagination.HasNextPage)
	assert.False(t, notifications[0].IsRead)

	notifications, pagination, err = svc.List(user.ID, models.UserTypeUser, 2, 3, false)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.False(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}

func TestListScopedByIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)

	// The same UUID in the other namespace must see nothing.
	svc.Notify(NotificationInput{
		UserID:   admin.ID,
		UserType: models.UserTypeAdmin,
		Type:     models.NotificationReportSubmitted,
		Title:    "Report submitted",
		Message:  "Review pending.",
	})

	notifications, _, err := svc.List(admin.ID, models.UserTypeAdmin, 1, 20, false)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	notifications, _, err = svc.List(admin.ID, models.UserTypeUser, 1, 20, false)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestUnreadFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := seedUser(t, db, "dana", "P@ssword1", true)

	var first uuid.UUID
	for i := 0; i < 3; i++ {
		svc.Notify(NotificationInput{
			UserID:   user.ID,
			UserType: models.UserTypeUser,
			Type:     models.NotificationTaskAssigned,
			Title:    "New task",
			Message:  "You have been assigned a task.",
		})
	}
	var stored models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
	first = stored.ID

	count, err := svc.UnreadCount(user.ID, models.UserTypeUser)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, svc.MarkRead(first, user.ID, models.UserTypeUser))
	count, err = svc.UnreadCount(user.ID, models.UserTypeUser)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	unread, _, err := svc.List(user.ID, models.UserTypeUser, 1, 20, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	affected, err := svc.MarkAllRead(user.ID, models.UserTypeUser)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	count, err = svc.UnreadCount(user.ID, models.UserTypeUser)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkReadRejectsForeignNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	owner := seedUser(t, db, "dana", "P@ssword1", true)
	other := seedUser(t, db, "eren", "P@ssword1", true)

	svc.Notify(NotificationInput{
		UserID:   owner.ID,
		UserType: models.UserTypeUser,
		Type:     models.NotificationTaskAssigned,
		Title:    "New task",
		Message:  "You have been assigned a task.",
	})
	var stored models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).First(&stored).Error)

	assert.ErrorIs(t, svc.MarkRead(stored.ID, other.ID, models.UserTypeUser), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkRead(uuid.New(), owner.ID, models.UserTypeUser), ErrNotificationNotFound)
	require.NoError(t, svc.MarkRead(stored.ID, owner.ID, models.UserTypeUser))
}

func TestDeleteNotificationScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	owner := seedUser(t, db, "dana", "P@ssword1", true)
	other := seedUser(t, db, "eren", "P@ssword1", true)

	svc.Notify(NotificationInput{
		UserID:   owner.ID,
		UserType: models.UserTypeUser,
		Type:     models.NotificationTaskWatching,
		Title:    "Watching",
		Message:  "You are watching a task.",
	})
	var stored models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).First(&stored).Error)

	assert.ErrorIs(t, svc.Delete(stored.ID, other.ID, models.UserTypeUser), ErrNotificationNotFound)
	require.NoError(t, svc.Delete(stored.ID, owner.ID, models.UserTypeUser))
	assert.ErrorIs(t, svc.Delete(stored.ID, owner.ID, models.UserTypeUser), ErrNotificationNotFound)
}
