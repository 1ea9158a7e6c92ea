package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"github.com/selimerdal/taskhub-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaskService(t *testing.T) (*TaskService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notifier := NewNotificationService(db)
	return NewTaskService(db, notifier, storage.NewLocalStore(t.TempDir())), db
}

func notificationCount(t *testing.T, db *gorm.DB, userID uuid.UUID, kind string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, kind).Count(&count).Error)
	return count
}

func seedTask(t *testing.T, db *gorm.DB, task models.Task) models.Task {
	t.Helper()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusNotStarted
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func TestCreateTaskValidation(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	user := seedUser(t, db, "dana", "P@ssword1", true)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)

	cases := []struct {
		name string
		req  dto.CreateTaskRequest
	}{
		{"missing title", dto.CreateTaskRequest{AssigneeID: user.ID, DueDate: tomorrow}},
		{"missing assignee", dto.CreateTaskRequest{Title: "t", DueDate: tomorrow}},
		{"missing due date", dto.CreateTaskRequest{Title: "t", AssigneeID: user.ID}},
		{"past due date", dto.CreateTaskRequest{Title: "t", AssigneeID: user.ID, DueDate: time.Now().UTC().Add(-48 * time.Hour)}},
		{"start after due", dto.CreateTaskRequest{Title: "t", AssigneeID: user.ID, DueDate: tomorrow, StartDate: tomorrow.Add(time.Hour)}},
		{"bad priority", dto.CreateTaskRequest{Title: "t", AssigneeID: user.ID, DueDate: tomorrow, Priority: "asap"}},
		{"bad status", dto.CreateTaskRequest{Title: "t", AssigneeID: user.ID, DueDate: tomorrow, Status: "paused"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(admin.AsPrincipal(), &tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateTaskNotifiesAssigneeAndWatcher(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)
	watcher := seedUser(t, db, "eren", "P@ssword1", true)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)

	task, err := svc.Create(admin.AsPrincipal(), &dto.CreateTaskRequest{
		Title:      "Ship release",
		AssigneeID: assignee.ID,
		WatcherID:  &watcher.ID,
		DueDate:    tomorrow,
		Files: []dto.TaskFileRequest{
			{FileName: "brief.pdf", FilePath: "tasks/brief.pdf", FileSize: 1024, FileType: "application/pdf"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, task.CreatorID)
	assert.Equal(t, models.TaskStatusNotStarted, task.Status)
	assert.Len(t, task.Files, 1)

	assert.EqualValues(t, 1, notificationCount(t, db, assignee.ID, models.NotificationTaskAssigned))
	assert.EqualValues(t, 1, notificationCount(t, db, watcher.ID, models.NotificationTaskWatching))
}

func TestCreateTaskSkipsAdminRecipients(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	other := seedAdmin(t, db, "boss2", "P@ssword1", true)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)

	_, err := svc.Create(admin.AsPrincipal(), &dto.CreateTaskRequest{
		Title:      "Admin-held task",
		AssigneeID: other.ID,
		DueDate:    tomorrow,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateTaskSameWatcherNotifiedOnce(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)

	_, err := svc.Create(admin.AsPrincipal(), &dto.CreateTaskRequest{
		Title:      "Self-watched",
		AssigneeID: assignee.ID,
		WatcherID:  &assignee.ID,
		DueDate:    tomorrow,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", assignee.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)
	stranger := seedUser(t, db, "eren", "P@ssword1", true)

	task := seedTask(t, db, models.Task{
		Title:      "Guarded",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
	})

	_, err := svc.UpdateStatus(uuid.New(), models.TaskStatusInProgress, admin.AsPrincipal())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.UpdateStatus(task.ID, "paused", assignee.AsPrincipal())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(task.ID, models.TaskStatusInProgress, stranger.AsPrincipal())
	assert.ErrorIs(t, err, ErrTaskAccessDenied)

	updated, err := svc.UpdateStatus(task.ID, models.TaskStatusInProgress, assignee.AsPrincipal())
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)

	updated, err = svc.UpdateStatus(task.ID, models.TaskStatusCancelled, admin.AsPrincipal())
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCancelled, updated.Status)
}

func TestUpdateStatusNotifiesCreator(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "mira", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)

	task := seedTask(t, db, models.Task{
		Title:      "Handed off",
		AssigneeID: assignee.ID,
		CreatorID:  creator.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
	})

	_, err := svc.UpdateStatus(task.ID, models.TaskStatusInProgress, assignee.AsPrincipal())
	require.NoError(t, err)
	assert.EqualValues(t, 1, notificationCount(t, db, creator.ID, models.NotificationTaskUpdated))

	// The creator acting on their own task gets no notification.
	own := seedTask(t, db, models.Task{
		Title:      "Self-managed",
		AssigneeID: creator.ID,
		CreatorID:  creator.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
	})
	_, err = svc.UpdateStatus(own.ID, models.TaskStatusCompleted, creator.AsPrincipal())
	require.NoError(t, err)
	assert.EqualValues(t, 1, notificationCount(t, db, creator.ID, models.NotificationTaskUpdated))
}

func TestConfirmCompletionGates(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	second := seedAdmin(t, db, "boss2", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)

	pending := seedTask(t, db, models.Task{
		Title:      "Still open",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
		Status:     models.TaskStatusInProgress,
	})

	// Not completed: silent no-op, not an error.
	require.NoError(t, svc.ConfirmCompletion(pending.ID, admin.ID))
	got, err := svc.Get(pending.ID)
	require.NoError(t, err)
	assert.False(t, got.IsConfirmed)

	done := seedTask(t, db, models.Task{
		Title:      "Done",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
		Status:     models.TaskStatusCompleted,
	})

	require.NoError(t, svc.ConfirmCompletion(done.ID, admin.ID))
	got, err = svc.Get(done.ID)
	require.NoError(t, err)
	require.True(t, got.IsConfirmed)
	require.NotNil(t, got.ConfirmedBy)
	assert.Equal(t, admin.ID, *got.ConfirmedBy)
	firstStamp := *got.ConfirmedAt

	// A second confirmation is a no-op and preserves the original stamp.
	require.NoError(t, svc.ConfirmCompletion(done.ID, second.ID))
	got, err = svc.Get(done.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, *got.ConfirmedBy)
	assert.True(t, got.ConfirmedAt.Equal(firstStamp))
}

func TestDeleteConfirmedOrderedChecks(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)
	stranger := seedUser(t, db, "eren", "P@ssword1", true)

	task := seedTask(t, db, models.Task{
		Title:      "Confirm me first",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
		Status:     models.TaskStatusCompleted,
	})

	assert.ErrorIs(t, svc.DeleteConfirmed(uuid.New(), assignee.ID), ErrTaskNotFound)
	assert.ErrorIs(t, svc.DeleteConfirmed(task.ID, stranger.ID), ErrTaskAccessDenied)
	assert.ErrorIs(t, svc.DeleteConfirmed(task.ID, assignee.ID), ErrTaskNotConfirmed)

	// Still there after the failed attempts.
	_, err := svc.Get(task.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmCompletion(task.ID, admin.ID))
	require.NoError(t, svc.DeleteConfirmed(task.ID, assignee.ID))

	_, err = svc.Get(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListPaginationMatchesCount(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)

	for i := 0; i < 7; i++ {
		seedTask(t, db, models.Task{
			Title:      "Batch task",
			AssigneeID: assignee.ID,
			CreatorID:  admin.ID,
			DueDate:    time.Now().Add(24 * time.Hour),
			Status:     models.TaskStatusInProgress,
		})
	}
	seedTask(t, db, models.Task{
		Title:      "Other",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
		Status:     models.TaskStatusCompleted,
	})

	var seen int
	page := 1
	for {
		tasks, pagination, err := svc.List(TaskListOptions{
			Page:   page,
			Limit:  3,
			Status: models.TaskStatusInProgress,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 7, pagination.TotalItems)
		assert.Equal(t, 3, pagination.TotalPages)
		assert.Equal(t, page > 1, pagination.HasPrevPage)
		seen += len(tasks)
		if !pagination.HasNextPage {
			break
		}
		page++
	}
	assert.Equal(t, 7, seen)
}

func TestListDateFilters(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)

	overdue := seedTask(t, db, models.Task{
		Title:      "Late",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().UTC().Add(-48 * time.Hour),
		Status:     models.TaskStatusInProgress,
	})
	// Completed late tasks are not overdue.
	seedTask(t, db, models.Task{
		Title:      "Late but done",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().UTC().Add(-48 * time.Hour),
		Status:     models.TaskStatusCompleted,
	})
	today := seedTask(t, db, models.Task{
		Title:      "Today",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().UTC().Truncate(24 * time.Hour).Add(12 * time.Hour),
	})
	upcoming := seedTask(t, db, models.Task{
		Title:      "Future",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().UTC().Add(72 * time.Hour),
	})

	tasks, _, err := svc.List(TaskListOptions{Overdue: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, overdue.ID, tasks[0].ID)

	tasks, _, err = svc.List(TaskListOptions{DueToday: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, today.ID, tasks[0].ID)

	tasks, _, err = svc.List(TaskListOptions{Upcoming: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, upcoming.ID, tasks[0].ID)
}

func TestListTitleSearchIsCaseInsensitive(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)

	match := seedTask(t, db, models.Task{
		Title:      "Quarterly REVIEW deck",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
	})
	seedTask(t, db, models.Task{
		Title:      "Unrelated",
		AssigneeID: assignee.ID,
		CreatorID:  admin.ID,
		DueDate:    time.Now().Add(24 * time.Hour),
	})

	tasks, pagination, err := svc.List(TaskListOptions{Search: "review"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, match.ID, tasks[0].ID)
	assert.EqualValues(t, 1, pagination.TotalItems)
}

func TestListSortsByPriorityRank(t *testing.T) {
	svc, db := newTaskService(t)
	admin := seedAdmin(t, db, "boss", "P@ssword1", true)
	assignee := seedUser(t, db, "dana", "P@ssword1", true)

	for _, priority := range []string{
		models.TaskPriorityLow,
		models.TaskPriorityUrgent,
		models.TaskPriorityMedium,
		models.TaskPriorityHigh,
	} {
		seedTask(t, db, models.Task{
			Title:      "P-" + priority,
			AssigneeID: assignee.ID,
			CreatorID:  admin.ID,
			DueDate:    time.Now().Add(24 * time.Hour),
			Priority:   priority,
		})
	}

	tasks, _, err := svc.List(TaskListOptions{SortBy: "priority", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	got := make([]string, len(tasks))
	for i, task := range tasks {
		got[i] = task.Priority
	}
	assert.Equal(t, []string{
		models.TaskPriorityUrgent,
		models.TaskPriorityHigh,
		models.TaskPriorityMedium,
		models.TaskPriorityLow,
	}, got)

	// The SQL ordering agrees with the in-process rank table.
	for i := 1; i < len(tasks); i++ {
		assert.GreaterOrEqual(t,
			models.PriorityRank[tasks[i-1].Priority],
			models.PriorityRank[tasks[i].Priority])
	}
}
