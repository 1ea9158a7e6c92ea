package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/selimerdal/taskhub-backend/internal/dto"
	"github.com/selimerdal/taskhub-backend/internal/models"
	"github.com/selimerdal/taskhub-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskAccessDenied = errors.New("not allowed to modify this task")
	ErrTaskNotConfirmed = errors.New("task is not confirmed yet")
)

// priorityOrder ranks priorities for sorting: urgent > high > medium > low.
const priorityOrder = "CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END"

// TaskService owns task CRUD, the status field and the confirmation flag.
// Status carries no transition graph: any of the four values may be set by
// the admin or the assignee; only authorization is enforced.
type TaskService struct {
	db       *gorm.DB
	notifier *NotificationService
	files    storage.FileStore
}

func NewTaskService(db *gorm.DB, notifier *NotificationService, files storage.FileStore) *TaskService {
	return &TaskService{db: db, notifier: notifier, files: files}
}

// Create validates and persists a task with its file satellites, then fans
// out notifications to the assignee and any distinct watcher. Recipients
// that are admin accounts are skipped.
func (s *TaskService) Create(actor models.Principal, req *dto.CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.AssigneeID == uuid.Nil {
		return nil, fmt.Errorf("%w: assignee_id is required", ErrValidation)
	}
	if req.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due_date is required", ErrValidation)
	}
	if req.DueDate.Before(startOfToday()) {
		return nil, fmt.Errorf("%w: due_date cannot be in the past", ErrValidation)
	}
	if !req.StartDate.IsZero() && req.StartDate.After(req.DueDate) {
		return nil, fmt.Errorf("%w: start_date cannot be after due_date", ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.TaskPriorities[priority] {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, req.Priority)
	}
	status := req.Status
	if status == "" {
		status = models.TaskStatusNotStarted
	}
	if !models.TaskStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	task := models.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		WatcherID:   req.WatcherID,
		CreatorID:   actor.ID,
		ProjectID:   req.ProjectID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Priority:    priority,
		Status:      status,
	}
	for _, f := range req.Files {
		task.Files = append(task.Files, models.TaskFile{
			ID:       uuid.New(),
			TaskID:   task.ID,
			FileName: f.FileName,
			FilePath: f.FilePath,
			FileSize: f.FileSize,
			FileType: f.FileType,
		})
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if !s.isAdminAccount(task.AssigneeID) {
		s.notifier.Notify(NotificationInput{
			UserID:   task.AssigneeID,
			UserType: models.UserTypeUser,
			TaskID:   &task.ID,
			Type:     models.NotificationTaskAssigned,
			Title:    "New task assigned",
			Message:  fmt.Sprintf("You have been assigned the task %q.", task.Title),
		})
	}
	if task.WatcherID != nil && *task.WatcherID != task.AssigneeID && !s.isAdminAccount(*task.WatcherID) {
		s.notifier.Notify(NotificationInput{
			UserID:   *task.WatcherID,
			UserType: models.UserTypeUser,
			TaskID:   &task.ID,
			Type:     models.NotificationTaskWatching,
			Title:    "Watching a new task",
			Message:  fmt.Sprintf("You are watching the task %q.", task.Title),
		})
	}

	return &task, nil
}

func (s *TaskService) Get(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("Files").First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task lookup failed: %w", err)
	}
	return &task, nil
}

// Update applies a partial field update. Reserved for admins; the route
// layer enforces that.
func (s *TaskService) Update(id uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AssigneeID != nil {
		updates["assignee_id"] = *req.AssigneeID
	}
	if req.WatcherID != nil {
		updates["watcher_id"] = *req.WatcherID
	}
	if req.ProjectID != nil {
		updates["project_id"] = *req.ProjectID
	}
	if req.Priority != nil {
		if !models.TaskPriorities[*req.Priority] {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *req.Priority)
		}
		updates["priority"] = *req.Priority
	}

	start := task.StartDate
	due := task.DueDate
	if req.StartDate != nil {
		start = *req.StartDate
		updates["start_date"] = start
	}
	if req.DueDate != nil {
		due = *req.DueDate
		updates["due_date"] = due
	}
	if !start.IsZero() && start.After(due) {
		return nil, fmt.Errorf("%w: start_date cannot be after due_date", ErrValidation)
	}

	if len(updates) == 0 {
		return task, nil
	}
	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.Get(id)
}

// UpdateStatus sets the status field. Allowed for the admin or the task's
// own assignee. The creator is notified unless they are the actor or an
// admin account.
func (s *TaskService) UpdateStatus(id uuid.UUID, status string, actor models.Principal) (*models.Task, error) {
	if !models.TaskStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != task.AssigneeID {
		return nil, ErrTaskAccessDenied
	}

	if err := s.db.Model(task).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	task.Status = status

	if task.CreatorID != actor.ID && !s.isAdminAccount(task.CreatorID) {
		s.notifier.Notify(NotificationInput{
			UserID:   task.CreatorID,
			UserType: models.UserTypeUser,
			TaskID:   &task.ID,
			Type:     models.NotificationTaskUpdated,
			Title:    "Task status updated",
			Message:  fmt.Sprintf("The task %q is now %s.", task.Title, status),
		})
	}

	return task, nil
}

// ConfirmCompletion marks a completed task's work as accepted. It is only
// invoked from report resolution, never from a task endpoint. The update
// gates on status and the confirmation flag in one statement: a task that is
// not completed, or was already confirmed, is a silent no-op so the original
// confirmation stamp is never overwritten.
func (s *TaskService) ConfirmCompletion(taskID, adminID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.Task{}).
		Where("id = ? AND status = ? AND is_confirmed = ?", taskID, models.TaskStatusCompleted, false).
		Updates(map[string]interface{}{
			"is_confirmed": true,
			"confirmed_at": now,
			"confirmed_by": adminID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to confirm task: %w", result.Error)
	}
	return nil
}

// DeleteConfirmed lets the assignee delete their own task once its work has
// been confirmed. The three checks are distinct and ordered: existence,
// ownership, confirmation.
func (s *TaskService) DeleteConfirmed(taskID, actorID uuid.UUID) error {
	task, err := s.Get(taskID)
	if err != nil {
		return err
	}
	if task.AssigneeID != actorID {
		return ErrTaskAccessDenied
	}
	if !task.IsConfirmed {
		return ErrTaskNotConfirmed
	}
	return s.deleteTask(task)
}

// Delete is the admin hard delete, independent of confirmation state.
func (s *TaskService) Delete(taskID uuid.UUID) error {
	task, err := s.Get(taskID)
	if err != nil {
		return err
	}
	return s.deleteTask(task)
}

func (s *TaskService) deleteTask(task *models.Task) error {
	paths := make([]string, 0, len(task.Files))
	for _, f := range task.Files {
		paths = append(paths, f.FilePath)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Satellites first; the DB-level cascades cover fresh schemas but
		// AutoMigrate does not retrofit them onto existing tables.
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", task.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	for _, p := range paths {
		if err := s.files.Delete(p); err != nil {
			slog.Warn("task file cleanup failed", "path", p, "error", err)
		}
	}
	return nil
}

// TaskListOptions compose conjunctively; every set field narrows the result.
type TaskListOptions struct {
	Page  int
	Limit int

	Status     string
	Priority   string
	ProjectID  *uuid.UUID
	AssigneeID *uuid.UUID
	CreatorID  *uuid.UUID
	WatcherID  *uuid.UUID
	Overdue    bool
	DueToday   bool
	Upcoming   bool
	Search     string

	SortBy    string
	SortOrder string
}

// List returns one page of tasks plus page metadata. The count and data
// queries share one predicate, so page sizes always sum to the total.
func (s *TaskService) List(opts TaskListOptions) ([]models.Task, *dto.Pagination, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 20
	}

	var total int64
	if err := s.applyFilters(s.db.Model(&models.Task{}), opts).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("task count failed: %w", err)
	}

	var tasks []models.Task
	err := s.applyFilters(s.db.Model(&models.Task{}), opts).
		Order(sortClause(opts.SortBy, opts.SortOrder)).
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Preload("Files").
		Find(&tasks).Error
	if err != nil {
		return nil, nil, fmt.Errorf("task list failed: %w", err)
	}

	return tasks, dto.NewPagination(opts.Page, opts.Limit, total), nil
}

func (s *TaskService) applyFilters(query *gorm.DB, opts TaskListOptions) *gorm.DB {
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Priority != "" {
		query = query.Where("priority = ?", opts.Priority)
	}
	if opts.ProjectID != nil {
		query = query.Where("project_id = ?", *opts.ProjectID)
	}
	if opts.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *opts.AssigneeID)
	}
	if opts.CreatorID != nil {
		query = query.Where("creator_id = ?", *opts.CreatorID)
	}
	if opts.WatcherID != nil {
		query = query.Where("watcher_id = ?", *opts.WatcherID)
	}

	dayStart := startOfToday()
	dayEnd := dayStart.Add(24 * time.Hour)
	if opts.Overdue {
		query = query.Where("due_date < ? AND status <> ?", dayStart, models.TaskStatusCompleted)
	}
	if opts.DueToday {
		query = query.Where("due_date >= ? AND due_date < ?", dayStart, dayEnd)
	}
	if opts.Upcoming {
		query = query.Where("due_date >= ? AND status <> ?", dayEnd, models.TaskStatusCompleted)
	}

	if opts.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(opts.Search)+"%")
	}
	return query
}

func sortClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	switch sortBy {
	case "due_date", "status", "title", "created_at":
		return sortBy + " " + dir
	case "priority":
		return priorityOrder + " " + dir
	default:
		return "created_at DESC"
	}
}

func (s *TaskService) isAdminAccount(id uuid.UUID) bool {
	var count int64
	if err := s.db.Model(&models.Admin{}).Where("id = ?", id).Count(&count).Error; err != nil {
		slog.Warn("admin account check failed", "id", id.String(), "error", err)
		return false
	}
	return count > 0
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
