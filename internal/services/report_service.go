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
	ErrReportNotFound     = errors.New("report not found")
	ErrNotReportOwner     = errors.New("not the owner of this report")
	ErrTaskNotCompleted   = errors.New("task is not completed")
	ErrReportExists       = errors.New("a report already exists for this task")
	ErrAlreadySubmitted   = errors.New("report has already been submitted")
	ErrReportNotSubmitted = errors.New("report has not been submitted")
	ErrAlreadyResolved    = errors.New("report has already been resolved")
	ErrReportNotResolved  = errors.New("report has not been resolved")
)

// ReportService owns the draft -> submitted -> resolved machine. Unlike the
// task status field, these transitions are strict and one-way.
type ReportService struct {
	db       *gorm.DB
	notifier *NotificationService
	tasks    *TaskService
	files    storage.FileStore
}

func NewReportService(db *gorm.DB, notifier *NotificationService, tasks *TaskService, files storage.FileStore) *ReportService {
	return &ReportService{db: db, notifier: notifier, tasks: tasks, files: files}
}

// Create opens a draft report. Preconditions, in order: the task exists,
// the caller is its assignee, the task is completed, and no report exists
// yet for this (task, user). Each failure is distinct so clients can react
// differently.
func (s *ReportService) Create(taskID, userID uuid.UUID, req *dto.CreateReportRequest) (*models.TaskReport, error) {
	var task models.Task
	err := s.db.First(&task, "id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task lookup failed: %w", err)
	}
	if task.AssigneeID != userID {
		return nil, ErrNotReportOwner
	}
	if task.Status != models.TaskStatusCompleted {
		return nil, ErrTaskNotCompleted
	}

	var existing models.TaskReport
	err = s.db.Where("task_id = ? AND user_id = ?", taskID, userID).First(&existing).Error
	if err == nil {
		return nil, ErrReportExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("report lookup failed: %w", err)
	}

	report := models.TaskReport{
		ID:          uuid.New(),
		TaskID:      taskID,
		UserID:      userID,
		Description: req.Description,
		Status:      models.ReportStatusDraft,
	}
	if req.File != nil {
		report.FileURL = &req.File.FilePath
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) Get(id uuid.UUID) (*models.TaskReport, error) {
	var report models.TaskReport
	err := s.db.First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("report lookup failed: %w", err)
	}
	return &report, nil
}

// GetForTask returns the caller's report on a task, if any.
func (s *ReportService) GetForTask(taskID, userID uuid.UUID) (*models.TaskReport, error) {
	var report models.TaskReport
	err := s.db.Where("task_id = ? AND user_id = ?", taskID, userID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("report lookup failed: %w", err)
	}
	return &report, nil
}

// List returns one page of reports for the admin review surface.
func (s *ReportService) List(status string, resolved *bool, page, limit int) ([]models.TaskReport, *dto.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.TaskReport{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("report count failed: %w", err)
	}

	var reports []models.TaskReport
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reports).Error; err != nil {
		return nil, nil, fmt.Errorf("report list failed: %w", err)
	}

	return reports, dto.NewPagination(page, limit, total), nil
}

// Update edits a draft. Submitted reports are immutable. Replacing the file
// removes the previous one from storage best-effort.
func (s *ReportService) Update(id, userID uuid.UUID, req *dto.UpdateReportRequest) (*models.TaskReport, error) {
	report, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, ErrNotReportOwner
	}
	if report.Status != models.ReportStatusDraft {
		return nil, ErrAlreadySubmitted
	}

	updates := map[string]interface{}{"description": req.Description}
	var oldFile string
	if req.File != nil {
		if report.FileURL != nil {
			oldFile = *report.FileURL
		}
		updates["file_url"] = req.File.FilePath
	}

	if err := s.db.Model(report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	if oldFile != "" {
		if err := s.files.Delete(oldFile); err != nil {
			slog.Warn("replaced report file cleanup failed", "path", oldFile, "error", err)
		}
	}
	return s.Get(id)
}

// Submit moves a draft to submitted. The transition itself is one
// conditional update, so a duplicate or racing submit observes zero rows
// and fails with ErrAlreadySubmitted instead of stamping twice. On success
// every currently active admin is notified; the roster is read at this
// moment, not from a fixed subscriber list.
func (s *ReportService) Submit(id, userID uuid.UUID) (*models.TaskReport, error) {
	report, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, ErrNotReportOwner
	}
	if report.Status != models.ReportStatusDraft {
		return nil, ErrAlreadySubmitted
	}
	if strings.TrimSpace(report.Description) == "" {
		return nil, fmt.Errorf("%w: description is required before submitting", ErrValidation)
	}

	now := time.Now()
	result := s.db.Model(&models.TaskReport{}).
		Where("id = ? AND status = ?", id, models.ReportStatusDraft).
		Updates(map[string]interface{}{
			"status":       models.ReportStatusSubmitted,
			"submitted_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to submit report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadySubmitted
	}
	report.Status = models.ReportStatusSubmitted
	report.SubmittedAt = &now

	s.notifyAdmins(report)

	return report, nil
}

// notifyAdmins fans out report_submitted to every active admin. Each insert
// failure is handled inside Notify, so one bad recipient never blocks the
// rest or the submit call.
func (s *ReportService) notifyAdmins(report *models.TaskReport) {
	var admins []models.Admin
	if err := s.db.Where("is_active = ?", true).Find(&admins).Error; err != nil {
		slog.Error("admin roster lookup failed", "report_id", report.ID.String(), "error", err)
		return
	}
	for _, admin := range admins {
		s.notifier.Notify(NotificationInput{
			UserID:   admin.ID,
			UserType: models.UserTypeAdmin,
			TaskID:   &report.TaskID,
			ReportID: &report.ID,
			Type:     models.NotificationReportSubmitted,
			Title:    "Report submitted",
			Message:  "A task report has been submitted for review.",
		})
	}
}

// MarkResolved is one-way and non-idempotent: a second resolve fails with
// ErrAlreadyResolved. On success the task confirmation runs as a dependent,
// best-effort step; its failure is logged and never rolls back the resolve.
func (s *ReportService) MarkResolved(id, adminID uuid.UUID) (*models.TaskReport, error) {
	report, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if report.IsResolved {
		return nil, ErrAlreadyResolved
	}
	if report.Status != models.ReportStatusSubmitted {
		return nil, ErrReportNotSubmitted
	}

	now := time.Now()
	result := s.db.Model(&models.TaskReport{}).
		Where("id = ? AND is_resolved = ? AND status = ?", id, false, models.ReportStatusSubmitted).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_at": now,
			"resolved_by": adminID,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to resolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyResolved
	}
	report.IsResolved = true
	report.ResolvedAt = &now
	report.ResolvedBy = &adminID

	if err := s.tasks.ConfirmCompletion(report.TaskID, adminID); err != nil {
		slog.Error("task confirmation failed after report resolution",
			"report_id", report.ID.String(), "task_id", report.TaskID.String(), "error", err)
	}

	return report, nil
}

// Delete removes a report. Owners may delete their drafts; admins may
// delete resolved reports. A submitted, unresolved report cannot be deleted
// by anyone. The stored file is removed best-effort.
func (s *ReportService) Delete(id uuid.UUID, actor models.Principal) error {
	report, err := s.Get(id)
	if err != nil {
		return err
	}

	if actor.IsAdmin() {
		if !report.IsResolved {
			return ErrReportNotResolved
		}
	} else {
		if report.UserID != actor.ID {
			return ErrNotReportOwner
		}
		if report.Status != models.ReportStatusDraft {
			return ErrAlreadySubmitted
		}
	}

	if err := s.db.Delete(&models.TaskReport{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if report.FileURL != nil {
		if err := s.files.Delete(*report.FileURL); err != nil {
			slog.Warn("report file cleanup failed", "path", *report.FileURL, "error", err)
		}
	}
	return nil
}
