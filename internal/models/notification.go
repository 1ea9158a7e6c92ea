package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTaskAssigned    = "task_assigned"
	NotificationTaskWatching    = "task_watching"
	NotificationTaskUpdated     = "task_updated"
	NotificationReportSubmitted = "report_submitted"
)

// Notification is a write-once record created as a side effect of task and
// report transitions. user_type disambiguates the recipient because
// principals live in two tables. Back-references to task/report are by id
// only and may dangle once the source row is gone.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_recipient" json:"user_id"`
	UserType  string     `gorm:"size:10;not null;index:idx_notification_recipient" json:"user_type"`
	TaskID    *uuid.UUID `gorm:"type:uuid" json:"task_id,omitempty"`
	ReportID  *uuid.UUID `gorm:"type:uuid" json:"report_id,omitempty"`
	Type      string     `gorm:"size:50;not null" json:"type"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message,omitempty"`
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}
