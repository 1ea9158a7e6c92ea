package dto

import "github.com/selimerdal/taskhub-backend/internal/models"

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Pagination    *Pagination           `json:"pagination"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
