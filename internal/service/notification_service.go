package service

import (
	"context"
	"errors"
	"time"

	"reimburse-backend/internal/repository"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt string    `json:"created_at"`
}

// NotificationService reads a user's own notifications. Creation happens as a
// side effect of registration inside the user service's transaction.
type NotificationService interface {
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type notificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]NotificationResponse, int64, error) {
	notifications, total, err := s.notifications.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses, total, nil
}

// MarkRead flips the read flag; only the recipient may do so.
func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return errors.New("notification not found")
	}
	if notification.UserID != userID {
		return errors.New("notification not found")
	}
	return s.notifications.MarkRead(ctx, id)
}
