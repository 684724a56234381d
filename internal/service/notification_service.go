package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService 站内通知。创建即送达，没有后续副作用。
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(ctx context.Context, userID, notificationType, message string, details entity.JSONB) (*entity.Notification, error) {
	n := &entity.Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    notificationType,
		Message: message,
		Details: details,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) ListByUser(ctx context.Context, userID string, page, size int) ([]entity.Notification, int64, int64, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

// MarkRead 仅通知属主可置已读，重复调用幂等
func (s *NotificationService) MarkRead(ctx context.Context, id, actorID string) (*entity.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification %s", ErrNotFound, id)
		}
		return nil, err
	}
	if n.UserID != actorID {
		return nil, fmt.Errorf("%w: not the notification owner", ErrForbidden)
	}
	if !n.Read {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		n.Read = true
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
