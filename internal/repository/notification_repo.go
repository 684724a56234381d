package repository

import (
	"context"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	var n entity.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, page, size int) ([]entity.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Notification{}).Where("user_id = ?", userID)
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var items []entity.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ?", id).Update("read", true).Error
}

// MarkAllRead 单条 UPDATE 批量置已读，只影响该用户的未读通知
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
