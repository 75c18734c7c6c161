package repository

import (
	"context"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByEmail(ctx context.Context, email string, unreadOnly bool, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, email string) (int64, error)
	MarkRead(ctx context.Context, email string, id uint) (bool, error)
	MarkAllRead(ctx context.Context, email string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepository) ListByEmail(ctx context.Context, email string, unreadOnly bool, limit int) ([]models.Notification, error) {
	var out []models.Notification
	q := r.db.WithContext(ctx).Where("user_email = ?", models.NormalizeEmail(email))
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_email = ? AND read = ?", models.NormalizeEmail(email), false).
		Count(&count).Error
	return count, err
}

// MarkRead only touches the row when it belongs to email
func (r *notificationRepository) MarkRead(ctx context.Context, email string, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_email = ?", id, models.NormalizeEmail(email)).
		Update("read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_email = ? AND read = ?", models.NormalizeEmail(email), false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
