package services

import (
	"context"

	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
)

const inboxPageSize = 100

type NotificationService interface {
	List(ctx context.Context, actor types.Actor, unreadOnly bool) ([]models.Notification, error)
	UnreadCount(ctx context.Context, actor types.Actor) (int64, error)
	MarkRead(ctx context.Context, actor types.Actor, id uint) error
	MarkAllRead(ctx context.Context, actor types.Actor) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, actor types.Actor, unreadOnly bool) ([]models.Notification, error) {
	if actor.Anonymous() {
		return nil, denied("", "read notifications")
	}
	return s.notificationRepo.ListByEmail(ctx, actor.Email, unreadOnly, inboxPageSize)
}

func (s *notificationService) UnreadCount(ctx context.Context, actor types.Actor) (int64, error) {
	if actor.Anonymous() {
		return 0, denied("", "read notifications")
	}
	return s.notificationRepo.CountUnread(ctx, actor.Email)
}

// MarkRead reports not found for another user's notification
func (s *notificationService) MarkRead(ctx context.Context, actor types.Actor, id uint) error {
	if actor.Anonymous() {
		return denied("", "update notifications")
	}
	ok, err := s.notificationRepo.MarkRead(ctx, actor.Email, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor types.Actor) (int64, error) {
	if actor.Anonymous() {
		return 0, denied("", "update notifications")
	}
	return s.notificationRepo.MarkAllRead(ctx, actor.Email)
}
