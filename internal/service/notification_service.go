package service

import (
	"context"

	"stackit/internal/models"
	"stackit/internal/repository"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) ListNotifications(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

func (s *NotificationService) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id uint) error {
	return s.notificationRepo.MarkRead(ctx, recipientID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}
