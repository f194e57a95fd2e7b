package repository

import (
	"context"

	"epowrite/internal/cache"
	"epowrite/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	Delete(ctx context.Context, id, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return translateError(err, "Notification", 0)
	}
	cache.InvalidateNotifications(ctx, n.UserID)
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification

	fetch := func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Offset(offset).
			Find(&notifications).Error
	}

	// Only the first page is cached; deeper pages are rare.
	if offset == 0 {
		if err := cache.CacheAside(ctx, cache.NotificationsKey(userID), &notifications, cache.NotificationsTTL, fetch); err != nil {
			return nil, translateError(err, "Notification", userID)
		}
		return notifications, nil
	}

	if err := fetch(); err != nil {
		return nil, translateError(err, "Notification", userID)
	}
	return notifications, nil
}

// Delete removes a notification owned by userID. Deleting someone else's
// notification reports NotFound rather than leaking its existence.
func (r *notificationRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return translateError(result.Error, "Notification", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	cache.InvalidateNotifications(ctx, userID)
	return nil
}
