package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/models"
)

// NotificationRepository is the notified user's query path. Notification
// creation happens inside the interaction resolvers' transactions (the
// fan-out stages the row on the caller's tx), not through this interface.
type NotificationRepository interface {
	ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, first, skip int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, notificationID, recipientID uint) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, first, skip int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC").Offset(skip).Limit(first).Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead is scoped to the recipient so a caller can never flip another
// user's notification; zero rows affected means "not found" to the caller.
func (r *postgresNotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
