package models

import "time"

// Notification kinds.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationShare   = "share"
	NotificationFollow  = "follow"
)

// Notification is produced as a side effect of an interaction when the
// acting user differs from the target's owner. Its lifecycle is
// independent of the triggering interaction: deleting the interaction does
// not retract the notification.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index:idx_notifications_recipient_created;index:idx_notifications_recipient_read"`
	SenderID    uint      `json:"sender_id" gorm:"index"`
	Kind        string    `json:"kind" gorm:"size:10"`
	Message     string    `json:"message" gorm:"size:255"`
	TargetType  string    `json:"target_type" gorm:"size:20"`
	TargetID    uint      `json:"target_id"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index:idx_notifications_recipient_read"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_notifications_recipient_created"`
}
