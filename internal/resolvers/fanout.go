package resolvers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/models"
)

// Notifier stages a notification write on the caller's transaction. It
// must not commit independently: if the surrounding mutation rolls back,
// the notification disappears with it, and if the notifier fails, the
// whole mutation rolls back.
type Notifier interface {
	Notify(tx *gorm.DB, recipientID, senderID uint, senderName, kind, targetType string, targetID uint) error
}

var messageTemplates = map[string]string{
	models.NotificationLike:    "%s liked your post",
	models.NotificationComment: "%s commented on your post",
	models.NotificationReply:   "%s replied to your comment",
	models.NotificationShare:   "%s shared your post",
	models.NotificationFollow:  "%s started following you",
}

// NotificationMessage builds the user-facing message for a kind and
// target. Pure function of the sender's display name, the kind and the
// target type; likes name the kind of thing that was liked.
func NotificationMessage(senderName, kind, targetType string) string {
	if kind == models.NotificationLike && targetType == models.TargetComment {
		return senderName + " liked your comment"
	}
	tmpl, ok := messageTemplates[kind]
	if !ok {
		return senderName + " interacted with you"
	}
	return fmt.Sprintf(tmpl, senderName)
}

// notificationFanout is the production Notifier.
type notificationFanout struct{}

func NewNotifier() Notifier {
	return notificationFanout{}
}

func (notificationFanout) Notify(tx *gorm.DB, recipientID, senderID uint, senderName, kind, targetType string, targetID uint) error {
	return tx.Create(&models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		Message:     NotificationMessage(senderName, kind, targetType),
		TargetType:  targetType,
		TargetID:    targetID,
	}).Error
}
