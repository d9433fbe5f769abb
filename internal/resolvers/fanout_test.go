package resolvers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type failingNotifier struct{}

func (failingNotifier) Notify(*gorm.DB, uint, uint, string, string, string, uint) error {
	return errors.New("notification store unavailable")
}

func TestFanoutFailureRollsBackWholeMutation(t *testing.T) {
	r := newTestResolver(t)
	r.notifier = failingNotifier{}

	author := seedUser(t, r, "author")
	liker := seedUser(t, r, "liker")
	post := seedPost(t, r, author)

	_, err := r.opLikePost().Resolve(context.Background(), principalFor(liker), &likePostArgs{PostID: post.ID})
	assert.Equal(t, graphql.CodeDatabase, appCode(t, err))

	// neither the like row nor the counter delta survives
	assert.Equal(t, int64(0), countRows(t, r, &models.Like{}, "user_id = ?", liker.ID))
	assert.Equal(t, 0, reloadPost(t, r, post.ID).LikesCount)
	assert.Equal(t, int64(0), countRows(t, r, &models.Notification{}, "recipient_id = ?", author.ID))
}

func TestFanoutFailureRollsBackFollow(t *testing.T) {
	r := newTestResolver(t)
	r.notifier = failingNotifier{}

	alice := seedUser(t, r, "alice")
	bob := seedUser(t, r, "bob")

	_, err := r.opFollowUser().Resolve(context.Background(), principalFor(alice), &followArgs{UserID: bob.ID})
	require.Error(t, err)

	assert.Equal(t, int64(0), countRows(t, r, &models.Follow{}, "follower_id = ?", alice.ID))
	assert.Equal(t, 0, reloadUser(t, r, alice.ID).FollowingCount)
	assert.Equal(t, 0, reloadUser(t, r, bob.ID).FollowersCount)
}

func TestNotificationMessageTemplates(t *testing.T) {
	assert.Equal(t, "alice liked your post", NotificationMessage("alice", models.NotificationLike, models.TargetPost))
	assert.Equal(t, "alice liked your comment", NotificationMessage("alice", models.NotificationLike, models.TargetComment))
	assert.Equal(t, "alice commented on your post", NotificationMessage("alice", models.NotificationComment, models.TargetPost))
	assert.Equal(t, "alice replied to your comment", NotificationMessage("alice", models.NotificationReply, models.TargetComment))
	assert.Equal(t, "alice shared your post", NotificationMessage("alice", models.NotificationShare, models.TargetPost))
	assert.Equal(t, "alice started following you", NotificationMessage("alice", models.NotificationFollow, models.TargetUser))
	assert.Equal(t, "alice interacted with you", NotificationMessage("alice", "unknown", models.TargetPost))
}

func TestNotifierStagesRowOnCallerTransaction(t *testing.T) {
	r := newTestResolver(t)
	alice := seedUser(t, r, "alice")
	bob := seedUser(t, r, "bob")

	// roll the surrounding transaction back by hand; the staged
	// notification must vanish with it
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.notifier.Notify(tx, bob.ID, alice.ID, "alice", models.NotificationLike, models.TargetPost, 1); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), countRows(t, r, &models.Notification{}, "recipient_id = ?", bob.ID))
}
