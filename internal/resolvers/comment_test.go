package resolvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

func TestCreateCommentBumpsCounterAndNotifiesAuthor(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	commenter := seedUser(t, r, "commenter")
	post := seedPost(t, r, author)

	out, err := r.opCreateComment().Resolve(context.Background(), principalFor(commenter),
		&createCommentArgs{PostID: post.ID, Content: "nice post"})
	require.NoError(t, err)
	payload := out.(*CommentPayload)
	assert.True(t, payload.Success)
	assert.Equal(t, "nice post", payload.Comment.Content)

	assert.Equal(t, 1, reloadPost(t, r, post.ID).CommentsCount)

	var notif models.Notification
	require.NoError(t, r.db.Where("recipient_id = ?", author.ID).First(&notif).Error)
	assert.Equal(t, models.NotificationComment, notif.Kind)
	assert.Equal(t, "commenter commented on your post", notif.Message)
}

func TestCommentOnOwnPostSkipsNotification(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	post := seedPost(t, r, author)

	_, err := r.opCreateComment().Resolve(context.Background(), principalFor(author),
		&createCommentArgs{PostID: post.ID, Content: "note to self"})
	require.NoError(t, err)

	assert.Equal(t, 1, reloadPost(t, r, post.ID).CommentsCount)
	assert.Equal(t, int64(0), countRows(t, r, &models.Notification{}, "recipient_id = ?", author.ID))
}

func TestReplyNotifiesParentAuthorToo(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	commenter := seedUser(t, r, "commenter")
	replier := seedUser(t, r, "replier")
	post := seedPost(t, r, author)
	parent := seedComment(t, r, post, commenter)

	out, err := r.opCreateComment().Resolve(context.Background(), principalFor(replier),
		&createCommentArgs{PostID: post.ID, Content: "agreed", ParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, out.(*CommentPayload).Comment.ParentID)

	var postNotif models.Notification
	require.NoError(t, r.db.Where("recipient_id = ?", author.ID).First(&postNotif).Error)
	assert.Equal(t, models.NotificationComment, postNotif.Kind)

	var replyNotif models.Notification
	require.NoError(t, r.db.Where("recipient_id = ?", commenter.ID).First(&replyNotif).Error)
	assert.Equal(t, models.NotificationReply, replyNotif.Kind)
	assert.Equal(t, "replier replied to your comment", replyNotif.Message)
}

func TestReplyToParentOnDifferentPostIsRejected(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	commenter := seedUser(t, r, "commenter")
	postA := seedPost(t, r, author)
	postB := seedPost(t, r, author)
	parent := seedComment(t, r, postA, commenter)

	_, err := r.opCreateComment().Resolve(context.Background(), principalFor(commenter),
		&createCommentArgs{PostID: postB.ID, Content: "wrong thread", ParentID: &parent.ID})
	assert.Equal(t, graphql.CodeValidation, appCode(t, err))
	assert.Equal(t, 0, reloadPost(t, r, postB.ID).CommentsCount)
}

func TestCommentOnMissingPost(t *testing.T) {
	r := newTestResolver(t)
	commenter := seedUser(t, r, "commenter")

	_, err := r.opCreateComment().Resolve(context.Background(), principalFor(commenter),
		&createCommentArgs{PostID: 999, Content: "hello"})
	assert.Equal(t, graphql.CodeNotFound, appCode(t, err))
}

func TestDeleteCommentRequiresOwnership(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	commenter := seedUser(t, r, "commenter")
	intruder := seedUser(t, r, "intruder")
	post := seedPost(t, r, author)

	out, err := r.opCreateComment().Resolve(context.Background(), principalFor(commenter),
		&createCommentArgs{PostID: post.ID, Content: "mine"})
	require.NoError(t, err)
	comment := out.(*CommentPayload).Comment

	_, err = r.opDeleteComment().Resolve(context.Background(), principalFor(intruder),
		&deleteCommentArgs{CommentID: comment.ID})
	assert.Equal(t, graphql.CodePermission, appCode(t, err))
	assert.Equal(t, 1, reloadPost(t, r, post.ID).CommentsCount)

	_, err = r.opDeleteComment().Resolve(context.Background(), principalFor(commenter),
		&deleteCommentArgs{CommentID: comment.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, reloadPost(t, r, post.ID).CommentsCount)
	assert.Equal(t, int64(0), countRows(t, r, &models.Comment{}, "id = ?", comment.ID))
}

func TestPostCommentsReturnsTopLevelOnly(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	commenter := seedUser(t, r, "commenter")
	post := seedPost(t, r, author)
	p := principalFor(commenter)

	out, err := r.opCreateComment().Resolve(context.Background(), p,
		&createCommentArgs{PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	parent := out.(*CommentPayload).Comment

	_, err = r.opCreateComment().Resolve(context.Background(), p,
		&createCommentArgs{PostID: post.ID, Content: "reply", ParentID: &parent.ID})
	require.NoError(t, err)

	out, err = r.opPostComments().Resolve(context.Background(), graphql.Principal{Anonymous: true},
		&postCommentsArgs{PostID: post.ID})
	require.NoError(t, err)
	comments := out.([]models.Comment)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Content)
}
