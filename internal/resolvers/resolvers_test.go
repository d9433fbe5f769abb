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

func TestWrapDBNilStaysNil(t *testing.T) {
	assert.NoError(t, wrapDB(nil))
}

func TestWrapDBClassification(t *testing.T) {
	classified := graphql.NewNotFound("post")
	assert.Same(t, classified, wrapDB(classified).(*graphql.AppError))

	assert.Equal(t, graphql.CodeIntegrity, graphql.Translate(wrapDB(gorm.ErrDuplicatedKey)).Code)
	assert.Equal(t, context.Canceled, wrapDB(context.Canceled))
	assert.Equal(t, graphql.CodeDatabase, graphql.Translate(wrapDB(errors.New("boom"))).Code)
}

// Each undo runs a counter decrement as its trailing wrapped store call;
// a successful decrement must commit, not fail the transaction.
func TestUndoSuccessPathsCommit(t *testing.T) {
	r := newTestResolver(t)
	alice := seedUser(t, r, "alice")
	bob := seedUser(t, r, "bob")
	post := seedPost(t, r, bob)
	p := principalFor(alice)

	_, err := r.opLikePost().Resolve(context.Background(), p, &likePostArgs{PostID: post.ID})
	require.NoError(t, err)
	out, err := r.opUnlikePost().Resolve(context.Background(), p, &likePostArgs{PostID: post.ID})
	require.NoError(t, err)
	assert.True(t, out.(*UndoPayload).Success)
	assert.Equal(t, int64(0), countRows(t, r, &models.Like{}, "user_id = ?", alice.ID))

	_, err = r.opFollowUser().Resolve(context.Background(), p, &followArgs{UserID: bob.ID})
	require.NoError(t, err)
	out, err = r.opUnfollowUser().Resolve(context.Background(), p, &followArgs{UserID: bob.ID})
	require.NoError(t, err)
	assert.True(t, out.(*UndoPayload).Success)
	assert.Equal(t, 0, reloadUser(t, r, bob.ID).FollowersCount)
}
