package resolvers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

// newTestPipeline runs the full request pipeline over the resolver set
// and its backing store, the way the endpoint wires them.
func newTestPipeline(t *testing.T, r *Resolver) *graphql.Pipeline {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := graphql.NewPipeline(
		graphql.NewGuard(graphql.NewJWTVerifier("test-secret")),
		graphql.NewRateLimiter(time.Minute, 1000, logger),
		graphql.NewValidator(),
		5*time.Second,
		logger,
	)
	p.Register(r.Operations()...)
	return p
}

func TestUnauthenticatedMutationLeavesStoreUntouched(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	post := seedPost(t, r, author)
	p := newTestPipeline(t, r)

	mutations := []struct {
		query     string
		variables map[string]any
	}{
		{`mutation { likePost(postId: $postId) { success } }`, map[string]any{"postId": float64(post.ID)}},
		{`mutation { followUser(userId: $userId) { success } }`, map[string]any{"userId": float64(author.ID)}},
		{`mutation { createComment(postId: $postId, content: $content) { success } }`,
			map[string]any{"postId": float64(post.ID), "content": "hi"}},
	}
	for _, m := range mutations {
		resp := p.Execute(context.Background(), &graphql.Request{Query: m.query, Variables: m.variables}, "", "10.0.0.1")
		require.Len(t, resp.Errors, 1, m.query)
		assert.Equal(t, graphql.CodeAuthRequired, resp.Errors[0].Extensions.Code)
		assert.Nil(t, resp.Data)
	}

	// refused before execution: no interaction rows, no counter moves,
	// no notifications
	assert.Equal(t, int64(0), countRows(t, r, &models.Like{}, "1 = 1"))
	assert.Equal(t, int64(0), countRows(t, r, &models.Follow{}, "1 = 1"))
	assert.Equal(t, int64(0), countRows(t, r, &models.Comment{}, "1 = 1"))
	assert.Equal(t, int64(0), countRows(t, r, &models.Notification{}, "1 = 1"))
	got := reloadPost(t, r, post.ID)
	assert.Equal(t, 0, got.LikesCount)
	assert.Equal(t, 0, got.CommentsCount)
	assert.Equal(t, 0, reloadUser(t, r, author.ID).FollowersCount)
}

func TestAuthenticatedMutationThroughPipelineCommits(t *testing.T) {
	r := newTestResolver(t)
	author := seedUser(t, r, "author")
	liker := seedUser(t, r, "liker")
	post := seedPost(t, r, author)
	p := newTestPipeline(t, r)

	token, err := graphql.IssueToken("test-secret", liker.ID, liker.Email, false, time.Hour)
	require.NoError(t, err)

	resp := p.Execute(context.Background(),
		&graphql.Request{Query: `mutation { likePost(postId: $postId) { success } }`,
			Variables: map[string]any{"postId": float64(post.ID)}},
		"Bearer "+token, "10.0.0.1")

	require.Empty(t, resp.Errors)
	assert.Equal(t, int64(1), countRows(t, r, &models.Like{}, "user_id = ?", liker.ID))
	assert.Equal(t, 1, reloadPost(t, r, post.ID).LikesCount)
}
