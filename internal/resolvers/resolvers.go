// Package resolvers holds the business resolvers invoked through the
// request pipeline. The interaction mutations own the invariant that an
// interaction row, its denormalized counter delta and its notification
// are created or removed together or not at all: each one runs as a
// single store transaction, and duplicate detection rides on the store's
// unique constraints rather than an application-side check.
package resolvers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
	"github.com/nexus-social/backend/internal/repositories"
)

// Config is the subset of runtime configuration the resolvers need.
type Config struct {
	JWTSecret string
}

// Resolver carries the dependencies shared by all operations.
type Resolver struct {
	db            *gorm.DB
	users         repositories.UserRepository
	posts         repositories.PostRepository
	notifications repositories.NotificationRepository
	notifier      Notifier
	cfg           Config
}

func New(db *gorm.DB, users repositories.UserRepository, posts repositories.PostRepository, notifications repositories.NotificationRepository, notifier Notifier, cfg Config) *Resolver {
	return &Resolver{
		db:            db,
		users:         users,
		posts:         posts,
		notifications: notifications,
		notifier:      notifier,
		cfg:           cfg,
	}
}

// Operations returns every operation this resolver set serves, ready to
// register on the pipeline.
func (r *Resolver) Operations() []*graphql.Operation {
	return []*graphql.Operation{
		// accounts
		r.opRegisterUser(),
		r.opLoginUser(),
		r.opUpdateProfile(),
		r.opMe(),
		r.opUser(),
		r.opUserByUsername(),
		r.opSearchUsers(),

		// posts and comments
		r.opCreatePost(),
		r.opUpdatePost(),
		r.opDeletePost(),
		r.opPost(),
		r.opAllPosts(),
		r.opUserPosts(),
		r.opFeed(),
		r.opCreateComment(),
		r.opDeleteComment(),
		r.opPostComments(),
		r.opTrendingHashtags(),
		r.opPostsByHashtag(),

		// interactions
		r.opLikePost(),
		r.opUnlikePost(),
		r.opLikeComment(),
		r.opUnlikeComment(),
		r.opSharePost(),
		r.opBookmarkPost(),
		r.opRemoveBookmark(),
		r.opFollowUser(),
		r.opUnfollowUser(),
		r.opFollowers(),
		r.opFollowing(),
		r.opPostLikes(),
		r.opPostShares(),
		r.opUserBookmarks(),

		// moderation and notifications
		r.opCreateReport(),
		r.opUpdateReport(),
		r.opMarkNotificationRead(),
		r.opMarkAllNotificationsRead(),
		r.opMyNotifications(),
		r.opUnreadCount(),
	}
}

// fetchUser loads a user inside the given handle (transaction or plain
// db), mapping absence to the taxonomy.
func fetchUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, graphql.NewNotFound("user")
		}
		return nil, graphql.NewDatabaseError(err)
	}
	return &user, nil
}

// fetchPost is fetchUser for posts.
func fetchPost(tx *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := tx.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, graphql.NewNotFound("post")
		}
		return nil, graphql.NewDatabaseError(err)
	}
	return &post, nil
}

// fetchComment is fetchUser for comments.
func fetchComment(tx *gorm.DB, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := tx.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, graphql.NewNotFound("comment")
		}
		return nil, graphql.NewDatabaseError(err)
	}
	return &comment, nil
}

// increment is the counter delta for a newly created interaction. Only
// ever called inside the transaction that created the paired row.
func increment(tx *gorm.DB, model any, id uint, column string) error {
	return tx.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// decrementClamped is the counter delta for a removed interaction,
// floored at 0 to tolerate any historical drift.
func decrementClamped(tx *gorm.DB, model any, id uint, column string) error {
	expr := fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", column, column)
	return tx.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(expr)).Error
}

// wrapDB classifies a bare store error that is not already taxonomized.
// nil passes through so callers can wrap a trailing store call directly.
func wrapDB(err error) error {
	if err == nil {
		return nil
	}
	var app *graphql.AppError
	if errors.As(err, &app) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return graphql.NewIntegrityError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return graphql.NewDatabaseError(err)
}
