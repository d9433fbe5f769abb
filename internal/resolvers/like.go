package resolvers

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type likePostArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
}

type likeCommentArgs struct {
	CommentID uint `json:"commentId" validate:"required,gt=0"`
}

// LikePayload is the result of like mutations. Created reports whether
// this call inserted the row; a repeat like succeeds with Created=false.
type LikePayload struct {
	Like    *models.Like `json:"like"`
	Success bool         `json:"success"`
	Created bool         `json:"created"`
}

// UndoPayload is the result of unlike/unfollow/remove mutations.
type UndoPayload struct {
	Success bool `json:"success"`
}

var likeConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
	DoNothing: true,
}

func (r *Resolver) opLikePost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "likePost",
		NewArgs: func() any { return &likePostArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*likePostArgs)
			return r.createLike(ctx, p, models.TargetPost, a.PostID)
		},
	}
}

func (r *Resolver) opLikeComment() *graphql.Operation {
	return &graphql.Operation{
		Name:    "likeComment",
		NewArgs: func() any { return &likeCommentArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*likeCommentArgs)
			return r.createLike(ctx, p, models.TargetComment, a.CommentID)
		},
	}
}

// createLike runs the idempotent-create algorithm: constrained insert,
// counter delta and fan-out all on one transaction. The unique index
// closes the check-then-act window; two concurrent likes for the same
// (user, target) produce exactly one row and one increment, the loser
// observing Created=false.
func (r *Resolver) createLike(ctx context.Context, p graphql.Principal, targetType string, targetID uint) (*LikePayload, error) {
	var payload *LikePayload
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ownerID uint
		switch targetType {
		case models.TargetPost:
			post, err := fetchPost(tx, targetID)
			if err != nil {
				return err
			}
			ownerID = post.AuthorID
		case models.TargetComment:
			comment, err := fetchComment(tx, targetID)
			if err != nil {
				return err
			}
			ownerID = comment.AuthorID
		}

		like := models.Like{UserID: p.UserID, TargetType: targetType, TargetID: targetID}
		res := tx.Clauses(likeConflict).Create(&like)
		if res.Error != nil {
			return wrapDB(res.Error)
		}
		if res.RowsAffected == 0 {
			// already liked: return the live row, touch nothing
			if err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
				p.UserID, targetType, targetID).First(&like).Error; err != nil {
				return wrapDB(err)
			}
			payload = &LikePayload{Like: &like, Success: true, Created: false}
			return nil
		}

		var counterErr error
		if targetType == models.TargetPost {
			counterErr = increment(tx, &models.Post{}, targetID, "likes_count")
		} else {
			counterErr = increment(tx, &models.Comment{}, targetID, "likes_count")
		}
		if counterErr != nil {
			return wrapDB(counterErr)
		}

		if ownerID != p.UserID {
			sender, err := fetchUser(tx, p.UserID)
			if err != nil {
				return err
			}
			if err := r.notifier.Notify(tx, ownerID, p.UserID, sender.DisplayName(),
				models.NotificationLike, targetType, targetID); err != nil {
				return wrapDB(err)
			}
		}

		payload = &LikePayload{Like: &like, Success: true, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *Resolver) opUnlikePost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "unlikePost",
		NewArgs: func() any { return &likePostArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*likePostArgs)
			return r.deleteLike(ctx, p, models.TargetPost, a.PostID)
		},
	}
}

func (r *Resolver) opUnlikeComment() *graphql.Operation {
	return &graphql.Operation{
		Name:    "unlikeComment",
		NewArgs: func() any { return &likeCommentArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*likeCommentArgs)
			return r.deleteLike(ctx, p, models.TargetComment, a.CommentID)
		},
	}
}

// deleteLike is the undo path. Unlike the create path it is not
// idempotent: removing a like that does not exist is NOT_FOUND. The
// asymmetry is intentional.
func (r *Resolver) deleteLike(ctx context.Context, p graphql.Principal, targetType string, targetID uint) (*UndoPayload, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
			p.UserID, targetType, targetID).Delete(&models.Like{})
		if res.Error != nil {
			return wrapDB(res.Error)
		}
		if res.RowsAffected == 0 {
			return graphql.NewNotFound("like")
		}
		if targetType == models.TargetPost {
			return wrapDB(decrementClamped(tx, &models.Post{}, targetID, "likes_count"))
		}
		return wrapDB(decrementClamped(tx, &models.Comment{}, targetID, "likes_count"))
	})
	if err != nil {
		return nil, err
	}
	return &UndoPayload{Success: true}, nil
}

type postLikesArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
}

func (r *Resolver) opPostLikes() *graphql.Operation {
	return &graphql.Operation{
		Name:           "postLikes",
		AllowAnonymous: true,
		NewArgs:        func() any { return &postLikesArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*postLikesArgs)
			var likes []models.Like
			err := r.db.WithContext(ctx).
				Where("target_type = ? AND target_id = ?", models.TargetPost, a.PostID).
				Order("created_at DESC").
				Find(&likes).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, wrapDB(err)
			}
			return likes, nil
		},
	}
}
