package resolvers

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type createCommentArgs struct {
	PostID   uint   `json:"postId" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,max=1000"`
	ParentID *uint  `json:"parentId" validate:"omitempty,gt=0"`
}

// CommentPayload is the result of createComment.
type CommentPayload struct {
	Comment *models.Comment `json:"comment"`
	Success bool            `json:"success"`
}

// createComment writes the comment, bumps the post's comment counter and
// fans out to the post author (and, for replies, the parent comment's
// author) in one transaction.
func (r *Resolver) opCreateComment() *graphql.Operation {
	return &graphql.Operation{
		Name:    "createComment",
		NewArgs: func() any { return &createCommentArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*createCommentArgs)
			var payload *CommentPayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				post, err := fetchPost(tx, a.PostID)
				if err != nil {
					return err
				}

				var parent *models.Comment
				if a.ParentID != nil {
					parent, err = fetchComment(tx, *a.ParentID)
					if err != nil {
						return err
					}
					if parent.PostID != post.ID {
						return graphql.NewValidationError("parentId", "parent comment belongs to a different post")
					}
				}

				comment := models.Comment{
					PostID:   post.ID,
					AuthorID: p.UserID,
					ParentID: a.ParentID,
					Content:  a.Content,
				}
				if err := tx.Create(&comment).Error; err != nil {
					return wrapDB(err)
				}
				if err := increment(tx, &models.Post{}, post.ID, "comments_count"); err != nil {
					return wrapDB(err)
				}

				var sender *models.User
				if post.AuthorID != p.UserID {
					if sender, err = fetchUser(tx, p.UserID); err != nil {
						return err
					}
					if err := r.notifier.Notify(tx, post.AuthorID, p.UserID, sender.DisplayName(),
						models.NotificationComment, models.TargetPost, post.ID); err != nil {
						return wrapDB(err)
					}
				}
				if parent != nil && parent.AuthorID != p.UserID && parent.AuthorID != post.AuthorID {
					if sender == nil {
						if sender, err = fetchUser(tx, p.UserID); err != nil {
							return err
						}
					}
					if err := r.notifier.Notify(tx, parent.AuthorID, p.UserID, sender.DisplayName(),
						models.NotificationReply, models.TargetComment, parent.ID); err != nil {
						return wrapDB(err)
					}
				}

				payload = &CommentPayload{Comment: &comment, Success: true}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}

type deleteCommentArgs struct {
	CommentID uint `json:"commentId" validate:"required,gt=0"`
}

// deleteComment removes a comment the caller owns. The ownership check
// runs before the transaction opens.
func (r *Resolver) opDeleteComment() *graphql.Operation {
	return &graphql.Operation{
		Name:    "deleteComment",
		NewArgs: func() any { return &deleteCommentArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*deleteCommentArgs)
			comment, err := fetchComment(r.db.WithContext(ctx), a.CommentID)
			if err != nil {
				return nil, err
			}
			if comment.AuthorID != p.UserID {
				return nil, graphql.NewPermissionDenied()
			}
			err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				res := tx.Where("id = ? AND author_id = ?", a.CommentID, p.UserID).
					Delete(&models.Comment{})
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				if res.RowsAffected == 0 {
					return graphql.NewNotFound("comment")
				}
				// replies to the deleted comment stay and remain counted
				return wrapDB(decrementClamped(tx, &models.Post{}, comment.PostID, "comments_count"))
			})
			if err != nil {
				return nil, err
			}
			return &UndoPayload{Success: true}, nil
		},
	}
}

type postCommentsArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
	First  int  `json:"first" validate:"omitempty,gt=0,max=100"`
	Skip   int  `json:"skip" validate:"omitempty,min=0"`
}

func (r *Resolver) opPostComments() *graphql.Operation {
	return &graphql.Operation{
		Name:           "postComments",
		AllowAnonymous: true,
		NewArgs:        func() any { return &postCommentsArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*postCommentsArgs)
			if a.First == 0 {
				a.First = 20
			}
			comments, err := r.posts.CommentsByPost(ctx, a.PostID, a.First, a.Skip)
			if err != nil {
				return nil, wrapDB(err)
			}
			return comments, nil
		},
	}
}
