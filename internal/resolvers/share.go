package resolvers

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type sharePostArgs struct {
	PostID    uint   `json:"postId" validate:"required,gt=0"`
	ShareType string `json:"shareType" validate:"omitempty,oneof=repost quote share"`
	Comment   string `json:"comment" validate:"max=500"`
}

// SharePayload is the result of sharePost.
type SharePayload struct {
	Share   *models.Share `json:"share"`
	Success bool          `json:"success"`
	Created bool          `json:"created"`
}

// sharePost is an idempotent create like likePost. There is no unshare
// mutation; shares are create-only.
func (r *Resolver) opSharePost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "sharePost",
		NewArgs: func() any { return &sharePostArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*sharePostArgs)
			if a.ShareType == "" {
				a.ShareType = models.ShareRepost
			}
			var payload *SharePayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				post, err := fetchPost(tx, a.PostID)
				if err != nil {
					return err
				}

				share := models.Share{
					UserID:    p.UserID,
					PostID:    a.PostID,
					ShareType: a.ShareType,
					Comment:   a.Comment,
				}
				res := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
					DoNothing: true,
				}).Create(&share)
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				if res.RowsAffected == 0 {
					if err := tx.Where("user_id = ? AND post_id = ?", p.UserID, a.PostID).
						First(&share).Error; err != nil {
						return wrapDB(err)
					}
					payload = &SharePayload{Share: &share, Success: true, Created: false}
					return nil
				}

				if err := increment(tx, &models.Post{}, a.PostID, "shares_count"); err != nil {
					return wrapDB(err)
				}
				if post.AuthorID != p.UserID {
					sender, err := fetchUser(tx, p.UserID)
					if err != nil {
						return err
					}
					if err := r.notifier.Notify(tx, post.AuthorID, p.UserID, sender.DisplayName(),
						models.NotificationShare, models.TargetPost, post.ID); err != nil {
						return wrapDB(err)
					}
				}
				payload = &SharePayload{Share: &share, Success: true, Created: true}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}

type bookmarkArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
}

// BookmarkPayload is the result of bookmarkPost.
type BookmarkPayload struct {
	Bookmark *models.Bookmark `json:"bookmark"`
	Success  bool             `json:"success"`
	Created  bool             `json:"created"`
}

// bookmarkPost is an idempotent create with no counter and no fan-out.
func (r *Resolver) opBookmarkPost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "bookmarkPost",
		NewArgs: func() any { return &bookmarkArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*bookmarkArgs)
			var payload *BookmarkPayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if _, err := fetchPost(tx, a.PostID); err != nil {
					return err
				}
				bookmark := models.Bookmark{UserID: p.UserID, PostID: a.PostID}
				res := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
					DoNothing: true,
				}).Create(&bookmark)
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				created := res.RowsAffected == 1
				if !created {
					if err := tx.Where("user_id = ? AND post_id = ?", p.UserID, a.PostID).
						First(&bookmark).Error; err != nil {
						return wrapDB(err)
					}
				}
				payload = &BookmarkPayload{Bookmark: &bookmark, Success: true, Created: created}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}

func (r *Resolver) opRemoveBookmark() *graphql.Operation {
	return &graphql.Operation{
		Name:    "removeBookmark",
		NewArgs: func() any { return &bookmarkArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*bookmarkArgs)
			res := r.db.WithContext(ctx).
				Where("user_id = ? AND post_id = ?", p.UserID, a.PostID).
				Delete(&models.Bookmark{})
			if res.Error != nil {
				return nil, wrapDB(res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, graphql.NewNotFound("bookmark")
			}
			return &UndoPayload{Success: true}, nil
		},
	}
}

type postSharesArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
}

func (r *Resolver) opPostShares() *graphql.Operation {
	return &graphql.Operation{
		Name:           "postShares",
		AllowAnonymous: true,
		NewArgs:        func() any { return &postSharesArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*postSharesArgs)
			var shares []models.Share
			err := r.db.WithContext(ctx).
				Where("post_id = ?", a.PostID).
				Order("created_at DESC").
				Find(&shares).Error
			if err != nil {
				return nil, wrapDB(err)
			}
			return shares, nil
		},
	}
}

func (r *Resolver) opUserBookmarks() *graphql.Operation {
	return &graphql.Operation{
		Name: "userBookmarks",
		Resolve: func(ctx context.Context, p graphql.Principal, _ any) (any, error) {
			var bookmarks []models.Bookmark
			err := r.db.WithContext(ctx).
				Where("user_id = ?", p.UserID).
				Order("created_at DESC").
				Find(&bookmarks).Error
			if err != nil {
				return nil, wrapDB(err)
			}
			return bookmarks, nil
		},
	}
}
