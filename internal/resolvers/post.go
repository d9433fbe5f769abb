package resolvers

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type createPostArgs struct {
	Content    string   `json:"content" validate:"required,max=2200"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=public followers private"`
	Hashtags   []string `json:"hashtags" validate:"omitempty,max=30,dive,min=1,max=50"`
}

// PostPayload is the result of post mutations.
type PostPayload struct {
	Post    *models.Post `json:"post"`
	Success bool         `json:"success"`
}

// normalizeHashtags lowercases, strips a leading '#' and de-duplicates
// while preserving first-seen order.
func normalizeHashtags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		name := strings.ToLower(strings.TrimSpace(tag))
		name = strings.TrimPrefix(name, "#")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// createPost writes the post, links its hashtags (creating any new ones)
// and bumps the author's post counter in one transaction.
func (r *Resolver) opCreatePost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "createPost",
		NewArgs: func() any { return &createPostArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*createPostArgs)
			if a.Visibility == "" {
				a.Visibility = models.VisibilityPublic
			}
			var payload *PostPayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				post := models.Post{
					AuthorID:   p.UserID,
					Content:    a.Content,
					Visibility: a.Visibility,
				}
				if err := tx.Create(&post).Error; err != nil {
					return wrapDB(err)
				}

				for _, name := range normalizeHashtags(a.Hashtags) {
					hashtag := models.Hashtag{Name: name}
					res := tx.Clauses(clause.OnConflict{
						Columns:   []clause.Column{{Name: "name"}},
						DoNothing: true,
					}).Create(&hashtag)
					if res.Error != nil {
						return wrapDB(res.Error)
					}
					if res.RowsAffected == 0 {
						if err := tx.Where("name = ?", name).First(&hashtag).Error; err != nil {
							return wrapDB(err)
						}
					}
					link := models.PostHashtag{PostID: post.ID, HashtagID: hashtag.ID}
					if err := tx.Create(&link).Error; err != nil {
						return wrapDB(err)
					}
					if err := increment(tx, &models.Hashtag{}, hashtag.ID, "posts_count"); err != nil {
						return wrapDB(err)
					}
				}

				if err := increment(tx, &models.User{}, p.UserID, "posts_count"); err != nil {
					return wrapDB(err)
				}
				payload = &PostPayload{Post: &post, Success: true}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}

type updatePostArgs struct {
	PostID     uint    `json:"postId" validate:"required,gt=0"`
	Content    *string `json:"content" validate:"omitempty,min=1,max=2200"`
	Visibility *string `json:"visibility" validate:"omitempty,oneof=public followers private"`
	IsPinned   *bool   `json:"isPinned"`
}

// updatePost applies only the fields named here, and only for the
// author. Counters are never writable through this operation.
func (r *Resolver) opUpdatePost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "updatePost",
		NewArgs: func() any { return &updatePostArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*updatePostArgs)
			post, err := fetchPost(r.db.WithContext(ctx), a.PostID)
			if err != nil {
				return nil, err
			}
			if post.AuthorID != p.UserID {
				return nil, graphql.NewPermissionDenied()
			}
			if a.Content != nil {
				post.Content = *a.Content
			}
			if a.Visibility != nil {
				post.Visibility = *a.Visibility
			}
			if a.IsPinned != nil {
				post.IsPinned = *a.IsPinned
			}
			if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
				return nil, wrapDB(err)
			}
			return &PostPayload{Post: post, Success: true}, nil
		},
	}
}

type deletePostArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
}

// deletePost removes the post and everything hanging off it: comments,
// likes, shares, bookmarks and hashtag links, with the hashtag and
// author counters restored in the same transaction.
func (r *Resolver) opDeletePost() *graphql.Operation {
	return &graphql.Operation{
		Name:    "deletePost",
		NewArgs: func() any { return &deletePostArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*deletePostArgs)
			post, err := fetchPost(r.db.WithContext(ctx), a.PostID)
			if err != nil {
				return nil, err
			}
			if post.AuthorID != p.UserID {
				return nil, graphql.NewPermissionDenied()
			}
			err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				var links []models.PostHashtag
				if err := tx.Where("post_id = ?", post.ID).Find(&links).Error; err != nil {
					return wrapDB(err)
				}
				for _, link := range links {
					if err := decrementClamped(tx, &models.Hashtag{}, link.HashtagID, "posts_count"); err != nil {
						return wrapDB(err)
					}
				}
				if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostHashtag{}).Error; err != nil {
					return wrapDB(err)
				}
				if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
					return wrapDB(err)
				}
				if err := tx.Where("target_type = ? AND target_id = ?", models.TargetPost, post.ID).
					Delete(&models.Like{}).Error; err != nil {
					return wrapDB(err)
				}
				if err := tx.Where("post_id = ?", post.ID).Delete(&models.Share{}).Error; err != nil {
					return wrapDB(err)
				}
				if err := tx.Where("post_id = ?", post.ID).Delete(&models.Bookmark{}).Error; err != nil {
					return wrapDB(err)
				}
				res := tx.Where("id = ? AND author_id = ?", post.ID, p.UserID).Delete(&models.Post{})
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				if res.RowsAffected == 0 {
					return graphql.NewNotFound("post")
				}
				return wrapDB(decrementClamped(tx, &models.User{}, p.UserID, "posts_count"))
			})
			if err != nil {
				return nil, err
			}
			return &UndoPayload{Success: true}, nil
		},
	}
}

type postArgs struct {
	PostID uint `json:"postId" validate:"required,gt=0"`
}

// post returns one post and counts the view. The view counter rides
// outside the read and tolerates drift.
func (r *Resolver) opPost() *graphql.Operation {
	return &graphql.Operation{
		Name:           "post",
		AllowAnonymous: true,
		NewArgs:        func() any { return &postArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*postArgs)
			post, err := fetchPost(r.db.WithContext(ctx), a.PostID)
			if err != nil {
				return nil, err
			}
			if err := r.posts.IncrementViews(ctx, post.ID); err != nil {
				return nil, wrapDB(err)
			}
			post.ViewsCount++
			return post, nil
		},
	}
}

type listPostsArgs struct {
	First int `json:"first" validate:"omitempty,gt=0,max=100"`
	Skip  int `json:"skip" validate:"omitempty,min=0"`
}

func (r *Resolver) opAllPosts() *graphql.Operation {
	return &graphql.Operation{
		Name:           "allPosts",
		AllowAnonymous: true,
		NewArgs:        func() any { return &listPostsArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*listPostsArgs)
			if a.First == 0 {
				a.First = 20
			}
			posts, err := r.posts.List(ctx, models.VisibilityPublic, a.First, a.Skip)
			if err != nil {
				return nil, wrapDB(err)
			}
			return posts, nil
		},
	}
}

type userPostsArgs struct {
	UserID uint `json:"userId" validate:"required,gt=0"`
	First  int  `json:"first" validate:"omitempty,gt=0,max=100"`
	Skip   int  `json:"skip" validate:"omitempty,min=0"`
}

func (r *Resolver) opUserPosts() *graphql.Operation {
	return &graphql.Operation{
		Name:           "userPosts",
		AllowAnonymous: true,
		NewArgs:        func() any { return &userPostsArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*userPostsArgs)
			if a.First == 0 {
				a.First = 20
			}
			if _, err := fetchUser(r.db.WithContext(ctx), a.UserID); err != nil {
				return nil, err
			}
			posts, err := r.posts.ListByAuthor(ctx, a.UserID, a.First, a.Skip)
			if err != nil {
				return nil, wrapDB(err)
			}
			return posts, nil
		},
	}
}

func (r *Resolver) opFeed() *graphql.Operation {
	return &graphql.Operation{
		Name:    "feed",
		NewArgs: func() any { return &listPostsArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*listPostsArgs)
			if a.First == 0 {
				a.First = 20
			}
			posts, err := r.posts.Feed(ctx, p.UserID, a.First, a.Skip)
			if err != nil {
				return nil, wrapDB(err)
			}
			return posts, nil
		},
	}
}

type trendingHashtagsArgs struct {
	First int `json:"first" validate:"omitempty,gt=0,max=50"`
}

func (r *Resolver) opTrendingHashtags() *graphql.Operation {
	return &graphql.Operation{
		Name:           "trendingHashtags",
		AllowAnonymous: true,
		NewArgs:        func() any { return &trendingHashtagsArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*trendingHashtagsArgs)
			if a.First == 0 {
				a.First = 10
			}
			hashtags, err := r.posts.TrendingHashtags(ctx, a.First)
			if err != nil {
				return nil, wrapDB(err)
			}
			return hashtags, nil
		},
	}
}

type postsByHashtagArgs struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	First int    `json:"first" validate:"omitempty,gt=0,max=100"`
	Skip  int    `json:"skip" validate:"omitempty,min=0"`
}

func (r *Resolver) opPostsByHashtag() *graphql.Operation {
	return &graphql.Operation{
		Name:           "postsByHashtag",
		AllowAnonymous: true,
		NewArgs:        func() any { return &postsByHashtagArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*postsByHashtagArgs)
			if a.First == 0 {
				a.First = 20
			}
			name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(a.Name), "#"))
			posts, err := r.posts.ListByHashtag(ctx, name, a.First, a.Skip)
			if err != nil {
				return nil, wrapDB(err)
			}
			return posts, nil
		},
	}
}
