package resolvers

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type followArgs struct {
	UserID uint `json:"userId" validate:"required,gt=0"`
}

// FollowPayload is the result of followUser.
type FollowPayload struct {
	Follow  *models.Follow `json:"follow"`
	Success bool           `json:"success"`
	Created bool           `json:"created"`
}

// followUser creates the follow edge and moves both users' counters in
// the same transaction. Following an already-followed user is a no-op
// with Created=false; following yourself is a validation error.
func (r *Resolver) opFollowUser() *graphql.Operation {
	return &graphql.Operation{
		Name:    "followUser",
		NewArgs: func() any { return &followArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*followArgs)
			if a.UserID == p.UserID {
				return nil, graphql.NewValidationError("userId", "cannot follow yourself")
			}
			var payload *FollowPayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				target, err := fetchUser(tx, a.UserID)
				if err != nil {
					return err
				}

				follow := models.Follow{FollowerID: p.UserID, FollowingID: a.UserID}
				res := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
					DoNothing: true,
				}).Create(&follow)
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				if res.RowsAffected == 0 {
					if err := tx.Where("follower_id = ? AND following_id = ?", p.UserID, a.UserID).
						First(&follow).Error; err != nil {
						return wrapDB(err)
					}
					payload = &FollowPayload{Follow: &follow, Success: true, Created: false}
					return nil
				}

				if err := increment(tx, &models.User{}, p.UserID, "following_count"); err != nil {
					return wrapDB(err)
				}
				if err := increment(tx, &models.User{}, a.UserID, "followers_count"); err != nil {
					return wrapDB(err)
				}

				sender, err := fetchUser(tx, p.UserID)
				if err != nil {
					return err
				}
				if err := r.notifier.Notify(tx, target.ID, p.UserID, sender.DisplayName(),
					models.NotificationFollow, models.TargetUser, target.ID); err != nil {
					return wrapDB(err)
				}

				payload = &FollowPayload{Follow: &follow, Success: true, Created: true}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}

func (r *Resolver) opFollowers() *graphql.Operation {
	return &graphql.Operation{
		Name:           "followers",
		AllowAnonymous: true,
		NewArgs:        func() any { return &followArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*followArgs)
			if _, err := fetchUser(r.db.WithContext(ctx), a.UserID); err != nil {
				return nil, err
			}
			users, err := r.users.Followers(ctx, a.UserID)
			if err != nil {
				return nil, wrapDB(err)
			}
			return users, nil
		},
	}
}

func (r *Resolver) opFollowing() *graphql.Operation {
	return &graphql.Operation{
		Name:           "following",
		AllowAnonymous: true,
		NewArgs:        func() any { return &followArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*followArgs)
			if _, err := fetchUser(r.db.WithContext(ctx), a.UserID); err != nil {
				return nil, err
			}
			users, err := r.users.Following(ctx, a.UserID)
			if err != nil {
				return nil, wrapDB(err)
			}
			return users, nil
		},
	}
}

// unfollowUser deletes the edge and restores both counters; absent edge
// is NOT_FOUND, mirroring the unlike asymmetry.
func (r *Resolver) opUnfollowUser() *graphql.Operation {
	return &graphql.Operation{
		Name:    "unfollowUser",
		NewArgs: func() any { return &followArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*followArgs)
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				res := tx.Where("follower_id = ? AND following_id = ?", p.UserID, a.UserID).
					Delete(&models.Follow{})
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				if res.RowsAffected == 0 {
					return graphql.NewNotFound("follow")
				}
				if err := decrementClamped(tx, &models.User{}, p.UserID, "following_count"); err != nil {
					return wrapDB(err)
				}
				return wrapDB(decrementClamped(tx, &models.User{}, a.UserID, "followers_count"))
			})
			if err != nil {
				return nil, err
			}
			return &UndoPayload{Success: true}, nil
		},
	}
}
