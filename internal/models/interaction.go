package models

import "time"

// Target types for polymorphic interactions (likes, reports).
const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetUser    = "user"
)

// Share types.
const (
	ShareRepost = "repost"
	ShareQuote  = "quote"
	SharePlain  = "share"
)

// Like is a like on a post or comment. The composite unique index is the
// store-level guarantee that at most one live like exists per
// (user, target); concurrent creates race on it, not on an application
// check.
type Like struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_likes_user_target"`
	TargetType string    `json:"target_type" gorm:"size:20;uniqueIndex:idx_likes_user_target;index:idx_likes_target"`
	TargetID   uint      `json:"target_id" gorm:"uniqueIndex:idx_likes_user_target;index:idx_likes_target"`
	CreatedAt  time.Time `json:"created_at"`
}

// Share is a repost/quote of a post. Unique per (user, post); there is no
// unshare mutation, shares are create-only.
type Share struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_shares_user_post"`
	PostID    uint      `json:"post_id" gorm:"uniqueIndex:idx_shares_user_post;index"`
	ShareType string    `json:"share_type" gorm:"size:10;default:repost"`
	Comment   string    `json:"comment" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is a saved post. Unique per (user, post); carries no counter
// and produces no notification.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_bookmarks_user_post;index"`
	PostID    uint      `json:"post_id" gorm:"uniqueIndex:idx_bookmarks_user_post"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a follower -> following edge, unique per pair.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"uniqueIndex:idx_follower_following;index"`
	FollowingID uint      `json:"following_id" gorm:"uniqueIndex:idx_follower_following;index"`
	CreatedAt   time.Time `json:"created_at"`
}
