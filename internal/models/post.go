package models

import "time"

// Post visibility levels.
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

// Post is a user post. likes_count, comments_count and shares_count are
// denormalized from the interaction tables and only ever change in the
// same transaction as the interaction row they mirror. views_count is a
// best-effort read counter with no consistency requirement.
type Post struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	AuthorID   uint   `json:"author_id" gorm:"index:idx_posts_author_created"`
	Content    string `json:"content" gorm:"size:2200"`
	Visibility string `json:"visibility" gorm:"size:10;default:public;index"`
	IsPinned   bool   `json:"is_pinned" gorm:"default:false"`

	LikesCount    int `json:"likes_count" gorm:"default:0"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`
	SharesCount   int `json:"shares_count" gorm:"default:0"`
	ViewsCount    int `json:"views_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_posts_author_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a comment on a post, optionally a reply to another comment.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"index"`
	AuthorID   uint      `json:"author_id" gorm:"index"`
	ParentID   *uint     `json:"parent_id"`
	Content    string    `json:"content" gorm:"size:1000"`
	LikesCount int       `json:"likes_count" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Hashtag carries a posts_count kept in the createPost transaction and a
// trending_score recomputed periodically by the maintenance job.
type Hashtag struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:100;uniqueIndex"`
	PostsCount    int       `json:"posts_count" gorm:"default:0;index"`
	TrendingScore int       `json:"trending_score" gorm:"default:0;index"`
	CreatedAt     time.Time `json:"created_at"`
}

// PostHashtag links a post to a hashtag.
type PostHashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"uniqueIndex:idx_post_hashtag"`
	HashtagID uint      `json:"hashtag_id" gorm:"uniqueIndex:idx_post_hashtag;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
