package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/models"
)

// PostRepository defines the read-side post/comment/hashtag operations.
// These carry no consistency risk; all counter-bearing writes live in the
// interaction resolvers.
type PostRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	IncrementViews(ctx context.Context, id uint) error
	List(ctx context.Context, visibility string, first, skip int) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, first, skip int) ([]models.Post, error)
	Feed(ctx context.Context, userID uint, first, skip int) ([]models.Post, error)
	CommentsByPost(ctx context.Context, postID uint, first, skip int) ([]models.Comment, error)
	TrendingHashtags(ctx context.Context, limit int) ([]models.Hashtag, error)
	ListByHashtag(ctx context.Context, name string, first, skip int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository on GORM.
type PostgresPostRepository struct {
	db *gorm.DB
}

func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// IncrementViews bumps the view counter; no read-back, drift is tolerated.
func (r *PostgresPostRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *PostgresPostRepository) List(ctx context.Context, visibility string, first, skip int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("visibility = ?", visibility).
		Order("created_at DESC").
		Offset(skip).Limit(first).
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) ListByAuthor(ctx context.Context, authorID uint, first, skip int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Offset(skip).Limit(first).
		Find(&posts).Error
	return posts, err
}

// Feed returns public and followers-only posts from followed users plus
// the user's own posts.
func (r *PostgresPostRepository) Feed(ctx context.Context, userID uint, first, skip int) ([]models.Post, error) {
	var posts []models.Post
	followed := r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("(author_id IN (?) AND visibility IN ?) OR author_id = ?",
			followed, []string{models.VisibilityPublic, models.VisibilityFollowers}, userID).
		Order("created_at DESC").
		Offset(skip).Limit(first).
		Find(&posts).Error
	return posts, err
}

// CommentsByPost returns top-level comments in thread order.
func (r *PostgresPostRepository) CommentsByPost(ctx context.Context, postID uint, first, skip int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC").
		Offset(skip).Limit(first).
		Find(&comments).Error
	return comments, err
}

func (r *PostgresPostRepository) TrendingHashtags(ctx context.Context, limit int) ([]models.Hashtag, error) {
	var hashtags []models.Hashtag
	err := r.db.WithContext(ctx).
		Order("trending_score DESC, posts_count DESC, name ASC").
		Limit(limit).
		Find(&hashtags).Error
	return hashtags, err
}

func (r *PostgresPostRepository) ListByHashtag(ctx context.Context, name string, first, skip int) ([]models.Post, error) {
	var posts []models.Post
	tagged := r.db.Table("post_hashtags").
		Select("post_hashtags.post_id").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("hashtags.name = ?", name)
	err := r.db.WithContext(ctx).
		Where("id IN (?) AND visibility = ?", tagged, models.VisibilityPublic).
		Order("created_at DESC").
		Offset(skip).Limit(first).
		Find(&posts).Error
	return posts, err
}
