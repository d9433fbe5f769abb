// Package maintenance holds the periodic background jobs: pruning stale
// read notifications, refreshing hashtag trending scores and reconciling
// denormalized counters against the interaction tables. Every job is
// idempotent and safe to run while the API serves traffic.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/models"
)

// Service runs the background jobs.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}
}

// Run executes every job once. Failures are logged and do not stop the
// remaining jobs.
func (s *Service) Run(ctx context.Context) {
	if _, err := s.CleanupReadNotifications(ctx, 30*24*time.Hour); err != nil {
		s.logger.Error("notification cleanup failed", "error", err)
	}
	if err := s.RecomputeTrendingScores(ctx, 24*time.Hour); err != nil {
		s.logger.Error("trending recompute failed", "error", err)
	}
	if err := s.ReconcileCounters(ctx); err != nil {
		s.logger.Error("counter reconciliation failed", "error", err)
	}
}

// CleanupReadNotifications deletes read notifications older than the
// given age and reports how many rows went away.
func (s *Service) CleanupReadNotifications(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := s.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.logger.Info("pruned read notifications", "removed", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// RecomputeTrendingScores scores each hashtag as twice its post count
// inside the window plus its all-time post count.
func (s *Service) RecomputeTrendingScores(ctx context.Context, window time.Duration) error {
	since := time.Now().Add(-window)
	return s.db.WithContext(ctx).Exec(`
		UPDATE hashtags SET trending_score = posts_count + 2 * (
			SELECT COUNT(*) FROM post_hashtags
			JOIN posts ON posts.id = post_hashtags.post_id
			WHERE post_hashtags.hashtag_id = hashtags.id
			  AND posts.created_at >= ?
		)`, since).Error
}

// ReconcileCounters recomputes every denormalized counter from the
// interaction tables. The mutation path keeps them consistent
// transactionally; this job repairs any drift left by crashes or manual
// data surgery.
func (s *Service) ReconcileCounters(ctx context.Context) error {
	statements := []string{
		`UPDATE posts SET likes_count = (
			SELECT COUNT(*) FROM likes
			WHERE likes.target_type = 'post' AND likes.target_id = posts.id)`,
		`UPDATE posts SET comments_count = (
			SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`,
		`UPDATE posts SET shares_count = (
			SELECT COUNT(*) FROM shares WHERE shares.post_id = posts.id)`,
		`UPDATE comments SET likes_count = (
			SELECT COUNT(*) FROM likes
			WHERE likes.target_type = 'comment' AND likes.target_id = comments.id)`,
		`UPDATE users SET followers_count = (
			SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)`,
		`UPDATE users SET following_count = (
			SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)`,
		`UPDATE users SET posts_count = (
			SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id)`,
		`UPDATE hashtags SET posts_count = (
			SELECT COUNT(*) FROM post_hashtags WHERE post_hashtags.hashtag_id = hashtags.id)`,
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
