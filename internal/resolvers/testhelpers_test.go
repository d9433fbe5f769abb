package resolvers

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
	"github.com/nexus-social/backend/internal/repositories"
)

// newTestResolver builds a resolver set on an in-memory store with the
// production notifier. The single connection serializes transactions, so
// concurrency tests exercise the unique constraints rather than driver
// locking.
func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	db := newTestDB(t)
	return New(db,
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresNotificationRepository(db),
		NewNotifier(),
		Config{JWTSecret: "test-secret"},
	)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Hashtag{},
		&models.PostHashtag{},
		&models.Like{},
		&models.Share{},
		&models.Bookmark{},
		&models.Follow{},
		&models.Notification{},
		&models.Report{},
	))
	return db
}

var userSeq int

func seedUser(t *testing.T, r *Resolver, username string) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s%d@example.com", username, userSeq),
		Password: "x",
	}
	require.NoError(t, r.db.Create(user).Error)
	return user
}

func seedStaff(t *testing.T, r *Resolver, username string) *models.User {
	t.Helper()
	user := seedUser(t, r, username)
	user.IsStaff = true
	require.NoError(t, r.db.Save(user).Error)
	return user
}

func seedPost(t *testing.T, r *Resolver, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: author.ID, Content: "hello world", Visibility: models.VisibilityPublic}
	require.NoError(t, r.db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, r *Resolver, post *models.Post, author *models.User) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Content: "nice"}
	require.NoError(t, r.db.Create(comment).Error)
	return comment
}

func principalFor(u *models.User) graphql.Principal {
	return graphql.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Staff:  u.IsStaff,
		Key:    fmt.Sprintf("user:%d", u.ID),
	}
}

func countRows(t *testing.T, r *Resolver, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func reloadPost(t *testing.T, r *Resolver, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, r.db.First(&post, id).Error)
	return &post
}

func reloadUser(t *testing.T, r *Resolver, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, r.db.First(&user, id).Error)
	return &user
}

func appCode(t *testing.T, err error) graphql.Code {
	t.Helper()
	require.Error(t, err)
	return graphql.Translate(err).Code
}
