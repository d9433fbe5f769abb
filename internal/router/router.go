package router

import (
	"log"
	"log/slog"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/handlers"
	"github.com/nexus-social/backend/internal/models"
	"github.com/nexus-social/backend/internal/repositories"
	"github.com/nexus-social/backend/internal/resolvers"
	"github.com/nexus-social/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes migrates the schema, wires repositories, resolvers and the
// pipeline, and mounts the endpoint. firebaseAuthClient may be nil; it is
// used only when AUTH_PROVIDER=firebase.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, firebaseAuthClient *auth.Client, cfg *config.Config, logger *slog.Logger) {
	err := pgdb.AutoMigrate(
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
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	logger.Info("auto-migrations completed")

	e.GET("/health", handlers.HealthCheck)

	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	resolver := resolvers.New(pgdb, userRepo, postRepo, notificationRepo,
		resolvers.NewNotifier(), resolvers.Config{JWTSecret: cfg.JWTSecret})

	var verifier graphql.Verifier
	if cfg.AuthProvider == "firebase" && firebaseAuthClient != nil {
		verifier = graphql.NewFirebaseVerifier(firebaseAuthClient, userRepo)
		logger.Info("authentication provider: firebase")
	} else {
		verifier = graphql.NewJWTVerifier(cfg.JWTSecret)
		logger.Info("authentication provider: jwt")
	}

	pipeline := graphql.NewPipeline(
		graphql.NewGuard(verifier),
		graphql.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax, logger),
		graphql.NewValidator(),
		cfg.RequestTimeout,
		logger,
	)
	ops := resolver.Operations()
	pipeline.Register(ops...)

	e.POST("/graphql", handlers.NewGraphQLHandler(pipeline).Handle)
	logger.Info("graphql endpoint configured", "operations", len(ops))
}
