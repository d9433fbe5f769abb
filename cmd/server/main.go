package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/nexus-social/backend/internal/maintenance"
	"github.com/nexus-social/backend/internal/router"
	"github.com/nexus-social/backend/pkg/config"
	"github.com/nexus-social/backend/pkg/firebase"
)

func main() {
	cfg := config.Load()

	var handler slog.Handler
	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()

	var firebaseAuthClient *auth.Client
	if cfg.AuthProvider == "firebase" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	}

	e := echo.New()
	e.HideBanner = true

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db.Postgres, firebaseAuthClient, cfg, logger)

	jobs := maintenance.NewService(db.Postgres, logger)
	go func() {
		ticker := time.NewTicker(cfg.MaintenanceInterval)
		defer ticker.Stop()
		for range ticker.C {
			jobs.Run(ctx)
		}
	}()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
