// Package main is the entry point for the CeylonRover API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/cache"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/config"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/database"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/handlers"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/moderation"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/router"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/session"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/storage"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient)
	feedCache := cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)

	userStore := store.NewUserStore(db)
	blogStore := store.NewBlogStore(db)
	snapStore := store.NewTravsnapStore(db)
	ledgerStore := store.NewModerationStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	engagementStore := store.NewEngagementStore(db)
	mediaStore := store.NewMediaStore(db)

	// S3-compatible object storage is optional; uploads return 501 without it.
	var storageClient *storage.Client
	if cfg.StorageConfigured() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	workflow := moderation.New(
		db, blogStore, snapStore, ledgerStore, assignmentStore, userStore,
		moderation.NewSuperAdminResolver(userStore), feedCache, logger,
	)

	h := router.Handlers{
		Auth:        handlers.NewAuth(sessionStore, userStore),
		Blogs:       handlers.NewBlogs(blogStore, workflow, feedCache),
		Travsnaps:   handlers.NewTravsnaps(snapStore, workflow, feedCache),
		Moderation:  handlers.NewModeration(workflow, blogStore, snapStore),
		Assignments: handlers.NewAssignments(workflow, userStore, blogStore, snapStore),
		Engagement:  handlers.NewEngagement(engagementStore, blogStore),
		Media:       handlers.NewMedia(mediaStore, blogStore, snapStore, storageClient),
	}

	r := router.New(sessionStore, h)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
