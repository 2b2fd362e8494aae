package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	server "github.com/taskroster/taskroster/internal"
	"github.com/taskroster/taskroster/internal/auth"
	"github.com/taskroster/taskroster/internal/config"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/permission"
	permissionrepo "github.com/taskroster/taskroster/internal/permission/repositoryimpl"
	"github.com/taskroster/taskroster/internal/schema"
	"github.com/taskroster/taskroster/pkg/clog"
	"github.com/taskroster/taskroster/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Setup database
	db, err := database.Open(&env.DatabaseEnv)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if err := schema.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	if err := permission.Seed(ctx, permissionrepo.NewGormRepository(db)); err != nil {
		slog.Error("failed to seed permissions", "error", err)
		os.Exit(1)
	}

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(ctx, env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup redis
	redisClient := auth.NewRedisClient(&env.RedisEnv)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Warn("redis is not reachable, token refresh will fail", "addr", env.RedisEnv.Addr, "error", err)
	}

	app := server.NewApp(env, db, store, redisClient)

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		if err := app.Recorder.Run(ctx); err != nil {
			slog.Error("activity recorder stopped", "error", err)
		}
	})
	wg.Go(func() {
		if err := app.Server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	})

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	wg.Wait()
}
