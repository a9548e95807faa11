// Package server wires the resource server: PostgreSQL with migrations,
// S3 blob storage and the REST API, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/dmitrijs2005/memokeeper/internal/server/config"
	"github.com/dmitrijs2005/memokeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/memokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memokeeper/internal/server/services"
	"github.com/dmitrijs2005/memokeeper/internal/server/storage"
	"github.com/gin-gonic/gin"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	resources *services.ResourceService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := storage.NewS3Storage(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage bucket error: %w", err)
	}

	rs := services.NewResourceService(db, rm, blobs, c.MaxUploadSizeMiB, logger)

	return &App{config: c, logger: logger, db: db, resources: rs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "max_upload_mib", app.config.MaxUploadSizeMiB)

	app.initSignalHandler(cancelFunc)

	if logging.ParseLevel(app.config.LogLevel) == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.NewHandler(app.resources, app.logger))
	srv := httpapi.NewHTTPServer(app.config.Addr, router, app.config.ShutdownTimeout, app.logger)

	err := srv.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
