package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/client/client"
	"github.com/dmitrijs2005/memokeeper/internal/client/config"
	"github.com/dmitrijs2005/memokeeper/internal/client/models"
	"github.com/dmitrijs2005/memokeeper/internal/client/services"
	"github.com/dmitrijs2005/memokeeper/internal/client/store"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// statusService is the part of services.SystemStatusService the CLI uses.
type statusService interface {
	services.LimitProvider
	Ping(ctx context.Context) error
	Refresh(ctx context.Context) (*models.SystemStatus, error)
}

type App struct {
	config    *config.Config
	client    client.Client
	resources services.ResourceService
	status    statusService
	logger    logging.Logger

	reader *bufio.Reader
	out    io.Writer
	// outFd is checked for a terminal before drawing a progress bar.
	outFd int

	modeMu sync.RWMutex
	mode   Mode
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, "text", c.LogLevel)

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}

	status := services.NewSystemStatusService(apiClient, c.MaxUploadSizeMiB, logger)
	resources := services.NewResourceService(apiClient, store.NewResourceStore(), status, logger)

	return &App{
		config:    c,
		client:    apiClient,
		resources: resources,
		status:    status,
		logger:    logger,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		outFd:     int(os.Stdout.Fd()),
	}, nil
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

// setMode switches the mode and reports whether it changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "connection mode changed", "mode", mode)
	}
	return changed
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

// checkOnline pings the server once and updates the mode. Coming online
// refreshes the upload limit.
func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.status.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}

	if a.setMode(ctx, ModeOnline) {
		if _, err := a.status.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "status refresh failed", "error", err)
		}
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.logger.Warn(ctx, "online status watcher disabled", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
