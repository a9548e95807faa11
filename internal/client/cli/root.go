package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memokeeper/internal/client/store"
)

func (a *App) getStatus() string {
	if m := a.Mode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to memokeeper (type 'help' for commands)")

	unsubscribe := a.resources.Subscribe(func(e store.Event) {
		a.logger.Debug(ctx, "resource collection changed", "kind", e.Kind, "ids", e.IDs, "len", e.Len)
	})
	defer unsubscribe()

	a.checkOnline(ctx)
	if a.Mode() == ModeOnline {
		if _, err := a.resources.FetchAll(ctx); err != nil {
			a.logger.Warn(ctx, "initial fetch failed", "error", err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
