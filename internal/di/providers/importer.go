package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/importer"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

// ImporterHandle wraps the watch-folder importer with lifecycle management.
// The importer is nil when the watcher is disabled.
type ImporterHandle struct {
	*importer.Importer
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ImporterHandle) Shutdown() error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// ProvideImporter provides the watch-folder importer and starts it in the
// background when enabled.
func ProvideImporter(i do.Injector) (*ImporterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Import.Enabled || cfg.Import.WatchPath == "" {
		log.Info("Import watcher disabled")
		return &ImporterHandle{}, nil
	}

	books := do.MustInvoke[*service.BookService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	imp, err := importer.New(books, sseHandle.Manager, importer.Options{
		WatchPath: cfg.Import.WatchPath,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := imp.Start(ctx); err != nil {
			log.Error("Import watcher stopped", "error", err)
		}
	}()

	return &ImporterHandle{Importer: imp, cancel: cancel}, nil
}
