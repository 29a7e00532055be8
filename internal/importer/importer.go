// Package importer turns PDFs dropped into a watch folder into library books.
// It is the server-side equivalent of picking a file in a desktop client:
// copy a PDF into the folder and the book appears in the library.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shelfnote/shelfnote-server/internal/service"
	"github.com/shelfnote/shelfnote-server/internal/sse"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// defaultSettleDelay is how long a file must stop changing before it is
// considered fully written. Copies into the watch folder arrive in chunks.
const defaultSettleDelay = 2 * time.Second

// Importer watches a folder and imports settled PDF files as books.
type Importer struct {
	books       *service.BookService
	emitter     store.EventEmitter
	watchPath   string
	settleDelay time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingFile
}

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// Options configures an Importer.
type Options struct {
	WatchPath   string
	SettleDelay time.Duration // zero means the default
}

// New creates an importer for the given watch folder.
// The folder is created if it does not exist.
func New(books *service.BookService, emitter store.EventEmitter, opts Options, logger *slog.Logger) (*Importer, error) {
	if opts.WatchPath == "" {
		return nil, fmt.Errorf("watch path cannot be empty")
	}
	if err := os.MkdirAll(opts.WatchPath, 0755); err != nil {
		return nil, fmt.Errorf("create watch folder: %w", err)
	}

	settle := opts.SettleDelay
	if settle <= 0 {
		settle = defaultSettleDelay
	}

	return &Importer{
		books:       books,
		emitter:     emitter,
		watchPath:   filepath.Clean(opts.WatchPath),
		settleDelay: settle,
		logger:      logger,
		pending:     make(map[string]*pendingFile),
	}, nil
}

// Start watches the folder until the context is canceled.
// PDFs already sitting in the folder at startup are imported first.
func (i *Importer) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(i.watchPath); err != nil {
		return fmt.Errorf("watch %s: %w", i.watchPath, err)
	}

	i.logger.Info("import folder watch started", "path", i.watchPath)

	i.importExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			i.cancelPending()
			i.logger.Info("import folder watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			i.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			i.logger.Warn("watch error", "error", err)
		}
	}
}

// importExisting picks up PDFs that were dropped while the server was down.
func (i *Importer) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(i.watchPath)
	if err != nil {
		i.logger.Warn("failed to read watch folder", "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		i.importFile(ctx, filepath.Join(i.watchPath, entry.Name()))
	}
}

// handleEvent debounces create/write events until the file settles.
func (i *Importer) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !isPDF(event.Name) {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if p, exists := i.pending[event.Name]; exists {
		p.timer.Stop()
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		delete(i.pending, event.Name)
		return
	}

	p := &pendingFile{size: info.Size(), modTime: info.ModTime()}
	p.timer = time.AfterFunc(i.settleDelay, func() {
		i.checkSettled(ctx, event.Name)
	})
	i.pending[event.Name] = p
}

// checkSettled imports the file once its size and mtime stop moving.
func (i *Importer) checkSettled(ctx context.Context, path string) {
	i.mu.Lock()

	p, exists := i.pending[path]
	if !exists {
		i.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// File disappeared before settling.
		delete(i.pending, path)
		i.mu.Unlock()
		return
	}

	if info.Size() != p.size || info.ModTime() != p.modTime {
		// Still being written, restart the timer.
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(i.settleDelay, func() {
			i.checkSettled(ctx, path)
		})
		i.mu.Unlock()
		return
	}

	delete(i.pending, path)
	i.mu.Unlock()

	i.importFile(ctx, path)
}

// importFile creates a library book from a settled PDF and removes the
// source file; the PDF now lives in book file storage.
func (i *Importer) importFile(ctx context.Context, path string) {
	fileName := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		i.logger.Warn("failed to read import file", "path", path, "error", err)
		return
	}

	book, err := i.books.CreateBook(ctx, service.CreateBookParams{
		Title:    titleFromFilename(fileName),
		FileData: data,
	})
	if err != nil {
		i.logger.Error("import failed", "file", fileName, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		i.logger.Warn("failed to remove imported file", "path", path, "error", err)
	}

	i.logger.Info("imported book from watch folder",
		"book_id", book.ID,
		"title", book.Title,
		"file", fileName,
	)

	i.emitter.Emit(sse.NewImportCompletedEvent(book.ID, fileName))
}

// cancelPending stops all settle timers.
func (i *Importer) cancelPending() {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, p := range i.pending {
		p.timer.Stop()
	}
	clear(i.pending)
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// titleFromFilename turns "the_left_hand_of_darkness.pdf" into
// "the left hand of darkness".
func titleFromFilename(name string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	title = strings.ReplaceAll(title, "_", " ")
	return strings.Join(strings.Fields(title), " ")
}
