package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/media/covers"
	"github.com/shelfnote/shelfnote-server/internal/media/images"
	"github.com/shelfnote/shelfnote-server/internal/service"
	"github.com/shelfnote/shelfnote-server/internal/store"
	"github.com/shelfnote/shelfnote-server/internal/validation"
)

func setupImporter(t *testing.T) (*Importer, *store.Store, string) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	fileStorage, err := images.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	coverStore, err := images.NewCoverStorage(t.TempDir())
	require.NoError(t, err)
	downloader := covers.NewDownloader(coverStore, logger)
	t.Cleanup(downloader.Close)

	books := service.NewBookService(st, validation.New(), fileStorage, coverStore, downloader, logger)

	watchPath := filepath.Join(t.TempDir(), "import")
	imp, err := New(books, store.NewNoopEmitter(), Options{
		WatchPath:   watchPath,
		SettleDelay: 50 * time.Millisecond,
	}, logger)
	require.NoError(t, err)

	return imp, st, watchPath
}

func TestImporter_ImportsDroppedPDF(t *testing.T) {
	imp, st, watchPath := setupImporter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = imp.Start(ctx) }()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(watchPath, "the_left_hand_of_darkness.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644))

	require.Eventually(t, func() bool {
		books, err := st.ListBooks(ctx)
		return err == nil && len(books) == 1
	}, 5*time.Second, 50*time.Millisecond)

	books, err := st.ListBooks(ctx)
	require.NoError(t, err)
	book := books[0]

	assert.Equal(t, "the left hand of darkness", book.Title)
	assert.Equal(t, 0, book.TotalPages, "page count is unknown until the PDF is opened")
	assert.NotEmpty(t, book.FilePath)

	// Source file is removed after import.
	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 2*time.Second, 50*time.Millisecond)
}

func TestImporter_ImportsExistingFilesAtStartup(t *testing.T) {
	imp, st, watchPath := setupImporter(t)

	require.NoError(t, os.WriteFile(filepath.Join(watchPath, "dune.pdf"), []byte("%PDF-1.4 fake"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = imp.Start(ctx) }()

	require.Eventually(t, func() bool {
		books, err := st.ListBooks(ctx)
		return err == nil && len(books) == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestImporter_IgnoresNonPDF(t *testing.T) {
	imp, st, watchPath := setupImporter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = imp.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(watchPath, "notes.txt"), []byte("not a book"), 0644))

	// Give the settle delay time to elapse; nothing should be imported.
	time.Sleep(300 * time.Millisecond)

	books, err := st.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestNew_EmptyWatchPath(t *testing.T) {
	_, err := New(nil, store.NewNoopEmitter(), Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the_left_hand_of_darkness.pdf", "the left hand of darkness"},
		{"Dune.pdf", "Dune"},
		{"A  Wizard of   Earthsea.PDF", "A Wizard of Earthsea"},
		{"already clean.pdf", "already clean"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleFromFilename(tt.in), tt.in)
	}
}
