package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/media/covers"
	"github.com/shelfnote/shelfnote-server/internal/media/images"
)

// FileStorages holds the on-disk stores for book files and cover images.
type FileStorages struct {
	Covers *images.Storage
	Files  *images.Storage
}

// ProvideFileStorages provides the book file and cover stores.
func ProvideFileStorages(i do.Injector) (*FileStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	coverStore, err := images.NewCoverStorage(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	fileStore, err := images.NewFileStorage(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	log.Info("File storage initialized", "base_path", cfg.Storage.DataPath)

	return &FileStorages{Covers: coverStore, Files: fileStore}, nil
}

// CoverDownloaderHandle wraps the cover downloader with shutdown capability.
type CoverDownloaderHandle struct {
	*covers.Downloader
}

// Shutdown implements do.Shutdownable.
func (h *CoverDownloaderHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideCoverDownloader provides the cover downloader.
func ProvideCoverDownloader(i do.Injector) (*CoverDownloaderHandle, error) {
	storages := do.MustInvoke[*FileStorages](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &CoverDownloaderHandle{
		Downloader: covers.NewDownloader(storages.Covers, log.Logger),
	}, nil
}
