// Package remote downloads asset packs over HTTP into the local cache so
// they can be registered on the search path without keeping a network
// dependency at resolution time.
package remote

import (
	"fmt"
	"log/slog"
	"net/url"
	"path"

	"github.com/evilstubb/dgenrs/internal/asset"
	"github.com/evilstubb/dgenrs/internal/cache"
	"github.com/evilstubb/dgenrs/internal/utils"
)

// FetchPack downloads the asset pack at rawURL into the cache and verifies
// it parses as an archive. An already-cached pack is reused unless force is
// set. Returns the cached file's path.
func FetchPack(store *cache.Cache, rawURL string, force bool) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing pack URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("pack URL %s has no file name", rawURL)
	}

	packPath := store.PackPath(name)

	if !force && store.FileExists(packPath) && store.FileSize(packPath) > 0 {
		slog.Debug("Using cached asset pack", "path", packPath)
		return packPath, nil
	}

	if err := store.EnsureDir(store.Dir()); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	slog.Info("Fetching asset pack", "url", rawURL, "destination", packPath)
	if err := utils.DownloadFile(packPath, rawURL); err != nil {
		return "", fmt.Errorf("downloading asset pack from %s: %w", rawURL, err)
	}

	if store.FileSize(packPath) == 0 {
		return "", fmt.Errorf("downloaded asset pack is empty")
	}

	// index the archive once so a corrupt download fails here, not at the
	// first open
	src, err := asset.NewZipSource(packPath)
	if err != nil {
		return "", fmt.Errorf("verifying asset pack: %w", err)
	}
	entries := len(src.Names())
	src.Close()

	slog.Info("Asset pack ready", "path", packPath, "entries", entries, "size", utils.Bytes(store.FileSize(packPath)))
	return packPath, nil
}
