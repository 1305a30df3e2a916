// Package export writes resolved assets out of the search path onto disk.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/evilstubb/dgenrs/internal/asset"
)

// Opener resolves asset names to streams; satisfied by *asset.SearchPath.
type Opener interface {
	Open(name string) (asset.Stream, error)
}

// Exporter copies assets from a search path to an output directory
type Exporter struct {
	opener    Opener
	outputDir string
}

// NewExporter creates a new asset exporter
func NewExporter(opener Opener, outputDir string) *Exporter {
	return &Exporter{
		opener:    opener,
		outputDir: outputDir,
	}
}

// ProgressCallback is called to report export progress
type ProgressCallback func(current int, total int, description string)

// ExportFiles resolves each named asset through the search path and writes
// it under the output directory, preserving its relative path. A name no
// source carries is counted and logged but doesn't stop the run; a decode
// failure does.
func (e *Exporter) ExportFiles(names []string, progress ProgressCallback) (written, missing int, err error) {
	if len(names) == 0 {
		return 0, 0, nil
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("creating output directory: %w", err)
	}

	for i, name := range names {
		if progress != nil {
			progress(i+1, len(names), name)
		}

		n, err := e.exportOne(name)
		if err != nil {
			return written, missing, err
		}
		if n < 0 {
			missing++
			continue
		}
		written++
		slog.Debug("Exported asset", "name", name, "bytes", n)
	}

	return written, missing, nil
}

// exportOne writes a single asset; returns -1 when no source carries it.
func (e *Exporter) exportOne(name string) (int64, error) {
	stream, err := e.opener.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Asset not found in any source", "name", name)
			return -1, nil
		}
		return 0, fmt.Errorf("opening asset %q: %w", name, err)
	}
	defer stream.Close()

	outPath := filepath.Join(e.outputDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, fmt.Errorf("creating directory for %q: %w", name, err)
	}

	data, err := asset.ReadAll(stream)
	if err != nil {
		return 0, fmt.Errorf("reading asset %q: %w", name, err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return int64(len(data)), nil
}
