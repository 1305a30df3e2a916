package cache

import (
	"os"
	"path/filepath"
	"strings"
)

// Cache handles local storage of fetched asset packs
type Cache struct{}

// Manager creates a new cache manager
func Manager() *Cache {
	return &Cache{}
}

// Dir returns the root cache directory
func (m *Cache) Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".dgenrs", "cache")
	}
	return filepath.Join(homeDir, ".dgenrs", "cache")
}

// PackPath returns the on-disk path for a named asset pack
func (m *Cache) PackPath(name string) string {
	safeName := strings.ReplaceAll(name, "/", "_")
	safeName = strings.ReplaceAll(safeName, " ", "_")
	if !strings.HasSuffix(safeName, ".zip") {
		safeName += ".zip"
	}
	return filepath.Join(m.Dir(), safeName)
}

// EnsureDir creates a directory and all parent directories
func (m *Cache) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists checks if a file exists
func (m *Cache) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// FileSize returns the size of a file, or 0 if it doesn't exist
func (m *Cache) FileSize(filename string) int64 {
	info, err := os.Stat(filename)
	if err != nil {
		return 0
	}
	return info.Size()
}
