package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirectorySource resolves asset names against a directory on disk. Names
// use forward slashes regardless of platform.
type DirectorySource struct {
	root string
}

// NewDirectorySource verifies that path exists and is a directory.
func NewDirectorySource(path string) (*DirectorySource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s: %w", path, ErrDecode)
	}
	return &DirectorySource{root: path}, nil
}

func (d *DirectorySource) Open(name string) (Stream, error) {
	f, err := os.Open(filepath.Join(d.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, fmt.Errorf("opening %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %q: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}

// Names walks the directory tree and returns every regular file as a
// slash-separated path relative to the root, sorted.
func (d *DirectorySource) Names() []string {
	var names []string
	_ = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names
}

func (d *DirectorySource) Origin() string {
	return d.root
}

func (d *DirectorySource) Close() error {
	return nil
}
