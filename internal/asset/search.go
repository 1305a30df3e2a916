// Package asset assembles a virtual file namespace from prioritized backing
// sources. Directories and ZIP archives are registered on a search path;
// opening a name probes the sources in priority order and returns a byte
// stream for the first one that carries it, transparently decompressing
// deflate-stored archive entries.
package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
)

// Registered pairs a source with its search priority.
type Registered struct {
	Priority uint
	Source   Source
}

// SearchPath is an ordered collection of asset sources. Lower priority
// values are probed first; sources sharing a priority keep their
// registration order.
//
// The zero value is not usable; call NewSearchPath.
type SearchPath struct {
	entries []Registered
}

func NewSearchPath() *SearchPath {
	return &SearchPath{}
}

// AddDirectory registers a directory on disk at the given priority.
func (s *SearchPath) AddDirectory(priority uint, path string) error {
	src, err := NewDirectorySource(path)
	if err != nil {
		return err
	}
	s.add(priority, src)
	return nil
}

// AddArchive registers a ZIP archive on disk at the given priority. The
// archive's central directory is indexed immediately; a corrupt archive
// fails here, never during Open.
func (s *SearchPath) AddArchive(priority uint, path string) error {
	src, err := NewZipSource(path)
	if err != nil {
		return err
	}
	s.add(priority, src)
	return nil
}

// AddArchiveReader registers an already-open ZIP archive stream. The stream
// must stay valid until the search path is closed.
func (s *SearchPath) AddArchiveReader(priority uint, r io.ReadSeeker) error {
	src, err := NewZipSourceReader(r)
	if err != nil {
		return err
	}
	s.add(priority, src)
	return nil
}

func (s *SearchPath) add(priority uint, src Source) {
	// insert after all entries of equal priority to keep registration order
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Priority > priority
	})
	s.entries = append(s.entries, Registered{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = Registered{Priority: priority, Source: src}
	slog.Debug("Source registered", "priority", priority, "origin", src.Origin())
}

// Open resolves name through the registered sources in priority order and
// returns the first hit. Sources that don't carry the name are skipped; a
// source that carries it but can't serve it aborts the whole resolution.
// When every source misses, the returned error wraps fs.ErrNotExist.
func (s *SearchPath) Open(name string) (Stream, error) {
	for _, e := range s.entries {
		stream, err := e.Source.Open(name)
		if err == nil {
			return stream, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return nil, err
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Sources returns the registered sources in probe order.
func (s *SearchPath) Sources() []Registered {
	return s.entries
}

// Close closes every registered source. Streams obtained from the search
// path must not be used afterwards.
func (s *SearchPath) Close() error {
	var firstErr error
	for _, e := range s.entries {
		if err := e.Source.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.entries = nil
	return firstErr
}

// ReadAll slurps the remainder of an opened asset into memory.
func ReadAll(s io.Reader) ([]byte, error) {
	data, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("reading asset: %w", err)
	}
	return data, nil
}
