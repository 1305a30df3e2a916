package asset

import (
	"errors"
	"io"
)

// ErrDecode is the corruption category: a backing file or archive exists but
// its contents can't be read as promised. Distinct from fs.ErrNotExist,
// which only means a name isn't carried by a source.
var ErrDecode = errors.New("asset decode error")

// Stream is a readable view of a single asset. Streams handed out for
// deflate-compressed archive entries are forward-only and refuse Seek.
type Stream interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Source resolves asset names to streams.
type Source interface {
	// Open returns a stream for the named asset. A name the source does not
	// carry is reported as a *fs.PathError wrapping fs.ErrNotExist; any
	// other error means the source's backing data is unreadable.
	Open(name string) (Stream, error)
	// Names returns every name this source can resolve, sorted.
	Names() []string
	// Origin returns where the source's data comes from, for logging.
	Origin() string
	// Close releases the source's backing file, invalidating any streams
	// it has handed out.
	Close() error
}
