package asset

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

type inflateState int

const (
	inflateIdle inflateState = iota
	inflateStreaming
	inflateExhausted
	inflateFailed
)

// InflateStream decodes a raw-deflate compressed archive entry on the fly.
// Compressed bytes are drawn exclusively through the wrapped BoundedStream,
// so decoding can never run past the entry's payload. Decoding proceeds
// until the compressed input is exhausted; the entry's declared uncompressed
// size is never consulted.
//
// The stream is forward-only. Archives are static inputs, so a stream that
// has failed stays failed.
type InflateStream struct {
	src   *BoundedStream
	fr    io.ReadCloser
	state inflateState
	pos   int64 // decompressed bytes handed out so far
}

// NewInflateStream wraps a window of raw-deflate compressed bytes.
func NewInflateStream(src *BoundedStream) *InflateStream {
	return &InflateStream{src: src}
}

func (s *InflateStream) Read(p []byte) (int, error) {
	switch s.state {
	case inflateFailed:
		return 0, fmt.Errorf("read after decompression failure: %w", ErrDecode)
	case inflateExhausted:
		return 0, io.EOF
	case inflateIdle:
		s.fr = flate.NewReader(s.src)
		s.state = inflateStreaming
	}

	n, err := s.fr.Read(p)
	s.pos += int64(n)
	switch {
	case err == io.EOF:
		s.state = inflateExhausted
		s.fr.Close()
		s.fr = nil
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	case err != nil:
		s.state = inflateFailed
		return n, fmt.Errorf("inflating compressed entry: %w: %v", ErrDecode, err)
	}
	return n, nil
}

// Seek is supported only as a position query (offset 0 from the current
// position). Random access over a deflate stream is declined.
func (s *InflateStream) Seek(offset int64, whence int) (int64, error) {
	if offset == 0 && whence == io.SeekCurrent {
		return s.pos, nil
	}
	return s.pos, fmt.Errorf("seek not supported on compressed entries")
}

func (s *InflateStream) Close() error {
	if s.fr != nil {
		err := s.fr.Close()
		s.fr = nil
		s.state = inflateExhausted
		return err
	}
	return nil
}
