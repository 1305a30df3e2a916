package asset

import (
	"fmt"
	"io"
)

// BoundedStream restricts a shared underlying stream to the byte range
// [begin, end). Positions visible to the caller run from 0 to end-begin;
// they are translated to absolute offsets internally.
//
// Every read re-seeks the underlying stream first, so any number of bounded
// streams may share one underlying stream as long as no two calls run at the
// same time.
type BoundedStream struct {
	src   io.ReadSeeker
	begin int64
	end   int64
	pos   int64 // absolute offset into src, begin <= pos <= end
}

// NewBoundedStream returns a stream exposing bytes [begin, end) of src.
func NewBoundedStream(src io.ReadSeeker, begin, end int64) *BoundedStream {
	if end < begin {
		end = begin
	}
	return &BoundedStream{src: src, begin: begin, end: end, pos: begin}
}

// Size returns the number of bytes in the window.
func (b *BoundedStream) Size() int64 {
	return b.end - b.begin
}

func (b *BoundedStream) Read(p []byte) (int, error) {
	if b.pos >= b.end {
		return 0, io.EOF
	}
	if remain := b.end - b.pos; int64(len(p)) > remain {
		p = p[:remain]
	}
	if _, err := b.src.Seek(b.pos, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seeking to offset %d: %w", b.pos, err)
	}
	n, err := b.src.Read(p)
	b.pos += int64(n)
	if err == io.EOF {
		// the window promised bytes the underlying stream doesn't have
		err = fmt.Errorf("stream ends %d bytes short: %w", b.end-b.pos, ErrDecode)
	}
	return n, err
}

// Seek repositions the stream within its window. Requests that would land
// outside [0, Size()] fail without moving the position.
func (b *BoundedStream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = b.begin + offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = b.end + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < b.begin || abs > b.end {
		return b.pos - b.begin, fmt.Errorf("seek to %d outside window of %d bytes", abs-b.begin, b.end-b.begin)
	}
	b.pos = abs
	return abs - b.begin, nil
}

func (b *BoundedStream) Close() error {
	return nil
}
