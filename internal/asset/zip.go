package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
)

// ZIP layout constants. All multi-byte fields are little-endian.
const (
	// fixed record sizes before their variable-length tails
	eocdFixedSize    = 22
	centralFixedSize = 46
	localFixedSize   = 30

	methodStored  = 0
	methodDeflate = 8

	// backward scan parameters for locating the EOCD record
	eocdScanWindow  = 1024
	eocdScanWindows = 64
)

var eocdSignature = []byte{0x50, 0x4b, 0x05, 0x06}

// EntryInfo describes one archive entry's local file header.
type EntryInfo struct {
	Method           uint16
	CompressedSize   uint32
	UncompressedSize uint32
}

// ZipSource serves assets out of a single ZIP archive. The central directory
// is parsed once at construction into a name-to-offset index; entry data is
// never touched until Open. Local file headers are parsed fresh on every
// Open, never cached.
//
// Streams handed out by Open borrow the archive's underlying stream and must
// not be used after the source is closed.
type ZipSource struct {
	src    io.ReadSeeker
	file   *os.File // non-nil when the source owns the backing file
	index  map[string]int64
	names  []string
	origin string
}

// NewZipSource opens the archive at path and indexes its central directory.
func NewZipSource(path string) (*ZipSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	z, err := newZipSource(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	z.file = f
	return z, nil
}

// NewZipSourceReader indexes an already-open archive stream. The stream must
// remain valid for the life of the source and any streams it hands out.
func NewZipSourceReader(r io.ReadSeeker) (*ZipSource, error) {
	return newZipSource(r, "(stream)")
}

func newZipSource(r io.ReadSeeker, origin string) (*ZipSource, error) {
	index, err := parseCentralDirectory(r)
	if err != nil {
		return nil, fmt.Errorf("indexing archive %s: %w", origin, err)
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	slog.Debug("Archive indexed", "origin", origin, "entries", len(index))

	return &ZipSource{
		src:    r,
		index:  index,
		names:  names,
		origin: origin,
	}, nil
}

// Open locates the named entry's local file header and returns a stream over
// exactly that entry's payload: a plain bounded window for stored entries,
// a decompressing stream for deflate entries.
func (z *ZipSource) Open(name string) (Stream, error) {
	base, ok := z.index[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	method, err := readUint16At(z.src, base+8)
	if err != nil {
		return nil, fmt.Errorf("reading local header for %q: %w", name, err)
	}
	compressedSize, err := readUint32At(z.src, base+18)
	if err != nil {
		return nil, fmt.Errorf("reading local header for %q: %w", name, err)
	}
	nameLen, err := readUint16At(z.src, base+26)
	if err != nil {
		return nil, fmt.Errorf("reading local header for %q: %w", name, err)
	}
	extraLen, err := readUint16At(z.src, base+28)
	if err != nil {
		return nil, fmt.Errorf("reading local header for %q: %w", name, err)
	}

	payload := base + localFixedSize + int64(nameLen) + int64(extraLen)
	window := NewBoundedStream(z.src, payload, payload+int64(compressedSize))

	switch method {
	case methodStored:
		return window, nil
	case methodDeflate:
		return NewInflateStream(window), nil
	default:
		return nil, fmt.Errorf("unsupported compression method %d for %q: %w", method, name, ErrDecode)
	}
}

// Entry parses the named entry's local file header and reports its
// compression method and sizes without opening the payload.
func (z *ZipSource) Entry(name string) (EntryInfo, error) {
	base, ok := z.index[name]
	if !ok {
		return EntryInfo{}, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	method, err := readUint16At(z.src, base+8)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("reading local header for %q: %w", name, err)
	}
	compressedSize, err := readUint32At(z.src, base+18)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("reading local header for %q: %w", name, err)
	}
	uncompressedSize, err := readUint32At(z.src, base+22)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("reading local header for %q: %w", name, err)
	}
	return EntryInfo{
		Method:           method,
		CompressedSize:   compressedSize,
		UncompressedSize: uncompressedSize,
	}, nil
}

// Names returns every entry name in the archive, sorted.
func (z *ZipSource) Names() []string {
	return z.names
}

func (z *ZipSource) Origin() string {
	return z.origin
}

func (z *ZipSource) Close() error {
	if z.file != nil {
		err := z.file.Close()
		z.file = nil
		return err
	}
	return nil
}

// parseCentralDirectory locates the EOCD record, walks the central directory
// and builds the entry name to local-header-offset index. No entry payloads
// are read. Duplicate names keep the record seen last.
func parseCentralDirectory(r io.ReadSeeker) (map[string]int64, error) {
	eocd, err := findEndOfCentralDirectory(r)
	if err != nil {
		return nil, err
	}

	recordCount, err := readUint16At(r, eocd+8)
	if err != nil {
		return nil, fmt.Errorf("reading end-of-central-directory record: %w", err)
	}
	dirOffset, err := readUint32At(r, eocd+16)
	if err != nil {
		return nil, fmt.Errorf("reading end-of-central-directory record: %w", err)
	}

	index := make(map[string]int64, recordCount)
	base := int64(dirOffset)
	for i := 0; i < int(recordCount); i++ {
		nameLen, err := readUint16At(r, base+28)
		if err != nil {
			return nil, fmt.Errorf("reading central directory record %d: %w", i, err)
		}
		extraLen, err := readUint16At(r, base+30)
		if err != nil {
			return nil, fmt.Errorf("reading central directory record %d: %w", i, err)
		}
		commentLen, err := readUint16At(r, base+32)
		if err != nil {
			return nil, fmt.Errorf("reading central directory record %d: %w", i, err)
		}
		localOffset, err := readUint32At(r, base+42)
		if err != nil {
			return nil, fmt.Errorf("reading central directory record %d: %w", i, err)
		}

		// variable-length name immediately follows the fixed fields
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("reading name of central directory record %d: %w", i, shortRead(err))
		}
		index[string(name)] = int64(localOffset)

		base += centralFixedSize + int64(nameLen) + int64(extraLen) + int64(commentLen)
	}

	return index, nil
}

// findEndOfCentralDirectory scans backward from the end of the stream in
// fixed-size windows, looking for the EOCD signature. The archive may carry
// an arbitrary trailing comment, which can itself contain the signature
// bytes, so every candidate is checked against the one invariant the real
// record satisfies: its comment-length field must reach exactly to the end
// of the file. Windows closer to the end are tried first, rightmost match
// first within each window; the scan gives up after eocdScanWindows windows.
func findEndOfCentralDirectory(r io.ReadSeeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("measuring archive: %w", err)
	}

	window := make([]byte, eocdScanWindow)
	pos := size - int64(len(window))
	for i := 0; i < eocdScanWindows; i++ {
		if pos < 0 {
			pos = 0
		}
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return 0, fmt.Errorf("seeking to offset %d: %w", pos, err)
		}
		span := window
		if remain := size - pos; remain < int64(len(span)) {
			span = span[:remain]
		}
		if _, err := io.ReadFull(r, span); err != nil {
			return 0, fmt.Errorf("scanning for end-of-central-directory record: %w", shortRead(err))
		}
		for j := len(span) - len(eocdSignature); j >= 0; j-- {
			if !bytes.Equal(span[j:j+len(eocdSignature)], eocdSignature) {
				continue
			}
			candidate := pos + int64(j)
			if plausibleEOCD(r, candidate, size) {
				return candidate, nil
			}
		}
		if pos == 0 {
			break
		}
		pos -= int64(len(window))
	}

	return 0, fmt.Errorf("no end-of-central-directory record: %w", ErrDecode)
}

// plausibleEOCD reports whether the record starting at off could be the real
// EOCD record: the fixed part fits in the file and the comment it declares
// runs exactly to the end. Signature bytes inside a comment fail this check.
func plausibleEOCD(r io.ReadSeeker, off, size int64) bool {
	if off+eocdFixedSize > size {
		return false
	}
	commentLen, err := readUint16At(r, off+20)
	if err != nil {
		return false
	}
	return off+eocdFixedSize+int64(commentLen) == size
}

func readUint16At(r io.ReadSeeker, off int64) (uint16, error) {
	var buf [2]byte
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seeking to offset %d: %w", off, err)
	}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, shortRead(err)
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func readUint32At(r io.ReadSeeker, off int64) (uint32, error) {
	var buf [4]byte
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seeking to offset %d: %w", off, err)
	}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, shortRead(err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// shortRead folds premature end-of-stream into the decode error category.
// A truncated header is corruption, not a normal end of data.
func shortRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("unexpected end of stream: %w", ErrDecode)
	}
	return err
}
