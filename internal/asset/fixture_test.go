package asset

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/flate"
)

// zipEntry is one file to place in a hand-built test archive. payload holds
// the bytes exactly as stored in the archive; size is the declared
// uncompressed size.
type zipEntry struct {
	name    string
	method  uint16
	payload []byte
	size    uint32
}

func storedEntry(name string, data []byte) zipEntry {
	return zipEntry{name: name, method: methodStored, payload: data, size: uint32(len(data))}
}

func deflateEntry(t *testing.T, name string, data []byte) zipEntry {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("creating flate writer: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("compressing fixture: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("closing flate writer: %v", err)
	}
	return zipEntry{name: name, method: methodDeflate, payload: buf.Bytes(), size: uint32(len(data))}
}

// buildZip assembles a minimal archive: local headers with payloads, then
// the central directory, then the EOCD record with an optional trailing
// comment. CRCs are zeroed; nothing in the reader checks them.
func buildZip(entries []zipEntry, comment []byte) []byte {
	var buf bytes.Buffer
	le16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	le32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	offsets := make([]uint32, len(entries))
	for i, e := range entries {
		offsets[i] = uint32(buf.Len())
		le32(0x04034b50) // local file header signature
		le16(20)         // version needed
		le16(0)          // flags
		le16(e.method)
		le16(0) // mod time
		le16(0) // mod date
		le32(0) // crc32
		le32(uint32(len(e.payload)))
		le32(e.size)
		le16(uint16(len(e.name)))
		le16(0) // extra length
		buf.WriteString(e.name)
		buf.Write(e.payload)
	}

	dirStart := uint32(buf.Len())
	for i, e := range entries {
		le32(0x02014b50) // central directory signature
		le16(20)         // version made by
		le16(20)         // version needed
		le16(0)          // flags
		le16(e.method)
		le16(0) // mod time
		le16(0) // mod date
		le32(0) // crc32
		le32(uint32(len(e.payload)))
		le32(e.size)
		le16(uint16(len(e.name)))
		le16(0) // extra length
		le16(0) // comment length
		le16(0) // disk number
		le16(0) // internal attributes
		le32(0) // external attributes
		le32(offsets[i])
		buf.WriteString(e.name)
	}
	dirSize := uint32(buf.Len()) - dirStart

	le32(0x06054b50) // EOCD signature
	le16(0)          // disk number
	le16(0)          // central directory disk
	le16(uint16(len(entries)))
	le16(uint16(len(entries)))
	le32(dirSize)
	le32(dirStart)
	le16(uint16(len(comment)))
	buf.Write(comment)

	return buf.Bytes()
}
