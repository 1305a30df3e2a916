package catalog

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/evilstubb/dgenrs/internal/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedZip builds a minimal archive of stored entries for scan tests.
func storedZip(t *testing.T, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	le16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	le32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	names := make([]string, 0, len(files))
	offsets := make([]uint32, 0, len(files))
	for name, content := range files {
		names = append(names, name)
		offsets = append(offsets, uint32(buf.Len()))
		le32(0x04034b50)
		le16(20)
		le16(0)
		le16(0) // stored
		le16(0)
		le16(0)
		le32(0)
		le32(uint32(len(content)))
		le32(uint32(len(content)))
		le16(uint16(len(name)))
		le16(0)
		buf.WriteString(name)
		buf.WriteString(content)
	}

	dirStart := uint32(buf.Len())
	for i, name := range names {
		content := files[name]
		le32(0x02014b50)
		le16(20)
		le16(20)
		le16(0)
		le16(0)
		le16(0)
		le16(0)
		le32(0)
		le32(uint32(len(content)))
		le32(uint32(len(content)))
		le16(uint16(len(name)))
		le16(0)
		le16(0)
		le16(0)
		le16(0)
		le32(0)
		le32(offsets[i])
		buf.WriteString(name)
	}
	dirSize := uint32(buf.Len()) - dirStart

	le32(0x06054b50)
	le16(0)
	le16(0)
	le16(uint16(len(names)))
	le16(uint16(len(names)))
	le32(dirSize)
	le32(dirStart)
	le16(0)

	path := filepath.Join(t.TempDir(), "pack.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestScanAndInsert(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("dir copy"), 0o644))

	archive := storedZip(t, map[string]string{
		"a.txt": "zip copy",
		"b.txt": "only in zip",
	})

	sp := asset.NewSearchPath()
	defer sp.Close()
	require.NoError(t, sp.AddArchive(5, archive))
	require.NoError(t, sp.AddDirectory(10, dir))

	records, err := Scan(sp)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byKey := make(map[string]Record)
	for _, rec := range records {
		byKey[rec.SourceKind+":"+rec.Name] = rec
	}

	zipA := byKey["zip:a.txt"]
	assert.False(t, zipA.Shadowed)
	require.NotNil(t, zipA.Method)
	assert.EqualValues(t, 0, *zipA.Method)
	require.NotNil(t, zipA.UncompressedSize)
	assert.EqualValues(t, len("zip copy"), *zipA.UncompressedSize)

	// the directory copy loses to the archive's lower priority value
	dirA := byKey["dir:a.txt"]
	assert.True(t, dirA.Shadowed)
	require.NotNil(t, dirA.UncompressedSize)
	assert.EqualValues(t, len("dir copy"), *dirA.UncompressedSize)

	assert.False(t, byKey["zip:b.txt"].Shadowed)

	cat, err := Open(DefaultOptions(filepath.Join(t.TempDir(), "assets.db")))
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.CreateSchema(ctx))
	require.NoError(t, cat.InsertRecords(ctx, records))

	rows, err := cat.Query(ctx, `SELECT COUNT(*) FROM assets WHERE shadowed = 0`)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var count int
	require.NoError(t, rows.Scan(&count))
	assert.Equal(t, 2, count)
}

func TestOpenValidation(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)

	_, err = Open(&Options{})
	assert.Error(t, err)
}
