package export

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/evilstubb/dgenrs/internal/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapOpener serves assets out of memory.
type mapOpener map[string][]byte

func (m mapOpener) Open(name string) (asset.Stream, error) {
	data, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return asset.NewBoundedStream(bytes.NewReader(data), 0, int64(len(data))), nil
}

func TestExportFiles(t *testing.T) {
	opener := mapOpener{
		"textures/wall.png": []byte("wall bytes"),
		"shaders/main.vert": []byte("void main() {}"),
	}

	out := t.TempDir()
	e := NewExporter(opener, out)

	var calls int
	written, missing, err := e.ExportFiles(
		[]string{"textures/wall.png", "shaders/main.vert", "absent.dat"},
		func(current, total int, description string) { calls++ },
	)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, 1, missing)
	assert.Equal(t, 3, calls)

	data, err := os.ReadFile(filepath.Join(out, "textures", "wall.png"))
	require.NoError(t, err)
	assert.Equal(t, "wall bytes", string(data))

	data, err = os.ReadFile(filepath.Join(out, "shaders", "main.vert"))
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", string(data))

	_, err = os.Stat(filepath.Join(out, "absent.dat"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportFilesEmpty(t *testing.T) {
	e := NewExporter(mapOpener{}, filepath.Join(t.TempDir(), "never-created"))
	written, missing, err := e.ExportFiles(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Zero(t, missing)

	// no names means the output directory is never created
	_, err = os.Stat(e.outputDir)
	assert.True(t, os.IsNotExist(err))
}
