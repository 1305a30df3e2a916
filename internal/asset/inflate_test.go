package asset

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawDeflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, fw.Close())
	return buf.Bytes()
}

func TestInflateStreamRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 512)
	compressed := rawDeflate(t, payload)

	src := bytes.NewReader(compressed)
	s := NewInflateStream(NewBoundedStream(src, 0, int64(len(compressed))))

	got, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	n, err := s.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestInflateStreamIgnoresTrailingBytes(t *testing.T) {
	// the bounded window stops the decoder at the entry boundary even when
	// the underlying stream carries neighboring data
	payload := []byte("windowed")
	compressed := rawDeflate(t, payload)

	whole := append(append([]byte("left"), compressed...), []byte("right")...)
	src := bytes.NewReader(whole)
	s := NewInflateStream(NewBoundedStream(src, 4, int64(4+len(compressed))))

	got, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestInflateStreamSmallReads(t *testing.T) {
	payload := bytes.Repeat([]byte("incremental"), 1000)
	compressed := rawDeflate(t, payload)

	s := NewInflateStream(NewBoundedStream(bytes.NewReader(compressed), 0, int64(len(compressed))))

	var got []byte
	buf := make([]byte, 7)
	for {
		n, err := s.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, payload, got)
}

func TestInflateStreamSeek(t *testing.T) {
	compressed := rawDeflate(t, []byte("forward-only"))
	s := NewInflateStream(NewBoundedStream(bytes.NewReader(compressed), 0, int64(len(compressed))))

	buf := make([]byte, 4)
	_, err := io.ReadFull(s, buf)
	require.NoError(t, err)

	// position query works
	pos, err := s.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pos)

	// anything else is declined
	_, err = s.Seek(0, io.SeekStart)
	assert.Error(t, err)
	_, err = s.Seek(2, io.SeekCurrent)
	assert.Error(t, err)
}

func TestInflateStreamFailureIsTerminal(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0x00, 0x13, 0x37, 0xde, 0xad, 0xbe, 0xef}
	s := NewInflateStream(NewBoundedStream(bytes.NewReader(garbage), 0, int64(len(garbage))))

	var firstErr error
	buf := make([]byte, 64)
	for i := 0; i < 8 && firstErr == nil; i++ {
		_, firstErr = s.Read(buf)
	}
	require.Error(t, firstErr)
	require.NotEqual(t, io.EOF, firstErr)

	// a failed stream stays failed
	_, err := s.Read(buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}
