package queue

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-cc/api"
)

func TestReadFromWriteToRoundTrip(t *testing.T) {
	payload := strings.Repeat("0123456789abcdef", 3*StreamChunkSize/16+7)
	q := NewLockFreeSPSC[byte](StreamChunkSize, 4096)

	type result struct {
		n   int64
		err error
	}
	readDone := make(chan result, 1)
	go func() {
		n, err := ReadFrom(strings.NewReader(payload), q)
		readDone <- result{n, err}
	}()

	var out bytes.Buffer
	written, err := WriteTo(q, &out)
	require.NoError(t, err)

	r := <-readDone
	require.NoError(t, r.err)
	assert.Equal(t, int64(len(payload)), r.n)
	assert.Equal(t, int64(len(payload)), written)
	assert.Equal(t, payload, out.String())
}

func TestReadFromPushesSentinelOnError(t *testing.T) {
	boom := errors.New("boom")
	sink := NewSink[byte](0)
	_, err := ReadFrom(iotest.ErrReader(boom), sink)
	assert.ErrorIs(t, err, boom)
	assert.True(t, sink.Closed())
}

func TestReaderWriterAdapters(t *testing.T) {
	q := NewMPMC[byte]()
	w := NewWriter(q)

	n, err := io.Copy(w, strings.NewReader("stream glue"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, api.ErrClosed)

	got, err := io.ReadAll(NewReader(q))
	require.NoError(t, err)
	assert.Equal(t, "stream glue", string(got))
}

func TestWriteToPropagatesWriterError(t *testing.T) {
	src := NewStringSource("data")
	_, err := WriteTo(src, errWriter{})
	assert.Error(t, err)
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, io.ErrShortWrite }
