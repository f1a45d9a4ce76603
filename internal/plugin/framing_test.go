package plugin

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, []byte(`{"getCapability":{}}`)))
	require.NoError(t, WriteMessage(&buf, []byte(`{}`)))

	require.Equal(t, uint64(20), binary.LittleEndian.Uint64(buf.Bytes()[:8]))

	first, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, `{"getCapability":{}}`, string(first))
	second, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, `{}`, string(second))

	_, err = ReadMessage(&buf)
	require.ErrorIs(t, err, io.EOF)
}

func TestReadMessageTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, []byte(`{"getCapability":{}}`)))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-3])
	_, err := ReadMessage(truncated)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadMessage(bytes.NewReader([]byte{1, 0, 0}))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadMessageTooLarge(t *testing.T) {
	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], MaxMessageSize+1)
	_, err := ReadMessage(bytes.NewReader(header[:]))
	require.ErrorIs(t, err, ErrMessageTooLarge)
}
