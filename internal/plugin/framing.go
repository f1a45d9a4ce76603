package plugin

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize ограничивает размер одного сообщения.
const MaxMessageSize = 64 << 20

var ErrMessageTooLarge = errors.New("plugin message too large")

// ReadMessage reads one frame: an 8-byte little-endian length followed by
// that many bytes of JSON. A clean end of input before the header yields
// io.EOF; a truncated frame yields io.ErrUnexpectedEOF.
func ReadMessage(r io.Reader) ([]byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint64(header[:])
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// WriteMessage writes payload as one frame.
func WriteMessage(w io.Writer, payload []byte) error {
	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
