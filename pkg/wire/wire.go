// Package wire frames 16-bit command words for byte-oriented SPI hosts.
// Words go out MSB first, which is the order the RHD2000 shifts them.
package wire

import (
	"encoding/binary"
	"io"
)

// WordSize is the number of bytes in one command word.
const WordSize = 2

// PutWords writes words into dst, big-endian.
func PutWords(dst []byte, words []uint16) error {
	if len(dst) < len(words)*WordSize {
		return io.ErrShortBuffer
	}
	for i, w := range words {
		binary.BigEndian.PutUint16(dst[i*WordSize:], w)
	}
	return nil
}

// Words decodes src into dst and returns the number of whole words decoded.
func Words(dst []uint16, src []byte) int {
	n := len(src) / WordSize
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = binary.BigEndian.Uint16(src[i*WordSize:])
	}
	return n
}
