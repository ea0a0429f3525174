package wire

import "sync"

var oneWord = &sync.Pool{New: func() interface{} { return make([]byte, WordSize) }}

// GetFrame returns a zeroed byte frame large enough for words 16-bit words.
// Single-word frames, the only size the transports clock, come from a pool;
// return them with PutFrame.
func GetFrame(words int) []byte {
	if words == 1 {
		return oneWord.Get().([]byte)
	}
	return make([]byte, words*WordSize)
}

// PutFrame clears b and hands single-word frames back to the pool.
func PutFrame(b []byte) {
	for i := range b {
		b[i] = 0
	}
	if len(b) == WordSize {
		oneWord.Put(b)
	}
}
