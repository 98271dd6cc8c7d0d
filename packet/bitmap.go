package packet

import (
	"fmt"

	"github.com/elizagamedev/monocle/frame"
)

// BitmapSize is the length in bytes of a confirmation payload.
const BitmapSize = (frame.Rows + 7) >> 3

// Bitmap is a set of row indices. Bit i lives in byte i/8 at position i%8,
// least significant bit first.
type Bitmap [BitmapSize]byte

// ParseBitmap reads a bitmap from a confirmation payload. Shorter input is
// zero extended, as senders may trim trailing zero bytes.
func ParseBitmap(b []byte) (Bitmap, error) {
	var m Bitmap
	if len(b) > BitmapSize {
		return m, fmt.Errorf("%w: bitmap is %d bytes, limit is %d", ErrFormat, len(b), BitmapSize)
	}
	copy(m[:], b)
	return m, nil
}

// Set adds index to the set.
func (m *Bitmap) Set(index int) {
	if index >= 0 && index < frame.Rows {
		m[index>>3] |= 1 << (index & 7)
	}
}

// Has reports whether index is in the set.
func (m Bitmap) Has(index int) bool {
	if index < 0 || index >= frame.Rows {
		return false
	}
	return m[index>>3]&(1<<(index&7)) != 0
}

// Len returns the number of indices in the set.
func (m Bitmap) Len() int {
	n := 0
	for i := 0; i < frame.Rows; i++ {
		if m.Has(i) {
			n++
		}
	}
	return n
}

// Indices returns the indices in the set, ascending.
func (m Bitmap) Indices() []int {
	var indices []int
	for i := 0; i < frame.Rows; i++ {
		if m.Has(i) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Difference returns the indices in m that are not in o, ascending.
func (m Bitmap) Difference(o Bitmap) []int {
	var indices []int
	for i := 0; i < frame.Rows; i++ {
		if m.Has(i) && !o.Has(i) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Bytes returns the bitmap as a confirmation payload.
func (m Bitmap) Bytes() []byte {
	b := make([]byte, BitmapSize)
	copy(b, m[:])
	return b
}
