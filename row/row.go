/*
Package row implements the sparse scanline encoding used by the Monocle
display codec.

A scanline is a sequence of column pairs, each holding two byte samples. The
leading run of pairs equal to the plane's empty value is elided and replaced
by an offset; every pair from the first non-empty one onwards is stored
literally, including blank pairs between non-empty ones. Trailing blank pairs
are dropped and a row with no non-empty pair is not stored at all. The stored
bytes are deflated when that makes them strictly smaller.
*/
package row

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

var errCorrupt = errors.New("row: corrupt data")

// MaxLen is the size of a scanline stored from its first column pair.
const MaxLen = 640

// Row is one encoded scanline of a plane.
type Row struct {
	// Offset is the column pair index of the first stored pair.
	Offset int
	// Data holds two bytes per column pair, possibly compressed.
	Data []byte
	// Compressed is true if Data is zlib compressed.
	Compressed bool
}

// Decompress returns the raw sample pairs of the row.
func (r *Row) Decompress() ([]byte, error) {
	if !r.Compressed {
		return r.Data, nil
	}
	return decompress(r.Data)
}

// Samples decompresses the row for random access. A nil row yields samples
// that report the empty pair everywhere.
func (r *Row) Samples(empty byte) (Samples, error) {
	s := Samples{empty: empty}
	if r == nil {
		return s, nil
	}
	data, err := r.Decompress()
	if err != nil {
		return s, err
	}
	s.Offset, s.Data, s.present = r.Offset, data, true
	return s, nil
}

// Samples is a decompressed row.
type Samples struct {
	Offset int
	Data   []byte

	empty   byte
	present bool
}

// Present reports whether the samples came from a stored row.
func (s Samples) Present() bool {
	return s.present
}

// End returns the column pair index following the last stored pair.
func (s Samples) End() int {
	return s.Offset + len(s.Data)>>1
}

// At returns the sample pair at column pair i, or the empty pair if i is
// outside the stored range.
func (s Samples) At(i int) (byte, byte) {
	idx := (i - s.Offset) << 1
	if idx < 0 || idx+1 >= len(s.Data) {
		return s.empty, s.empty
	}
	return s.Data[idx], s.Data[idx+1]
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, MaxLen+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if len(out) > MaxLen {
		return nil, fmt.Errorf("%w: inflates past %d bytes", errCorrupt, MaxLen)
	}
	return out, nil
}

func ulp(x float64) float64 {
	x = math.Abs(x)
	return math.Nextafter(x, math.Inf(1)) - x
}

// approxEqual treats values within two ulps of the larger operand as equal.
func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < math.Max(ulp(a), ulp(b))*2
}
