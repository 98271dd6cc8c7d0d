/*
Package frame implements the Monocle sparse frame codec.

A frame is exactly 640 by 400 pixels. It is held as two sparse planes of
encoded scanlines: a luma plane with two Y samples per column pair and a
chroma plane with one U and one V sample per column pair, so chroma is
subsampled 2:1 horizontally. A scanline missing from a plane is entirely
neutral (Y=0, U=V=128), which decodes to black.

Rows of both planes share one index space: indices 0 to 399 address luma
scanlines and indices 400 to 799 address chroma scanlines.
*/
package frame

import (
	"encoding/binary"
	"hash/crc32"
	"sort"

	"github.com/elizagamedev/monocle/row"
	"github.com/elizagamedev/monocle/yuv"
)

const (
	Width  = 640
	Height = 400

	// Rows is the size of the row index space across both planes.
	Rows = Height * 2

	colPairs = Width >> 1
)

// Frame is an encoded frame. Maps are keyed by scanline.
type Frame struct {
	Luma   map[int]*row.Row
	Chroma map[int]*row.Row
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{
		Luma:   make(map[int]*row.Row),
		Chroma: make(map[int]*row.Row),
	}
}

// Row returns the row stored under the given row index, or nil.
func (f *Frame) Row(index int) *row.Row {
	switch {
	case index < 0 || index >= Rows:
		return nil
	case index < Height:
		return f.Luma[index]
	default:
		return f.Chroma[index-Height]
	}
}

// SetRow stores r under the given row index. Out of range indices are
// ignored.
func (f *Frame) SetRow(index int, r *row.Row) {
	switch {
	case index < 0 || index >= Rows:
	case index < Height:
		f.Luma[index] = r
	default:
		f.Chroma[index-Height] = r
	}
}

// Indices returns every present row index in ascending order.
func (f *Frame) Indices() []int {
	indices := make([]int, 0, len(f.Luma)+len(f.Chroma))
	for y := range f.Luma {
		indices = append(indices, y)
	}
	for y := range f.Chroma {
		indices = append(indices, y+Height)
	}
	sort.Ints(indices)
	return indices
}

// Stats summarises how much of a frame is stored.
type Stats struct {
	LumaRows    int
	ChromaRows  int
	LumaBytes   int
	ChromaBytes int
}

// Bytes returns the total stored bytes of both planes.
func (s Stats) Bytes() int {
	return s.LumaBytes + s.ChromaBytes
}

// Stats returns the row counts and stored byte counts of each plane.
func (f *Frame) Stats() Stats {
	s := Stats{
		LumaRows:   len(f.Luma),
		ChromaRows: len(f.Chroma),
	}
	for _, r := range f.Luma {
		s.LumaBytes += len(r.Data)
	}
	for _, r := range f.Chroma {
		s.ChromaBytes += len(r.Data)
	}
	return s
}

// Checksum returns a CRC-32 over every stored row in index order. Two frames
// with the same checksum almost certainly hold the same rows.
func (f *Frame) Checksum() uint32 {
	h := crc32.NewIEEE()
	var b [7]byte
	for _, index := range f.Indices() {
		r := f.Row(index)
		binary.LittleEndian.PutUint16(b[0:], uint16(index))
		binary.LittleEndian.PutUint16(b[2:], uint16(r.Offset))
		binary.LittleEndian.PutUint16(b[4:], uint16(len(r.Data)))
		b[6] = 0
		if r.Compressed {
			b[6] = 1
		}
		h.Write(b[:])
		h.Write(r.Data)
	}
	return h.Sum32()
}

var (
	lumaEmpty   = float64(yuv.LumaEmpty)
	chromaEmpty = float64(yuv.ChromaEmpty)
)
