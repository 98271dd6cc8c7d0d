package frame

import (
	"sort"

	"github.com/elizagamedev/monocle/row"
	"github.com/elizagamedev/monocle/yuv"
)

// Sink receives decoded pixels as packed R<<16 | G<<8 | B values.
type Sink interface {
	SetRGB(y, x int, rgb uint32)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(y, x int, rgb uint32)

// SetRGB calls f(y, x, rgb).
func (f SinkFunc) SetRGB(y, x int, rgb uint32) {
	f(y, x, rgb)
}

func (f *Frame) scanlines() []int {
	seen := make(map[int]struct{}, len(f.Luma)+len(f.Chroma))
	for y := range f.Luma {
		seen[y] = struct{}{}
	}
	for y := range f.Chroma {
		seen[y] = struct{}{}
	}
	lines := make([]int, 0, len(seen))
	for y := range seen {
		lines = append(lines, y)
	}
	sort.Ints(lines)
	return lines
}

// span returns the column pair range covered by either plane's row.
func span(l, c row.Samples) (int, int) {
	start, end := colPairs, 0
	if l.Present() {
		start = min(start, l.Offset)
		end = max(end, l.End())
	}
	if c.Present() {
		start = min(start, c.Offset)
		end = max(end, c.End())
	}
	return start, min(end, colPairs)
}

// Decode writes every pixel covered by a stored row to dst. Pixels outside
// the stored ranges, and scanlines present in neither plane, are left for
// the caller to fill with black.
func Decode(f *Frame, dst Sink) error {
	for _, y := range f.scanlines() {
		l, err := f.Luma[y].Samples(yuv.LumaEmpty)
		if err != nil {
			return err
		}
		c, err := f.Chroma[y].Samples(yuv.ChromaEmpty)
		if err != nil {
			return err
		}

		start, end := span(l, c)
		for i := start; i < end; i++ {
			y1, y2 := l.At(i)
			u, v := c.At(i)

			x := i << 1
			dst.SetRGB(y, x, yuv.Pack(yuv.ToRGB(y1, u, v)))
			dst.SetRGB(y, x+1, yuv.Pack(yuv.ToRGB(y2, u, v)))
		}
	}
	return nil
}
