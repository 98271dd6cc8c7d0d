package frame

import (
	"github.com/elizagamedev/monocle/row"
	"github.com/elizagamedev/monocle/yuv"
)

// Source provides the pixels of a frame as packed R<<16 | G<<8 | B values.
type Source interface {
	RGB(y, x int) uint32
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(y, x int) uint32

// RGB calls f(y, x).
func (f SourceFunc) RGB(y, x int) uint32 {
	return f(y, x)
}

// Chroma selects how the U and V samples of a column pair are derived.
type Chroma int

const (
	// ChromaFirst uses the first pixel of the pair.
	ChromaFirst Chroma = iota
	// ChromaAverage uses the mean of both pixels.
	ChromaAverage
)

type options struct {
	chroma Chroma
}

// Option configures Encode.
type Option func(*options)

// WithChroma sets the chroma derivation, the default is ChromaFirst.
func WithChroma(c Chroma) Option {
	return func(o *options) {
		o.chroma = c
	}
}

// Encode reads every pixel of src and returns the encoded frame.
func Encode(src Source, opts ...Option) (*Frame, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f := New()
	luma, chroma := row.NewEncoder(lumaEmpty), row.NewEncoder(chromaEmpty)

	for y := 0; y < Height; y++ {
		luma.Reset()
		chroma.Reset()

		for i := 0; i < colPairs; i++ {
			x := i << 1

			y1, u1, v1 := yuv.FromRGB(yuv.Unpack(src.RGB(y, x)))
			y2, u2, v2 := yuv.FromRGB(yuv.Unpack(src.RGB(y, x+1)))

			u, v := u1, v1
			if o.chroma == ChromaAverage {
				u, v = (u1+u2)/2, (v1+v2)/2
			}

			luma.Push(i, y1, y2)
			chroma.Push(i, u, v)
		}

		r, err := luma.Row()
		if err != nil {
			return nil, err
		}
		if r != nil {
			f.Luma[y] = r
		}

		if r, err = chroma.Row(); err != nil {
			return nil, err
		}
		if r != nil {
			f.Chroma[y] = r
		}
	}

	return f, nil
}
