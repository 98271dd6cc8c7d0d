package monocle

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/elizagamedev/monocle/frame"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Options control how a raster is turned into a frame.
type Options struct {
	// Colors reduces the image to at most this many colors before encoding,
	// zero leaves it untouched.
	Colors int
	// Interpolation is used when the image is not already 640 by 400.
	Interpolation resize.InterpolationFunction
	// Chroma selects how each column pair's chroma is derived.
	Chroma frame.Chroma
}

func defaultOptions() Options {
	return Options{
		Interpolation: resize.Lanczos3,
		Chroma:        frame.ChromaFirst,
	}
}

// Option configures Encode, Transfer and Batch.
type Option func(*Options)

// WithColors sets Options.Colors.
func WithColors(n int) Option {
	return func(o *Options) {
		o.Colors = n
	}
}

// WithInterpolation sets Options.Interpolation.
func WithInterpolation(i resize.InterpolationFunction) Option {
	return func(o *Options) {
		o.Interpolation = i
	}
}

// WithChroma sets Options.Chroma.
func WithChroma(c frame.Chroma) Option {
	return func(o *Options) {
		o.Chroma = c
	}
}

func newOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Prepare returns src resampled to the display size and, if requested,
// reduced in colors.
func Prepare(src image.Image, opts ...Option) image.Image {
	o := newOptions(opts)

	m := src
	if b := m.Bounds(); b.Dx() != frame.Width || b.Dy() != frame.Height {
		m = resize.Resize(frame.Width, frame.Height, m, o.Interpolation)
	}

	if o.Colors > 0 {
		b := m.Bounds()
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, o.Colors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
		m = pm
	}

	return m
}

func readImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

// EncodeImage prepares src and encodes it into a frame.
func EncodeImage(src image.Image, opts ...Option) (*frame.Frame, error) {
	o := newOptions(opts)
	return frame.FromImage(Prepare(src, opts...), frame.WithChroma(o.Chroma))
}
