package frame

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/elizagamedev/monocle/yuv"
)

var errWrongSize = errors.New("frame: image is wrong size")

// FromImage encodes m, which must be exactly Width by Height pixels.
func FromImage(m image.Image, opts ...Option) (*Frame, error) {
	b := m.Bounds()
	if b.Dx() != Width || b.Dy() != Height {
		return nil, errWrongSize
	}

	return Encode(SourceFunc(func(y, x int) uint32 {
		r, g, bl, _ := m.At(b.Min.X+x, b.Min.Y+y).RGBA()
		return yuv.Pack(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
	}), opts...)
}

// ToImage decodes f into a new opaque image, black where nothing is stored.
func ToImage(f *Frame) (*image.RGBA, error) {
	m := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(m, m.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	if err := Decode(f, SinkFunc(func(y, x int, rgb uint32) {
		r, g, b := yuv.Unpack(rgb)
		m.SetRGBA(x, y, color.RGBA{r, g, b, 0xff})
	})); err != nil {
		return nil, err
	}
	return m, nil
}
