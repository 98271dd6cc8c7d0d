/*
Package yuv implements the full-range YUV (YCbCr) color transform used by the
Monocle display codec.

All samples are one byte per channel. Results of the arithmetic are clamped
to [0, 255] rather than rejected.
*/
package yuv

// Neutral values of each channel; a pixel with Y=0, U=V=128 is black.
const (
	LumaEmpty   = 0
	ChromaEmpty = 128
)

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}

// FromRGB converts an RGB triplet to unrounded Y, U and V samples.
func FromRGB(r, g, b uint8) (y, u, v float64) {
	fr, fg, fb := float64(r), float64(g), float64(b)

	y = clamp(0.299*fr + 0.587*fg + 0.114*fb)
	u = clamp(128 - 0.169*fr - 0.331*fg + 0.500*fb)
	v = clamp(128 + 0.500*fr - 0.419*fg - 0.081*fb)
	return
}

// ToRGB converts byte Y, U and V samples back to RGB, truncating toward zero.
func ToRGB(y, u, v uint8) (r, g, b uint8) {
	fy, fu, fv := float64(y), float64(u)-128, float64(v)-128

	r = uint8(clamp(fy + 1.400*fv))
	g = uint8(clamp(fy - 0.343*fu - 0.711*fv))
	b = uint8(clamp(fy + 1.765*fu))
	return
}

// Pack packs an RGB triplet as R<<16 | G<<8 | B.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack is the inverse of Pack. Any bits above the low 24 are ignored.
func Unpack(rgb uint32) (r, g, b uint8) {
	return uint8(rgb >> 16 & 0xff), uint8(rgb >> 8 & 0xff), uint8(rgb & 0xff)
}
