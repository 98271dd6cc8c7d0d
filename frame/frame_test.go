package frame

import (
	"image"
	"image/color"
	"testing"

	"github.com/elizagamedev/monocle/row"
	"github.com/elizagamedev/monocle/yuv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	colorA = yuv.Pack(200, 50, 100)
	colorB = yuv.Pack(30, 180, 60)
)

// testSource is black above scanline 100 and below scanline 300, and in
// between black up to column 200, colorA up to column 440 and colorB after.
func testSource(y, x int) uint32 {
	switch {
	case y < 100 || y >= 300:
		return 0
	case x < 200:
		return 0
	case x < 440:
		return colorA
	default:
		return colorB
	}
}

func fixedPoint(rgb uint32) (uint8, uint8, uint8) {
	y, u, v := yuv.FromRGB(yuv.Unpack(rgb))
	return yuv.ToRGB(uint8(y), uint8(u), uint8(v))
}

func TestEncodeSparse(t *testing.T) {
	f, err := Encode(SourceFunc(testSource))
	require.NoError(t, err)

	assert.Len(t, f.Luma, 200)
	assert.Len(t, f.Chroma, 200)
	assert.Nil(t, f.Luma[50])
	assert.Nil(t, f.Chroma[350])

	r := f.Luma[150]
	require.NotNil(t, r)
	assert.Equal(t, 100, r.Offset)

	data, err := r.Decompress()
	require.NoError(t, err)
	assert.Len(t, data, (colPairs-100)*2)

	r = f.Chroma[150]
	require.NotNil(t, r)
	assert.Equal(t, 100, r.Offset)
}

func TestRoundTrip(t *testing.T) {
	f, err := Encode(SourceFunc(testSource))
	require.NoError(t, err)

	m, err := ToImage(f)
	require.NoError(t, err)

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			r, g, b := fixedPoint(testSource(y, x))
			got := m.RGBAAt(x, y)
			if !assert.InDelta(t, r, got.R, 1, "(%d, %d)", x, y) ||
				!assert.InDelta(t, g, got.G, 1, "(%d, %d)", x, y) ||
				!assert.InDelta(t, b, got.B, 1, "(%d, %d)", x, y) {
				return
			}
			assert.Equal(t, uint8(0xff), got.A)
		}
	}
}

func TestDecodeCoversOnlyStoredRange(t *testing.T) {
	f := New()
	f.Luma[7] = &row.Row{Offset: 10, Data: []byte{50, 60, 70, 80}}

	written := make(map[[2]int]uint32)
	require.NoError(t, Decode(f, SinkFunc(func(y, x int, rgb uint32) {
		written[[2]int{y, x}] = rgb
	})))

	assert.Len(t, written, 4)
	for x, l := range map[int]uint8{20: 50, 21: 60, 22: 70, 23: 80} {
		r, g, b := yuv.ToRGB(l, yuv.ChromaEmpty, yuv.ChromaEmpty)
		assert.Equal(t, yuv.Pack(r, g, b), written[[2]int{7, x}])
	}
}

func TestDecodeUnionOfPlanes(t *testing.T) {
	f := New()
	f.Luma[0] = &row.Row{Offset: 4, Data: []byte{1, 1}}
	f.Chroma[0] = &row.Row{Offset: 2, Data: []byte{9, 9}}

	var cols []int
	require.NoError(t, Decode(f, SinkFunc(func(y, x int, rgb uint32) {
		cols = append(cols, x)
	})))
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, cols)
}

func TestChromaAverage(t *testing.T) {
	src := SourceFunc(func(y, x int) uint32 {
		if y != 0 {
			return 0
		}
		if x%2 == 0 {
			return colorA
		}
		return colorB
	})

	_, u1, v1 := yuv.FromRGB(yuv.Unpack(colorA))
	_, u2, v2 := yuv.FromRGB(yuv.Unpack(colorB))

	tables := []struct {
		name  string
		opts  []Option
		wantU uint8
		wantV uint8
	}{
		{"first", nil, uint8(u1), uint8(v1)},
		{"average", []Option{WithChroma(ChromaAverage)}, uint8((u1 + u2) / 2), uint8((v1 + v2) / 2)},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			f, err := Encode(src, table.opts...)
			require.NoError(t, err)

			s, err := f.Chroma[0].Samples(yuv.ChromaEmpty)
			require.NoError(t, err)
			u, v := s.At(0)
			assert.Equal(t, table.wantU, u)
			assert.Equal(t, table.wantV, v)
		})
	}
}

func TestRowIndex(t *testing.T) {
	f := New()
	l, c := &row.Row{Offset: 1}, &row.Row{Offset: 2}
	f.SetRow(3, l)
	f.SetRow(Height+3, c)
	f.SetRow(Rows, &row.Row{})

	assert.Same(t, l, f.Row(3))
	assert.Same(t, c, f.Row(Height+3))
	assert.Nil(t, f.Row(-1))
	assert.Nil(t, f.Row(Rows))
	assert.Equal(t, []int{3, Height + 3}, f.Indices())
}

func TestStats(t *testing.T) {
	f := New()
	f.Luma[0] = &row.Row{Data: make([]byte, 10)}
	f.Luma[1] = &row.Row{Data: make([]byte, 4)}
	f.Chroma[0] = &row.Row{Data: make([]byte, 6)}

	s := f.Stats()
	assert.Equal(t, Stats{LumaRows: 2, ChromaRows: 1, LumaBytes: 14, ChromaBytes: 6}, s)
	assert.Equal(t, 20, s.Bytes())
}

func TestChecksum(t *testing.T) {
	a, err := Encode(SourceFunc(testSource))
	require.NoError(t, err)
	b, err := Encode(SourceFunc(testSource))
	require.NoError(t, err)
	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, New().Checksum(), a.Checksum())

	b.Luma[150] = &row.Row{Offset: b.Luma[150].Offset, Data: []byte{1, 2}}
	assert.NotEqual(t, a.Checksum(), b.Checksum())

	// Same rows under another index
	c := New()
	c.SetRow(1, &row.Row{Data: []byte{1, 2}})
	d := New()
	d.SetRow(2, &row.Row{Data: []byte{1, 2}})
	assert.NotEqual(t, c.Checksum(), d.Checksum())
}

func TestFromImage(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	assert.ErrorIs(t, err, errWrongSize)

	m := image.NewRGBA(image.Rect(5, 5, Width+5, Height+5))
	m.SetRGBA(5+10, 5+3, color.RGBA{200, 50, 100, 0xff})

	f, err := FromImage(m)
	require.NoError(t, err)
	require.NotNil(t, f.Luma[3])
	assert.Equal(t, 5, f.Luma[3].Offset)
	assert.Len(t, f.Luma, 1)
}
