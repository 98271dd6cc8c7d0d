package yuv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRGB(t *testing.T) {
	tables := []struct {
		name    string
		r, g, b uint8
		y, u, v float64
	}{
		{"black", 0, 0, 0, 0, 128, 128},
		{"white", 255, 255, 255, 255, 128, 128},
		{"red", 255, 0, 0, 76.245, 84.905, 255},
		{"blue", 0, 0, 255, 29.07, 255, 107.345},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			y, u, v := FromRGB(table.r, table.g, table.b)
			assert.InDelta(t, table.y, y, 1e-9)
			assert.InDelta(t, table.u, u, 1e-9)
			assert.InDelta(t, table.v, v, 1e-9)
		})
	}
}

func TestToRGBClamps(t *testing.T) {
	r, g, b := ToRGB(255, 255, 255)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(121), g)
	assert.Equal(t, uint8(255), b)

	r, g, b = ToRGB(0, 0, 0)
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(134), g)
	assert.Equal(t, uint8(0), b)
}

func TestNeutral(t *testing.T) {
	r, g, b := ToRGB(LumaEmpty, ChromaEmpty, ChromaEmpty)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestPack(t *testing.T) {
	rgb := Pack(0x12, 0x34, 0x56)
	assert.Equal(t, uint32(0x123456), rgb)

	r, g, b := Unpack(0xff123456)
	assert.Equal(t, [3]uint8{0x12, 0x34, 0x56}, [3]uint8{r, g, b})
}
