package mci

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/elizagamedev/monocle/frame"
	"github.com/elizagamedev/monocle/packet"
	"github.com/elizagamedev/monocle/row"
	"github.com/elizagamedev/monocle/yuv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	m, err := frame.Encode(frame.SourceFunc(func(y, x int) uint32 {
		if (x/40+y/25)%2 == 0 {
			return 0
		}
		return yuv.Pack(uint8(y), 90, 200)
	}))
	require.NoError(t, err)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte("MCI1"), b[:4])
	assert.Equal(t, uint16(len(m.Indices())), binary.LittleEndian.Uint16(b[4:]))

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, m.Luma, got.Luma)
	assert.Equal(t, m.Chroma, got.Chroma)
}

func TestEmpty(t *testing.T) {
	b, err := Marshal(frame.New())
	require.NoError(t, err)
	assert.Len(t, b, 4+2+4)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Empty(t, got.Indices())
}

func TestMarshalRejectsOversizeRow(t *testing.T) {
	m := frame.New()
	m.SetRow(0, &row.Row{Data: make([]byte, packet.MaxSize+1)})
	_, err := Marshal(m)
	assert.ErrorIs(t, err, packet.ErrFormat)
}

// reseal recomputes the trailing checksum after b has been tampered with.
func reseal(b []byte) []byte {
	body := b[:len(b)-4]
	return binary.LittleEndian.AppendUint32(append([]byte(nil), body...), crc32.ChecksumIEEE(body))
}

func TestUnmarshalErrors(t *testing.T) {
	m := frame.New()
	m.SetRow(1, &row.Row{Offset: 2, Data: []byte{1, 2}})
	m.SetRow(401, &row.Row{Offset: 2, Data: []byte{3, 4}})
	valid, err := Marshal(m)
	require.NoError(t, err)

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'

	badChecksum := append([]byte(nil), valid...)
	badChecksum[len(badChecksum)-1] ^= 0xff

	truncated := reseal(append(append([]byte(nil), valid[:len(valid)-5]...), 0, 0, 0, 0))

	trailing := append(append([]byte(nil), valid[:len(valid)-4]...), 0xaa, 0, 0, 0, 0)
	trailing = reseal(trailing)

	duplicate := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(duplicate[6+6:], binary.LittleEndian.Uint32(duplicate[6:]))
	duplicate = reseal(duplicate)

	tables := []struct {
		name string
		b    []byte
		err  error
	}{
		{"short", valid[:5], errNotEnough},
		{"magic", badMagic, errBadMagic},
		{"checksum", badChecksum, errBadChecksum},
		{"truncated", truncated, errNotEnough},
		{"trailing", trailing, errTooMuch},
		{"duplicate", duplicate, errDuplicate},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Unmarshal(table.b)
			assert.ErrorIs(t, err, table.err)
		})
	}
}
