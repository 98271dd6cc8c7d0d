package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/elizagamedev/monocle/frame"
)

const (
	compressedBit = 1 << 31

	indexShift  = 18
	offsetShift = 9

	indexMask = 0x7ff
	fieldMask = 0x1ff

	// MaxOffset is the largest column pair offset a header can carry.
	MaxOffset = fieldMask
	// MaxSize is the largest row data length a header can carry.
	MaxSize = fieldMask
)

// Header describes one row within a payload.
type Header struct {
	Compressed bool
	Index      int
	Offset     int
	Size       int
}

// Pack returns the header as a 32-bit word.
func (h Header) Pack() (uint32, error) {
	switch {
	case h.Index < 0 || h.Index >= frame.Rows:
		return 0, fmt.Errorf("%w: row index %d out of range", ErrFormat, h.Index)
	case h.Offset < 0 || h.Offset > MaxOffset:
		return 0, fmt.Errorf("%w: row %d offset %d exceeds %d", ErrFormat, h.Index, h.Offset, MaxOffset)
	case h.Size < 0 || h.Size > MaxSize:
		return 0, fmt.Errorf("%w: row %d is %d bytes, limit is %d", ErrFormat, h.Index, h.Size, MaxSize)
	}

	v := uint32(h.Index)<<indexShift | uint32(h.Offset)<<offsetShift | uint32(h.Size)
	if h.Compressed {
		v |= compressedBit
	}
	return v, nil
}

// UnpackHeader is the inverse of Header.Pack. Reserved bits are ignored.
func UnpackHeader(v uint32) Header {
	return Header{
		Compressed: v&compressedBit != 0,
		Index:      int(v >> indexShift & indexMask),
		Offset:     int(v >> offsetShift & fieldMask),
		Size:       int(v & fieldMask),
	}
}

func (h Header) put(b []byte) error {
	v, err := h.Pack()
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

// AppendHeader appends the packed header to b.
func AppendHeader(b []byte, h Header) ([]byte, error) {
	var tmp [HeaderSize]byte
	if err := h.put(tmp[:]); err != nil {
		return b, err
	}
	return append(b, tmp[:]...), nil
}

// ReadHeader unpacks the header at the start of b.
func ReadHeader(b []byte) Header {
	return UnpackHeader(binary.LittleEndian.Uint32(b))
}
