/*
Package mci implements the file format used to keep an encoded Monocle frame
on disk.

The file starts with the four byte magic "MCI1" and a little-endian 16-bit
count of rows. Each row follows as the same 32-bit header used on the wire
and the row's bytes, in ascending row index order. A little-endian CRC-32
(IEEE) of everything before it closes the file.
*/
package mci

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/elizagamedev/monocle/frame"
	"github.com/elizagamedev/monocle/packet"
	"github.com/elizagamedev/monocle/row"
)

// Extension is the expected filename extension used when writing to disk.
const Extension = ".mci"

const (
	magic       = "MCI1"
	countSize   = 2
	trailerSize = crc32.Size
)

var (
	errBadMagic    = errors.New("mci: invalid magic")
	errBadChecksum = errors.New("mci: checksum mismatch")
	errNotEnough   = errors.New("mci: not enough data")
	errTooMuch     = errors.New("mci: too much data")
	errDuplicate   = errors.New("mci: duplicate row")
)

// File is an encoded frame. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type File struct {
	Frame *frame.Frame
}

// MarshalBinary encodes the frame into binary form and returns the result.
func (f *File) MarshalBinary() ([]byte, error) {
	indices := f.Frame.Indices()

	b := new(bytes.Buffer)
	b.WriteString(magic)

	if err := binary.Write(b, binary.LittleEndian, uint16(len(indices))); err != nil {
		return nil, err
	}

	var tmp []byte
	for _, index := range indices {
		r := f.Frame.Row(index)

		var err error
		tmp, err = packet.AppendHeader(tmp[:0], packet.Header{
			Compressed: r.Compressed,
			Index:      index,
			Offset:     r.Offset,
			Size:       len(r.Data),
		})
		if err != nil {
			return nil, err
		}
		b.Write(tmp)
		b.Write(r.Data)
	}

	if err := binary.Write(b, binary.LittleEndian, crc32.ChecksumIEEE(b.Bytes())); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the frame from binary form.
func (f *File) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic)+countSize+trailerSize {
		return errNotEnough
	}
	if string(b[:len(magic)]) != magic {
		return errBadMagic
	}

	body, trailer := b[:len(b)-trailerSize], b[len(b)-trailerSize:]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(trailer) {
		return errBadChecksum
	}

	n := int(binary.LittleEndian.Uint16(body[len(magic):]))
	o := len(magic) + countSize

	m := frame.New()
	for i := 0; i < n; i++ {
		if o+packet.HeaderSize > len(body) {
			return errNotEnough
		}
		h := packet.ReadHeader(body[o:])
		o += packet.HeaderSize

		if h.Index >= frame.Rows {
			return packet.ErrFormat
		}
		if o+h.Size > len(body) {
			return errNotEnough
		}
		if m.Row(h.Index) != nil {
			return errDuplicate
		}

		data := make([]byte, h.Size)
		copy(data, body[o:o+h.Size])
		o += h.Size

		m.SetRow(h.Index, &row.Row{
			Offset:     h.Offset,
			Data:       data,
			Compressed: h.Compressed,
		})
	}

	if o != len(body) {
		return errTooMuch
	}

	f.Frame = m
	return nil
}

// Marshal returns the binary form of m.
func Marshal(m *frame.Frame) ([]byte, error) {
	return (&File{Frame: m}).MarshalBinary()
}

// Unmarshal decodes a frame from its binary form.
func Unmarshal(b []byte) (*frame.Frame, error) {
	var f File
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return f.Frame, nil
}
