/*
Package packet implements the Monocle wire format.

An encoded frame is split into payloads no larger than a configured maximum
transmission size. Each payload starts with a single byte holding the number
of rows it carries, followed by each row as a 32-bit header and the row's
bytes. Headers are written little-endian and laid out as:

	bit  31     compressed flag
	bits 29-30  reserved, zero
	bits 18-28  row index, 0 to 799
	bits 9-17   column pair offset, 0 to 511
	bits 0-8    data length in bytes, 0 to 511

Rows are packed in row index order. A confirmation payload is a bitmap of
row indices, see Bitmap.
*/
package packet

import (
	"errors"
	"fmt"

	"github.com/elizagamedev/monocle/frame"
)

const (
	// MetadataSize is the size of the row count preceding the rows.
	MetadataSize = 1
	// HeaderSize is the size of each row header.
	HeaderSize = 4

	maxRows = 0xff
)

// ErrFormat is returned for rows that cannot be represented on the wire and
// for payloads that do not parse.
var ErrFormat = errors.New("packet: format violation")

// Payload is one packed chunk of the serialized frame.
type Payload struct {
	// Rows lists the row indices carried, ascending.
	Rows []int
	Data []byte
}

// Serialized is a frame split into payloads.
type Serialized struct {
	Payloads []*Payload

	byIndex map[int]*Payload
	all     Bitmap
}

// Payload returns the payload carrying the given row index.
func (s *Serialized) Payload(index int) (*Payload, bool) {
	p, ok := s.byIndex[index]
	return p, ok
}

// Indices returns the set of every row index in the serialized frame.
func (s *Serialized) Indices() Bitmap {
	return s.all
}

type builder struct {
	mtu      int
	payloads []*Payload
	current  *Payload
}

func (b *builder) seal() {
	if b.current != nil {
		b.current.Data[0] = byte(len(b.current.Rows))
		b.payloads = append(b.payloads, b.current)
		b.current = nil
	}
}

func (b *builder) add(h Header, data []byte) error {
	entry := HeaderSize + len(data)
	if MetadataSize+entry > b.mtu {
		return fmt.Errorf("%w: row %d needs %d bytes, limit is %d", ErrFormat, h.Index, MetadataSize+entry, b.mtu)
	}

	if b.current != nil && (len(b.current.Data)+entry > b.mtu || len(b.current.Rows) == maxRows) {
		b.seal()
	}
	if b.current == nil {
		b.current = &Payload{Data: make([]byte, MetadataSize, b.mtu)}
	}

	buf, err := AppendHeader(b.current.Data, h)
	if err != nil {
		return err
	}

	b.current.Data = append(buf, data...)
	b.current.Rows = append(b.current.Rows, h.Index)

	return nil
}

// Build serializes f into payloads of at most mtu bytes each.
func Build(f *frame.Frame, mtu int) (*Serialized, error) {
	b := builder{mtu: mtu}
	for _, index := range f.Indices() {
		r := f.Row(index)
		h := Header{
			Compressed: r.Compressed,
			Index:      index,
			Offset:     r.Offset,
			Size:       len(r.Data),
		}
		if err := b.add(h, r.Data); err != nil {
			return nil, err
		}
	}
	b.seal()

	s := &Serialized{
		Payloads: b.payloads,
		byIndex:  make(map[int]*Payload),
	}
	for _, p := range s.Payloads {
		for _, index := range p.Rows {
			s.byIndex[index] = p
			s.all.Set(index)
		}
	}

	return s, nil
}
