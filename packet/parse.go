package packet

import (
	"fmt"

	"github.com/elizagamedev/monocle/frame"
	"github.com/elizagamedev/monocle/row"
)

// Entry is a row parsed from a payload.
type Entry struct {
	Index int
	Row   *row.Row
}

// Parse returns every row carried by a data payload. The payload must be
// consumed exactly.
func Parse(payload []byte) ([]Entry, error) {
	if len(payload) < MetadataSize {
		return nil, fmt.Errorf("%w: empty payload", ErrFormat)
	}

	n := int(payload[0])
	entries := make([]Entry, 0, n)

	o := MetadataSize
	for i := 0; i < n; i++ {
		if o+HeaderSize > len(payload) {
			return nil, fmt.Errorf("%w: truncated header of row %d", ErrFormat, i)
		}
		h := ReadHeader(payload[o:])
		o += HeaderSize

		if h.Index >= frame.Rows {
			return nil, fmt.Errorf("%w: row index %d out of range", ErrFormat, h.Index)
		}
		if o+h.Size > len(payload) {
			return nil, fmt.Errorf("%w: truncated data of row %d", ErrFormat, h.Index)
		}

		data := make([]byte, h.Size)
		copy(data, payload[o:o+h.Size])
		o += h.Size

		entries = append(entries, Entry{
			Index: h.Index,
			Row: &row.Row{
				Offset:     h.Offset,
				Data:       data,
				Compressed: h.Compressed,
			},
		})
	}

	if o != len(payload) {
		return nil, fmt.Errorf("%w: %d bytes of trailing data", ErrFormat, len(payload)-o)
	}

	return entries, nil
}
