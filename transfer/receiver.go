package transfer

import (
	"github.com/elizagamedev/monocle/frame"
	"github.com/elizagamedev/monocle/packet"
	"github.com/elizagamedev/monocle/row"
)

// Journal records every row a Receiver stores so an interrupted transfer
// can be resumed with RestoreReceiver.
type Journal interface {
	Record(index int, r *row.Row) error
}

// Receiver tracks the receiving side of a transfer.
type Receiver struct {
	rows    map[int]*row.Row
	held    packet.Bitmap
	state   State
	journal Journal
}

// NewReceiver returns an empty Receiver. j may be nil.
func NewReceiver(j Journal) *Receiver {
	return &Receiver{
		rows:    make(map[int]*row.Row),
		state:   Receiving,
		journal: j,
	}
}

// RestoreReceiver returns a Receiver already holding rows.
func RestoreReceiver(rows map[int]*row.Row, j Journal) *Receiver {
	r := NewReceiver(j)
	for index, rr := range rows {
		if index < 0 || index >= frame.Rows {
			continue
		}
		r.rows[index] = rr
		r.held.Set(index)
	}
	return r
}

// State returns the current protocol state.
func (r *Receiver) State() State {
	return r.state
}

// Done reports whether the sender's full row set has been confirmed.
func (r *Receiver) Done() bool {
	return r.state == Done
}

// Held returns the bitmap of rows received so far.
func (r *Receiver) Held() packet.Bitmap {
	return r.held
}

// Push stores every row of a data payload. A payload that does not parse, or
// that the journal fails to record, leaves the receiver unchanged.
func (r *Receiver) Push(payload []byte) error {
	entries, err := packet.Parse(payload)
	if err != nil {
		return err
	}

	if r.journal != nil {
		for _, e := range entries {
			if err := r.journal.Record(e.Index, e.Row); err != nil {
				return err
			}
		}
	}

	for _, e := range entries {
		r.rows[e.Index] = e.Row
		r.held.Set(e.Index)
	}

	return nil
}

// OnRequestConfirmation answers a confirmation request carrying the sender's
// full row set. If every row is held the request is echoed back and the
// receiver is done, otherwise the held rows are returned.
func (r *Receiver) OnRequestConfirmation(b []byte) ([]byte, error) {
	all, err := packet.ParseBitmap(b)
	if err != nil {
		return nil, err
	}

	if all == r.held {
		r.state = Done
		return append([]byte(nil), b...), nil
	}
	return r.held.Bytes(), nil
}

// Frame returns the received rows as a frame. It is complete only once the
// receiver is done.
func (r *Receiver) Frame() *frame.Frame {
	f := frame.New()
	for index, rr := range r.rows {
		f.SetRow(index, rr)
	}
	return f
}
