/*
Package transfer implements the Monocle frame transfer protocol.

A Sender streams the payloads of a serialized frame and, once its queue is
empty, sends confirmation requests carrying the bitmap of every row it has. A
Receiver stores the rows it is given and answers a confirmation request with
the bitmap of the rows it holds, or echoes the request once it holds them
all. The sender queues again every payload owning a row the receiver lacks.

Any message may be lost, duplicated or reordered: data payloads are
idempotent and a lost confirmation simply leads to another round. Neither
side keeps timers, the caller drives the exchange, see Run.
*/
package transfer

import "errors"

// ErrDone is returned by Sender.Next once the transfer has completed.
var ErrDone = errors.New("transfer: nothing left to send")

// State is the protocol state of a Sender or Receiver.
type State int

const (
	// Streaming means the sender has data payloads queued.
	Streaming State = iota
	// AwaitingConfirmation means the sender's queue is empty and it sends
	// confirmation requests.
	AwaitingConfirmation
	// Receiving means the receiver has not yet confirmed the whole frame.
	Receiving
	// Done is terminal for either side.
	Done
)

func (s State) String() string {
	switch s {
	case Streaming:
		return "streaming"
	case AwaitingConfirmation:
		return "awaiting confirmation"
	case Receiving:
		return "receiving"
	case Done:
		return "done"
	}
	return "unknown"
}

// Kind tells the two kinds of sender message apart. It travels out of band.
type Kind int

const (
	// Data carries a packed payload of rows.
	Data Kind = iota
	// Confirmation carries the bitmap of every row the sender has.
	Confirmation
)

func (k Kind) String() string {
	if k == Confirmation {
		return "confirmation"
	}
	return "data"
}

// Message is what a Sender transmits next.
type Message struct {
	Kind Kind
	Data []byte
}
