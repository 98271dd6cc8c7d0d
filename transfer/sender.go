package transfer

import (
	"github.com/elizagamedev/monocle/packet"
)

// Sender tracks the sending side of a transfer.
type Sender struct {
	image *packet.Serialized
	all   packet.Bitmap
	queue []*packet.Payload
	state State
}

// NewSender returns a Sender with every payload of s queued in order.
func NewSender(s *packet.Serialized) *Sender {
	sender := &Sender{
		image: s,
		all:   s.Indices(),
		queue: append([]*packet.Payload(nil), s.Payloads...),
	}
	sender.update()
	return sender
}

// ResumeSender returns a Sender for a receiver that may already hold some of
// s. It opens with a confirmation round and only queues what is missing.
func ResumeSender(s *packet.Serialized) *Sender {
	return &Sender{
		image: s,
		all:   s.Indices(),
		state: AwaitingConfirmation,
	}
}

func (s *Sender) update() {
	if s.state == Done {
		return
	}
	if len(s.queue) > 0 {
		s.state = Streaming
	} else {
		s.state = AwaitingConfirmation
	}
}

// State returns the current protocol state.
func (s *Sender) State() State {
	return s.state
}

// Done reports whether the receiver has confirmed every row.
func (s *Sender) Done() bool {
	return s.state == Done
}

// Pending returns the number of payloads queued for (re)transmission.
func (s *Sender) Pending() int {
	return len(s.queue)
}

// Next returns the next message to transmit.
func (s *Sender) Next() (Message, error) {
	if s.state == Done {
		return Message{}, ErrDone
	}

	if len(s.queue) == 0 {
		return Message{Kind: Confirmation, Data: s.all.Bytes()}, nil
	}

	p := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.update()

	return Message{Kind: Data, Data: p.Data}, nil
}

// OnConfirmationResponse processes the bitmap of rows the receiver holds.
// Responses arriving after completion are ignored.
func (s *Sender) OnConfirmationResponse(b []byte) error {
	if s.state == Done {
		return nil
	}

	held, err := packet.ParseBitmap(b)
	if err != nil {
		return err
	}

	missing := s.all.Difference(held)
	if len(missing) == 0 {
		s.state = Done
		s.queue = nil
		return nil
	}

	var covered packet.Bitmap
	for _, p := range s.queue {
		for _, index := range p.Rows {
			covered.Set(index)
		}
	}

	for _, index := range missing {
		if covered.Has(index) {
			continue
		}
		p, ok := s.image.Payload(index)
		if !ok {
			continue
		}
		for _, i := range p.Rows {
			covered.Set(i)
		}
		s.queue = append(s.queue, p)
	}
	s.update()

	return nil
}
