package monocle

import (
	"context"
	"errors"
	"fmt"

	"github.com/elizagamedev/monocle/packet"
	"github.com/elizagamedev/monocle/store"
	"github.com/elizagamedev/monocle/transfer"
)

// DefaultMTU is the payload size used when TransferOptions.MTU is zero.
const DefaultMTU = 128

var (
	errNoStore  = errors.New("monocle: resuming a session needs a database")
	errBadDrop  = errors.New("monocle: dropping every first or second message never completes")
	errMismatch = errors.New("monocle: session was started for a different frame")
)

// TransferOptions configure a simulated transfer.
type TransferOptions struct {
	// MTU is the maximum payload size in bytes.
	MTU int
	// DropEvery loses every nth message when positive. It must be at least
	// three, or no confirmation round could ever complete.
	DropEvery int
	// MaxMessages aborts the transfer after this many messages when
	// positive, leaving the session to be resumed.
	MaxMessages int
	// Session resumes an earlier transfer.
	Session string
}

// Transfer encodes in, sends it through an in-process link with the
// configured loss and writes what the receiving side reconstructed to out as
// a PNG. The receiver's rows are journalled when a database is configured;
// the returned session id can be used to resume an aborted transfer.
func (m *Monocle) Transfer(ctx context.Context, in, out string, to TransferOptions, opts ...Option) (string, transfer.Stats, error) {
	var stats transfer.Stats

	if to.DropEvery == 1 || to.DropEvery == 2 {
		return "", stats, errBadDrop
	}

	f, err := load(in, opts...)
	if err != nil {
		return "", stats, err
	}
	m.logStats(in, f)

	mtu := to.MTU
	if mtu <= 0 {
		mtu = DefaultMTU
	}
	s, err := packet.Build(f, mtu)
	if err != nil {
		return "", stats, err
	}
	m.logger.Printf("%s: %d payloads of at most %d bytes\n", in, len(s.Payloads), mtu)

	var (
		session  *store.Session
		receiver *transfer.Receiver
	)
	switch {
	case m.store == nil && to.Session != "":
		return "", stats, errNoStore
	case m.store == nil:
		receiver = transfer.NewReceiver(nil)
	case to.Session != "":
		if session, err = m.store.Session(to.Session); err != nil {
			return "", stats, err
		}
		if session.Checksum() != f.Checksum() {
			return session.ID(), stats, fmt.Errorf("%w: %s", errMismatch, session.ID())
		}
		rows, err := session.Load()
		if err != nil {
			return "", stats, err
		}
		m.logger.Printf("resuming session %s with %d rows\n", session.ID(), len(rows))
		receiver = transfer.RestoreReceiver(rows, session)
	default:
		if session, err = m.store.NewSession(f.Checksum()); err != nil {
			return "", stats, err
		}
		m.logger.Printf("started session %s\n", session.ID())
		receiver = transfer.NewReceiver(session)
	}

	var id string
	if session != nil {
		id = session.ID()
	}

	cfg := transfer.Config{
		MaxMessages: to.MaxMessages,
		Logger:      m.logger,
	}
	if n := to.DropEvery; n > 0 {
		cfg.Drop = func(seq int) bool {
			return seq%n == 0
		}
	}

	sender := transfer.NewSender(s)
	if to.Session != "" {
		sender = transfer.ResumeSender(s)
	}

	stats, err = transfer.Run(ctx, sender, receiver, cfg)
	m.logger.Printf("%d messages, %d dropped, %d data payloads (%d bytes), %d confirmations\n", stats.Messages, stats.Dropped, stats.DataPayloads, stats.DataBytes, stats.Confirmations)
	if err != nil {
		return id, stats, err
	}

	if !receiver.Done() {
		return id, stats, transfer.ErrMismatch
	}

	if err := writeFrame(out, receiver.Frame()); err != nil {
		return id, stats, err
	}

	if session != nil {
		if err := session.Delete(); err != nil {
			return id, stats, err
		}
	}

	return id, stats, nil
}
