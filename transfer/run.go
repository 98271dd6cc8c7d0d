package transfer

import (
	"context"
	"errors"
	"io"
	"log"
)

// ErrStalled is returned by Run when MaxMessages is reached before the
// transfer completes.
var ErrStalled = errors.New("transfer: message limit reached")

// ErrMismatch is returned by Run when the sender has confirmed its rows but
// the receiver holds rows the sender never had.
var ErrMismatch = errors.New("transfer: receiver holds rows of another frame")

const defaultMaxMessages = 1 << 20

// Config configures Run.
type Config struct {
	// Drop is called with the sequence number of every message, starting
	// at 1, in either direction. Returning true loses that message.
	Drop func(seq int) bool
	// MaxMessages bounds the number of messages exchanged.
	MaxMessages int
	Logger      *log.Logger
}

// Stats counts what a Run exchanged.
type Stats struct {
	Messages      int
	Dropped       int
	DataPayloads  int
	DataBytes     int
	Confirmations int
}

// Run drives a sender and receiver against each other in-process until both
// are done, simulating the link with cfg.Drop.
func Run(ctx context.Context, s *Sender, r *Receiver, cfg Config) (Stats, error) {
	var stats Stats

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	limit := cfg.MaxMessages
	if limit <= 0 {
		limit = defaultMaxMessages
	}

	deliver := func() bool {
		stats.Messages++
		if cfg.Drop != nil && cfg.Drop(stats.Messages) {
			stats.Dropped++
			return false
		}
		return true
	}

	for !s.Done() {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if stats.Messages >= limit {
			return stats, ErrStalled
		}

		msg, err := s.Next()
		if err != nil {
			return stats, err
		}

		switch msg.Kind {
		case Data:
			stats.DataPayloads++
			stats.DataBytes += len(msg.Data)
			if !deliver() {
				continue
			}
			if err := r.Push(msg.Data); err != nil {
				return stats, err
			}
		case Confirmation:
			stats.Confirmations++
			if !deliver() {
				logger.Printf("confirmation %d lost", stats.Confirmations)
				continue
			}
			resp, err := r.OnRequestConfirmation(msg.Data)
			if err != nil {
				return stats, err
			}
			if !deliver() {
				logger.Printf("confirmation response %d lost", stats.Confirmations)
				continue
			}
			if err := s.OnConfirmationResponse(resp); err != nil {
				return stats, err
			}
			logger.Printf("confirmation %d: %d payloads queued, sender %s, receiver %s", stats.Confirmations, s.Pending(), s.State(), r.State())
		}
	}

	// The sender only checks that nothing is missing, a receiver restored
	// with extra rows answers with its held set and never finishes.
	if !r.Done() {
		return stats, ErrMismatch
	}

	return stats, nil
}
