/*
Package monocle is a library for preparing images for, and transferring them
to, the Brilliant Labs Monocle display.

Images are resampled to the display's 640 by 400 pixels, encoded into a
sparse luma/chroma frame and either kept on disk as a .mci file or split into
small payloads and sent over a lossy link with a bitmap based
acknowledgement scheme.
*/
package monocle

import (
	"io"
	"log"

	"github.com/elizagamedev/monocle/store"
)

type Monocle struct {
	store  *store.Store
	logger *log.Logger
}

// New returns a Monocle. Transfer sessions are persisted in the sqlite
// database file; an empty file disables persistence. logger may be nil.
func New(file string, logger *log.Logger) (*Monocle, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	m := &Monocle{
		logger: logger,
	}

	if file != "" {
		s, err := store.Open(file)
		if err != nil {
			return nil, err
		}
		m.store = s
	}

	return m, nil
}

func (m *Monocle) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
