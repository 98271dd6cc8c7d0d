/*
Package store persists the receiving side of Monocle frame transfers in a
sqlite database so an interrupted transfer can be resumed.

Each transfer is a session identified by a UUID and bound to the checksum of
the frame being sent. Every row the receiver stores is written through to the
session, last write wins.
*/
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/elizagamedev/monocle/row"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSession is returned for an unknown session id.
var ErrNoSession = errors.New("store: no such session")

// Store is a sqlite database of transfer sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database in file.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS session (id TEXT PRIMARY KEY NOT NULL, checksum INTEGER NOT NULL, created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS scanline (session_id TEXT NOT NULL, idx INTEGER NOT NULL, pair_offset INTEGER NOT NULL, compressed INTEGER NOT NULL, data BLOB NOT NULL, PRIMARY KEY(session_id, idx), FOREIGN KEY(session_id) REFERENCES session(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db: db,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSession creates an empty session for the frame with the given checksum.
func (s *Store) NewSession(checksum uint32) (*Session, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO session (id, checksum) VALUES (?, ?)", id, int64(checksum)); err != nil {
		return nil, err
	}
	return &Session{store: s, id: id, checksum: checksum}, nil
}

// Session returns an existing session.
func (s *Store) Session(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSession, id)
	}

	var (
		found    string
		checksum int64
	)
	switch err := s.db.QueryRow("SELECT id, checksum FROM session WHERE id = ?", id).Scan(&found, &checksum); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %q", ErrNoSession, id)
	case nil:
		return &Session{store: s, id: found, checksum: uint32(checksum)}, nil
	default:
		return nil, err
	}
}

// Sessions returns the ids of every session, oldest first.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM session ORDER BY created, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Session is the persisted state of one transfer. It implements
// transfer.Journal.
type Session struct {
	store    *Store
	id       string
	checksum uint32
}

// ID returns the session's UUID.
func (s *Session) ID() string {
	return s.id
}

// Checksum returns the checksum of the frame the session was created for.
func (s *Session) Checksum() uint32 {
	return s.checksum
}

// Record stores r under the given row index.
func (s *Session) Record(index int, r *row.Row) error {
	_, err := s.store.db.Exec("INSERT OR REPLACE INTO scanline (session_id, idx, pair_offset, compressed, data) VALUES (?, ?, ?, ?, ?)", s.id, index, r.Offset, r.Compressed, r.Data)
	return err
}

// Load returns every row recorded so far keyed by row index.
func (s *Session) Load() (map[int]*row.Row, error) {
	rows, err := s.store.db.Query("SELECT idx, pair_offset, compressed, data FROM scanline WHERE session_id = ?", s.id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[int]*row.Row)
	for rows.Next() {
		var (
			index int
			r     row.Row
		)
		if err := rows.Scan(&index, &r.Offset, &r.Compressed, &r.Data); err != nil {
			return nil, err
		}
		m[index] = &r
	}
	return m, rows.Err()
}

// Delete removes the session and its rows.
func (s *Session) Delete() error {
	_, err := s.store.db.Exec("DELETE FROM session WHERE id = ?", s.id)
	return err
}
