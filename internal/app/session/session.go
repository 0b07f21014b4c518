/*
Package session persists the signed-in identity on the local machine.

The record lives under a single key of a pebble key-value store, so a restart restores the
session without signing in again. Nothing checks the record against the shared document:
a password changed or removed remotely goes unnoticed.
*/
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"
	"github.com/rs/zerolog"

	"digame/internal/app/user"
	"digame/internal/pkg/logx"
)

// Key is the storage key holding the serialized session record.
const Key = "digame_session"

// Store is the local durable session storage.
type Store struct {
	db     *pebble.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the session store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &Store{
		db:     db,
		logger: logx.Logger().With().Str("component", "session").Logger(),
	}, nil
}

// Load returns the persisted record, or nil when nobody is signed in.
func (s *Store) Load() (*user.Registration, error) {
	value, closer, err := s.db.Get([]byte(Key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	defer closer.Close()

	var reg user.Registration
	if err := json.Unmarshal(value, &reg); err != nil {
		s.logger.Warn().Err(err).Msg("Stored session is not valid JSON.")
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &reg, nil
}

// Save persists reg, replacing any previous record.
func (s *Store) Save(reg user.Registration) error {
	value, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.db.Set([]byte(Key), value, pebble.Sync); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.logger.Debug().Str("nickname", reg.Nickname).Msg("Session saved.")
	return nil
}

// Clear removes the persisted record.
func (s *Store) Clear() error {
	if err := s.db.Delete([]byte(Key), pebble.Sync); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Debug().Msg("Session cleared.")
	return nil
}

// Close releases the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}
