// Package statestore is the durable local state of the app: the live
// session snapshot and the per-exercise weight memory, kept in a small
// SQLite database next to the server. It plays the role browser storage
// plays for a pure front end — cheap, always available, survives restarts.
package statestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/meltforce/liftlog/internal/models"
)

const (
	keyActiveSession = "active_session"
	keyLastWeights   = "last_weights"
)

// Store is a key-value store backed by SQLite. It holds at most one active
// session snapshot at a time, plus the last-used-weight map.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the state database at dir/state.db.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

func (s *Store) remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

// LoadSession returns the persisted session snapshot, or nil if none exists.
// A corrupt snapshot is logged and treated as absent, never as a fatal error.
func (s *Store) LoadSession() (*models.Session, error) {
	data, err := s.get(keyActiveSession)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.log.Warn("discarding corrupt session snapshot", "error", err)
		return nil, nil
	}
	return &session, nil
}

// SaveSession persists the session snapshot, replacing any previous one.
func (s *Store) SaveSession(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.put(keyActiveSession, data)
}

// ClearSession removes the persisted session snapshot.
func (s *Store) ClearSession() error {
	return s.remove(keyActiveSession)
}

// lastWeights reads the weight map. Absence or corruption yields an empty map.
func (s *Store) lastWeights() map[string]float64 {
	weights := map[string]float64{}
	data, err := s.get(keyLastWeights)
	if err != nil {
		s.log.Warn("reading weight memory", "error", err)
		return weights
	}
	if data == nil {
		return weights
	}
	if err := json.Unmarshal(data, &weights); err != nil {
		s.log.Warn("discarding corrupt weight memory", "error", err)
		return map[string]float64{}
	}
	return weights
}

// LastWeight returns the last load recorded for an exercise, if any.
func (s *Store) LastWeight(exerciseID string) (float64, bool) {
	w, ok := s.lastWeights()[exerciseID]
	return w, ok
}

// SetLastWeight records the last load used for an exercise.
func (s *Store) SetLastWeight(exerciseID string, kilos float64) error {
	weights := s.lastWeights()
	weights[exerciseID] = kilos
	data, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("encoding weight memory: %w", err)
	}
	return s.put(keyLastWeights, data)
}
