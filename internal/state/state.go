package state

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Keys of the persisted local state. They mirror the browser client's
// storage keys so a migration stays mechanical.
const (
	KeySessionID     = "sessionId"
	KeyUserID        = "userId"
	KeyUserName      = "userName"
	KeyUserPhone     = "userPhone"
	KeyUserEmail     = "userEmail"
	KeyUserBirthDate = "userBirthDate"
	KeyUserAvatar    = "userAvatar"
	KeyGuestRequests = "guestRequests"
)

// Store implements a SQLite key-value store for the client's local state.
type Store struct {
	db *sql.DB
}

// New store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating state table")
	}

	return &Store{
		db: db,
	}, nil
}

// Get a value. Returns an empty string when the key is absent.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "querying state")
	}
	return value, nil
}

// Set a value.
func (s *Store) Set(key, value string) error {
	// REPLACE INTO handles both insert and update cases.
	_, err := s.db.Exec(`REPLACE INTO state (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return errors.Wrap(err, "writing state")
	}
	return nil
}

// Delete a single key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM state WHERE key = ?`, key)
	if err != nil {
		return errors.Wrap(err, "deleting state key")
	}
	return nil
}

// Clear removes every key at once. Used on logout and on ban detection.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM state`)
	if err != nil {
		return errors.Wrap(err, "clearing state")
	}
	return nil
}

// Keys returns every stored key.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM state ORDER BY key`)
	if err != nil {
		return nil, errors.Wrap(err, "querying state keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "scanning state key")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating state keys")
	}
	return keys, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
