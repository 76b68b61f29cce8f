// Package state persists application state in a per-user SQLite database.
package state

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "tuner"
	dbFileName = "tuner.db"
)

// Manager owns the state database. All operations are synchronous; callers
// sequence access through the UI event loop.
type Manager struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database at the XDG data path.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath)
}

// OpenAt opens the state database at an explicit path. Used by tests.
func OpenAt(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// Close closes the database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// DB returns the underlying handle.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Get reads a stored value. The second return is false when the key is
// absent.
func (m *Manager) Get(key string) (string, bool, error) {
	var value string
	err := m.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes a value, replacing any previous one.
func (m *Manager) Set(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
