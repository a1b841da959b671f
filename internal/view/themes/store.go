// Package themes persists the page theme preference, the bridge's only
// durable state. A single key in a local SQLite store stands in for the
// browser's local key-value storage.
package themes

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Theme values.
const (
	Light = "light"
	Dark  = "dark"
)

const themeKey = "theme"

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Store is a SQLite-backed preference store.
type Store struct {
	db *sql.DB

	// fallback is returned when no preference has been written yet.
	fallback string
}

// Open opens (creating if needed) the preference store at path.
func Open(path, defaultTheme string) (*Store, error) {
	if defaultTheme != Dark {
		defaultTheme = Light
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init preference store: %w", err)
	}

	return &Store{db: db, fallback: defaultTheme}, nil
}

// Get returns the stored theme, or the default when none is saved.
func (s *Store) Get() (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, themeKey).Scan(&v)
	if err == sql.ErrNoRows {
		return s.fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("read theme: %w", err)
	}
	if v != Light && v != Dark {
		return s.fallback, nil
	}
	return v, nil
}

// Set persists the theme. Values other than light/dark are rejected.
func (s *Store) Set(theme string) error {
	if theme != Light && theme != Dark {
		return fmt.Errorf("invalid theme %q", theme)
	}
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		themeKey, theme,
	)
	if err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Toggle flips light<->dark and returns the new theme.
func (s *Store) Toggle() (string, error) {
	current, err := s.Get()
	if err != nil {
		return "", err
	}
	next := Light
	if current == Light {
		next = Dark
	}
	if err := s.Set(next); err != nil {
		return "", err
	}
	return next, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
