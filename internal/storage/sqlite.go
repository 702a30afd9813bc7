package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"ctodo/internal/entry"
)

// SQLite keeps entries in a single table. The position column records
// store order so a load returns entries exactly as they were saved.
type SQLite struct {
	path string
	db   *sql.DB
}

func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) open(create bool) error {
	if s.db != nil {
		return nil
	}
	if !create {
		if _, err := os.Stat(s.path); err != nil {
			return fmt.Errorf("%w: couldn't open %s: %v", ErrIOUnavailable, s.path, err)
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(s.path, create))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	s.db = db
	if err := s.ensureSchema(); err != nil {
		s.Close()
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	return nil
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
	position INTEGER PRIMARY KEY,
	id INTEGER NOT NULL,
	grp TEXT NOT NULL DEFAULT '',
	due INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLite) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return s.open(true)
}

func (s *SQLite) Load(foldCase bool) ([]entry.Entry, error) {
	if err := s.open(false); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT id, grp, due, description FROM entries ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	defer rows.Close()

	var entries []entry.Entry
	for rows.Next() {
		var e entry.Entry
		if err := rows.Scan(&e.ID, &e.Group, &e.Due, &e.Desc); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", entry.ErrMalformedRecord, len(entries)+1, err)
		}
		if e.ID < 0 {
			return nil, fmt.Errorf("%w: row %d: negative id %d", entry.ErrMalformedRecord, len(entries)+1, e.ID)
		}
		if foldCase {
			e.Group = strings.ToLower(e.Group)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	return entries, nil
}

// Save replaces every row in one transaction.
func (s *SQLite) Save(entries []entry.Entry) error {
	if err := s.open(false); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries;`); err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO entries (position, id, grp, due, description) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err := stmt.Exec(i, e.ID, e.Group, e.Due, e.Desc); err != nil {
			return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	return nil
}

func sqliteDSN(path string, create bool) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	if create {
		q.Set("mode", "rwc")
	} else {
		q.Set("mode", "rw")
	}
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
