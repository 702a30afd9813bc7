package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"ctodo/internal/entry"
)

const (
	DefaultTextFileName = ".ctodocache"
	DefaultDBFileName   = ".ctodocache.db"
)

var ErrIOUnavailable = errors.New("store unavailable")

// Backend loads and rewrites the full entry list. Neither Load nor Save
// creates a missing store; Init does.
type Backend interface {
	Load(foldCase bool) ([]entry.Entry, error)
	Save(entries []entry.Entry) error
	Init() error
	Path() string
	Close() error
}

// Open returns the backend named kind ("text" or "sqlite") rooted in home.
func Open(kind, home string) (Backend, error) {
	if home == "" {
		return nil, fmt.Errorf("%w: home directory is empty", ErrIOUnavailable)
	}
	switch kind {
	case "", "text":
		return NewTextFile(filepath.Join(home, DefaultTextFileName)), nil
	case "sqlite":
		return NewSQLite(filepath.Join(home, DefaultDBFileName)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
