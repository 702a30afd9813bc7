package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"ctodo/internal/entry"
)

// TextFile stores one encoded entry per line.
type TextFile struct {
	path string
}

func NewTextFile(path string) *TextFile {
	return &TextFile{path: path}
}

func (f *TextFile) Path() string { return f.path }

func (f *TextFile) Close() error { return nil }

func (f *TextFile) Load(foldCase bool) ([]entry.Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't open %s: %v", ErrIOUnavailable, f.path, err)
	}
	return decodeLines(string(data), foldCase)
}

func decodeLines(content string, foldCase bool) ([]entry.Entry, error) {
	content = strings.TrimRight(content, "\r\n")
	if content == "" {
		return nil, nil
	}
	lines := strings.Split(content, "\n")
	entries := make([]entry.Entry, 0, len(lines))
	for i, line := range lines {
		e, err := entry.Decode(strings.TrimSuffix(line, "\r"), foldCase)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Save rewrites the whole file. Lines are joined without a trailing newline.
func (f *TextFile) Save(entries []entry.Entry) error {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, entry.Encode(e))
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomic.WriteFile(f.path, strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIOUnavailable, f.path, err)
	}
	// a file created by atomic.WriteFile keeps the temp file's 0600 mode
	return os.Chmod(f.path, mode)
}

// Init creates an empty file if none exists.
func (f *TextFile) Init() error {
	file, err := os.OpenFile(f.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrIOUnavailable, err)
		}
		return err
	}
	return file.Close()
}
