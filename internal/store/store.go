package store

import (
	"errors"
	"fmt"
	"sort"

	"ctodo/internal/entry"
)

// Update keys understood by Store.Update.
const (
	FieldGroup       = "group"
	FieldDate        = "date"
	FieldDescription = "description"
)

var ErrEntryNotFound = errors.New("entry not found")

// DueParser turns user date text into unix seconds.
type DueParser func(text string) (int64, error)

// Store is the ordered, in-memory list of entries for one invocation.
type Store struct {
	entries []entry.Entry
}

func New(entries []entry.Entry) *Store {
	return &Store{entries: entries}
}

// Entries returns the entries in store order. Callers must not modify the
// returned slice.
func (s *Store) Entries() []entry.Entry {
	return s.entries
}

func (s *Store) Len() int {
	return len(s.entries)
}

// HighestID returns the largest id in the store, or 0 when empty.
func (s *Store) HighestID() int {
	highest := 0
	for _, e := range s.entries {
		if e.ID > highest {
			highest = e.ID
		}
	}
	return highest
}

// Add appends a new entry numbered one past the highest id.
func (s *Store) Add(group string, due int64, desc string) entry.Entry {
	e := entry.Entry{
		ID:    s.HighestID() + 1,
		Group: group,
		Due:   due,
		Desc:  desc,
	}
	s.entries = append(s.entries, e)
	return e
}

// FindByID returns the index of the first entry with id.
func (s *Store) FindByID(id int) (int, bool) {
	for i, e := range s.entries {
		if e.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) Get(id int) (entry.Entry, error) {
	idx, ok := s.FindByID(id)
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	return s.entries[idx], nil
}

// Update applies field updates to the entry with id. All values are checked
// before the entry changes; unknown keys are ignored.
func (s *Store) Update(id int, updates map[string]string, parseDue DueParser) (entry.Entry, error) {
	idx, ok := s.FindByID(id)
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}

	updated := s.entries[idx]
	for key, val := range updates {
		switch key {
		case FieldGroup:
			if err := entry.ValidateText("group", val); err != nil {
				return entry.Entry{}, err
			}
			updated.Group = val
		case FieldDescription:
			if err := entry.ValidateText("description", val); err != nil {
				return entry.Entry{}, err
			}
			updated.Desc = val
		case FieldDate:
			due, err := parseDue(val)
			if err != nil {
				return entry.Entry{}, err
			}
			updated.Due = due
		}
	}
	s.entries[idx] = updated
	return updated, nil
}

// Delete removes the entry with id. Remaining ids are not renumbered.
func (s *Store) Delete(id int) (entry.Entry, error) {
	idx, ok := s.FindByID(id)
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	removed := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return removed, nil
}

// Reindex renumbers entries from 0 in store order.
func (s *Store) Reindex() {
	for i := range s.entries {
		s.entries[i].ID = i
	}
}

// DistinctGroups returns group labels in first-seen order.
func (s *Store) DistinctGroups() []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, e := range s.entries {
		if _, ok := seen[e.Group]; ok {
			continue
		}
		seen[e.Group] = struct{}{}
		groups = append(groups, e.Group)
	}
	return groups
}

// InGroup returns the entries of group in store order.
func (s *Store) InGroup(group string) []entry.Entry {
	var out []entry.Entry
	for _, e := range s.entries {
		if e.Group == group {
			out = append(out, e)
		}
	}
	return out
}

// SortedByDueDesc returns a copy ordered by descending now-due, so the most
// overdue entry comes first and the furthest future one last. The store
// itself keeps its order.
func (s *Store) SortedByDueDesc(now int64) []entry.Entry {
	out := make([]entry.Entry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return now-out[i].Due > now-out[j].Due
	})
	return out
}
