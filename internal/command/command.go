// Package command defines the parsed commands ctodo understands and applies
// them to a store.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ctodo/internal/entry"
	"ctodo/internal/store"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Command is one of Add, Modify, Delete, List, Reindex, Init or Unrecognized.
type Command interface {
	isCommand()
}

type Add struct {
	Group   string
	DueText string
	Desc    string
}

type Modify struct {
	ID      int
	Updates map[string]string
}

type Delete struct {
	ID int
}

type List struct {
	Sorted bool
}

type Reindex struct{}

// Init creates the backing store when it is missing.
type Init struct{}

type Unrecognized struct {
	Name string
}

func (Add) isCommand()          {}
func (Modify) isCommand()       {}
func (Delete) isCommand()       {}
func (List) isCommand()         {}
func (Reindex) isCommand()      {}
func (Init) isCommand()         {}
func (Unrecognized) isCommand() {}

// Mutates reports whether cmd rewrites the store.
func Mutates(cmd Command) bool {
	switch cmd.(type) {
	case Add, Modify, Delete, Reindex:
		return true
	}
	return false
}

// keywords maps mod keywords to store update fields.
var keywords = map[string]string{
	"group": store.FieldGroup,
	"date":  store.FieldDate,
	"desc":  store.FieldDescription,
}

// Keywords lists the accepted mod field names.
func Keywords() []string {
	return []string{"group", "date", "desc"}
}

// ParseID parses a non-negative entry id.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: invalid id: %q", ErrInvalidArgument, s)
	}
	return id, nil
}

// ParseModArgs turns field=value tokens into store updates. Each token must
// hold exactly one '=' that is neither first nor last, and a known field.
// A repeated field keeps its last value.
func ParseModArgs(tokens []string) (map[string]string, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: expected at least one field=value", ErrInvalidArgument)
	}
	updates := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		if n := strings.Count(tok, "="); n != 1 {
			return nil, fmt.Errorf("%w: expected 1 '=', found %d in %q", ErrInvalidArgument, n, tok)
		}
		idx := strings.Index(tok, "=")
		if idx == 0 || idx == len(tok)-1 {
			return nil, fmt.Errorf("%w: bad '=' placement: %q", ErrInvalidArgument, tok)
		}
		key, val := tok[:idx], tok[idx+1:]
		field, ok := keywords[key]
		if !ok {
			return nil, fmt.Errorf("%w: not a valid keyword: %q (want one of %s)", ErrInvalidArgument, key, strings.Join(Keywords(), ", "))
		}
		updates[field] = val
	}
	return updates, nil
}

func NewAdd(args []string) (Add, error) {
	if len(args) != 3 {
		return Add{}, fmt.Errorf("%w: add takes <group> <due date> <description>, got %d arguments", ErrInvalidArgument, len(args))
	}
	return Add{Group: args[0], DueText: args[1], Desc: args[2]}, nil
}

func NewModify(args []string) (Modify, error) {
	if len(args) < 2 {
		return Modify{}, fmt.Errorf("%w: mod takes <id> <field=value>...", ErrInvalidArgument)
	}
	id, err := ParseID(args[0])
	if err != nil {
		return Modify{}, err
	}
	updates, err := ParseModArgs(args[1:])
	if err != nil {
		return Modify{}, err
	}
	return Modify{ID: id, Updates: updates}, nil
}

func NewDelete(args []string) (Delete, error) {
	if len(args) != 1 {
		return Delete{}, fmt.Errorf("%w: del takes exactly one <id>", ErrInvalidArgument)
	}
	id, err := ParseID(args[0])
	if err != nil {
		return Delete{}, err
	}
	return Delete{ID: id}, nil
}

// Result describes what Apply did.
type Result struct {
	// Save is set when the store changed and must be written back.
	Save     bool
	Entry    entry.Entry
	HasEntry bool
}

// Apply runs cmd against st. It performs at most one mutation and leaves st
// untouched when it returns an error.
func Apply(cmd Command, st *store.Store, parseDue store.DueParser) (Result, error) {
	switch c := cmd.(type) {
	case Add:
		if err := entry.ValidateText("group", c.Group); err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		if err := entry.ValidateText("description", c.Desc); err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		due, err := parseDue(c.DueText)
		if err != nil {
			return Result{}, err
		}
		e := st.Add(c.Group, due, c.Desc)
		return Result{Save: true, Entry: e, HasEntry: true}, nil
	case Modify:
		e, err := st.Update(c.ID, c.Updates, parseDue)
		if err != nil {
			if errors.Is(err, entry.ErrUnencodable) {
				return Result{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			return Result{}, err
		}
		return Result{Save: true, Entry: e, HasEntry: true}, nil
	case Delete:
		e, err := st.Delete(c.ID)
		if err != nil {
			return Result{}, err
		}
		return Result{Save: true, Entry: e, HasEntry: true}, nil
	case Reindex:
		st.Reindex()
		return Result{Save: true}, nil
	case List, Init, Unrecognized:
		return Result{}, nil
	default:
		return Result{}, fmt.Errorf("%w: unsupported command %T", ErrInvalidArgument, cmd)
	}
}
