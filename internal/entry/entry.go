package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Delimiter separates the four fields of a stored line.
const Delimiter = ","

// InputLayout is the accepted due-date input, e.g. "9/21/2021 11:59 pm".
const InputLayout = "1/2/2006 3:04 PM"

var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrUnencodable       = errors.New("value cannot be stored")
)

type Entry struct {
	ID    int
	Group string
	Due   int64
	Desc  string
}

// DueTime returns the due timestamp in loc.
func (e Entry) DueTime(loc *time.Location) time.Time {
	return time.Unix(e.Due, 0).In(loc)
}

// Decode parses a stored line of the form id,group,due,description.
// The description takes everything after the third delimiter.
func Decode(line string, foldCase bool) (Entry, error) {
	fields := strings.SplitN(line, Delimiter, 4)
	if len(fields) < 4 {
		return Entry{}, fmt.Errorf("%w: expected 4 fields, found %d in %q", ErrMalformedRecord, len(fields), line)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 0 {
		return Entry{}, fmt.Errorf("%w: bad id %q", ErrMalformedRecord, fields[0])
	}
	due, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad due timestamp %q", ErrMalformedRecord, fields[2])
	}
	group := fields[1]
	if foldCase {
		group = strings.ToLower(group)
	}
	return Entry{ID: id, Group: group, Due: due, Desc: fields[3]}, nil
}

func Encode(e Entry) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(e.ID))
	b.WriteString(Delimiter)
	b.WriteString(e.Group)
	b.WriteString(Delimiter)
	b.WriteString(strconv.FormatInt(e.Due, 10))
	b.WriteString(Delimiter)
	b.WriteString(e.Desc)
	return b.String()
}

// ParseDue parses text in InputLayout as a wall clock time in loc and
// returns it as unix seconds. The meridiem is matched case-insensitively.
func ParseDue(text string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.UTC
	}
	normalized := strings.ToUpper(strings.Join(strings.Fields(text), " "))
	t, err := time.ParseInLocation(InputLayout, normalized, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (want month/day/year hour:minute am|pm)", ErrInvalidDateFormat, text)
	}
	return t.Unix(), nil
}

// ParseOffset turns a "-0400" style offset into a fixed zone.
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" {
		return time.UTC, nil
	}
	t, err := time.Parse("-0700", s)
	if err != nil {
		return nil, fmt.Errorf("bad utc offset %q", s)
	}
	_, secs := t.Zone()
	return time.FixedZone(s, secs), nil
}

// ValidateText reports whether value can be written to field without
// desynchronizing the stored line. Only the description may hold the
// delimiter, since it is always the last field.
func ValidateText(field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %s contains a line break", ErrUnencodable, field)
	}
	if field == "group" && strings.Contains(value, Delimiter) {
		return fmt.Errorf("%w: group %q contains %q", ErrUnencodable, value, Delimiter)
	}
	return nil
}
