// Package render formats entries for the terminal.
//
// An entry is printed through a print template in which a '%' starts a
// two-character directive:
//
//	%n  entry id
//	%t  due date, formatted with the strftime date template and colored by urgency
//	%s  description
//
// Any other directive is a configuration error (ErrBadTemplate).
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ncruces/go-strftime"

	"ctodo/internal/entry"
	"ctodo/internal/store"
	"ctodo/internal/urgency"
)

var ErrBadTemplate = errors.New("bad print template")

// Palette holds one color per urgency bucket plus the group header color.
// Values are lipgloss colors: ANSI numbers ("9") or hex ("#ff0000").
type Palette struct {
	LessThanDay  string
	LessThanWeek string
	PastDue      string
	MoreThanWeek string
	Group        string
}

func (p Palette) forBucket(b urgency.Bucket) string {
	switch b {
	case urgency.LessThanDay:
		return p.LessThanDay
	case urgency.LessThanWeek:
		return p.LessThanWeek
	case urgency.PastDue:
		return p.PastDue
	default:
		return p.MoreThanWeek
	}
}

type Options struct {
	DateFormat  string
	PrintFormat string
	Location    *time.Location
	Colors      Palette
}

type Renderer struct {
	opts Options
	lg   *lipgloss.Renderer
}

// New returns a Renderer that colors through lg. The color profile of lg
// decides whether escapes are emitted at all.
func New(opts Options, lg *lipgloss.Renderer) *Renderer {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Renderer{opts: opts, lg: lg}
}

// ValidateTemplate reports whether tmpl only uses known directives.
func ValidateTemplate(tmpl string) error {
	runes := []rune(tmpl)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' {
			continue
		}
		if i+1 >= len(runes) {
			return fmt.Errorf("%w: %q ends with '%%'", ErrBadTemplate, tmpl)
		}
		switch runes[i+1] {
		case 'n', 't', 's':
		default:
			return fmt.Errorf("%w: unknown directive %%%c in %q", ErrBadTemplate, runes[i+1], tmpl)
		}
		i++
	}
	return nil
}

func (r *Renderer) colorize(color, text string) string {
	return r.lg.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// FormatDate renders the due timestamp with the date template.
func (r *Renderer) FormatDate(due int64) string {
	return strftime.Format(r.opts.DateFormat, time.Unix(due, 0).In(r.opts.Location))
}

// FormatEntry renders e through the print template, terminated by a newline.
func (r *Renderer) FormatEntry(e entry.Entry, now int64) (string, error) {
	var b strings.Builder
	runes := []rune(r.opts.PrintFormat)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '%' {
			b.WriteRune(c)
			continue
		}
		if i+1 >= len(runes) {
			return "", fmt.Errorf("%w: %q ends with '%%'", ErrBadTemplate, r.opts.PrintFormat)
		}
		i++
		switch runes[i] {
		case 'n':
			b.WriteString(strconv.Itoa(e.ID))
		case 't':
			color := r.opts.Colors.forBucket(urgency.Classify(e.Due, now))
			b.WriteString(r.colorize(color, r.FormatDate(e.Due)))
		case 's':
			b.WriteString(e.Desc)
		default:
			return "", fmt.Errorf("%w: unknown directive %%%c in %q", ErrBadTemplate, runes[i], r.opts.PrintFormat)
		}
	}
	b.WriteByte('\n')
	return b.String(), nil
}

func (r *Renderer) groupLabel(group string) string {
	return r.colorize(r.opts.Colors.Group, group)
}

// GroupListing prints one colored header per group, in first-seen order,
// followed by the group's entries in store order and a blank line.
func (r *Renderer) GroupListing(w io.Writer, st *store.Store, now int64) error {
	for _, group := range st.DistinctGroups() {
		if _, err := fmt.Fprintf(w, "%s:\n", r.groupLabel(group)); err != nil {
			return err
		}
		for _, e := range st.InGroup(group) {
			line, err := r.FormatEntry(e, now)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// SortedListing prints every entry, most overdue first, each prefixed by its
// group label.
func (r *Renderer) SortedListing(w io.Writer, st *store.Store, now int64) error {
	for _, e := range st.SortedByDueDesc(now) {
		line, err := r.FormatEntry(e, now)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s: %s", r.groupLabel(e.Group), line); err != nil {
			return err
		}
	}
	return nil
}
