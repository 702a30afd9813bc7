package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestAddFormCollectsFields(t *testing.T) {
	m := send(NewAddForm(nil),
		runes("work"), enter,
		runes("9/21/2021 11:59 pm"), enter,
		runes("finish report"), enter,
	)
	add, ok := m.(AddForm).Command()
	if !ok {
		t.Fatal("expected completed form")
	}
	if add.Group != "work" || add.DueText != "9/21/2021 11:59 pm" || add.Desc != "finish report" {
		t.Fatalf("unexpected command %+v", add)
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after completion, got %q", m.View())
	}
}

func TestAddFormRejectsInvalidField(t *testing.T) {
	check := func(field, value string) error {
		if field == "date" && value == "soon" {
			return errors.New("invalid date format")
		}
		return nil
	}
	m := send(NewAddForm(check), runes("work"), enter, runes("soon"), enter)
	f := m.(AddForm)
	if f.index != 1 {
		t.Fatalf("expected to stay on date field, at %d", f.index)
	}
	if !strings.Contains(f.View(), "invalid date format") {
		t.Fatalf("expected error in view, got %q", f.View())
	}
	if _, ok := f.Command(); ok {
		t.Fatal("form must not be complete")
	}
}

func TestAddFormRejectsEmptyField(t *testing.T) {
	f := send(NewAddForm(nil), enter).(AddForm)
	if f.index != 0 || !strings.Contains(f.status, "cannot be empty") {
		t.Fatalf("unexpected state index=%d status=%q", f.index, f.status)
	}
}

func TestAddFormCancel(t *testing.T) {
	m := send(NewAddForm(nil), runes("work"), tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.(AddForm).Command(); ok {
		t.Fatal("cancelled form must not yield a command")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want bool
	}{
		{"yes", runes("y"), true},
		{"upper yes", runes("Y"), true},
		{"no", runes("n"), false},
		{"enter defaults to no", enter, false},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := send(NewConfirm("Reindex all entries?"), tt.key)
			if got := m.(Confirm).Yes(); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	m := send(NewConfirm("Delete?"), runes("x"))
	c := m.(Confirm)
	if c.answered || c.Yes() {
		t.Fatal("unexpected answer")
	}
	if !strings.Contains(c.View(), "Delete?") {
		t.Fatalf("prompt missing from view %q", c.View())
	}
}
