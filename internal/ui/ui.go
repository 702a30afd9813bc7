package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ctodo/internal/command"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// FieldCheck validates the raw text of one form field.
type FieldCheck func(field, value string) error

type formField struct {
	label       string
	placeholder string
	value       string
}

// AddForm collects group, due date and description one field at a time.
type AddForm struct {
	fields    []formField
	index     int
	input     textinput.Model
	check     FieldCheck
	status    string
	done      bool
	cancelled bool
}

func NewAddForm(check FieldCheck) AddForm {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	f := AddForm{
		fields: []formField{
			{label: "group", placeholder: "work"},
			{label: "date", placeholder: "9/21/2021 11:59 pm"},
			{label: "desc", placeholder: "what needs doing"},
		},
		input: ti,
		check: check,
	}
	f.input.Placeholder = f.fields[0].placeholder
	f.input.Focus()
	return f
}

func (f AddForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f AddForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			f.cancelled = true
			f.input.Blur()
			return f, tea.Quit
		case "enter":
			return f.advance()
		}
	case tea.WindowSizeMsg:
		f.input.Width = msg.Width - 10
		return f, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f AddForm) advance() (tea.Model, tea.Cmd) {
	cur := f.fields[f.index]
	value := strings.TrimSpace(f.input.Value())
	if value == "" {
		f.status = cur.label + " cannot be empty"
		return f, nil
	}
	if f.check != nil {
		if err := f.check(cur.label, value); err != nil {
			f.status = err.Error()
			return f, nil
		}
	}
	f.fields[f.index].value = value
	f.status = ""
	if f.index >= len(f.fields)-1 {
		f.done = true
		f.input.Blur()
		return f, tea.Quit
	}
	f.index++
	f.input.SetValue(f.fields[f.index].value)
	f.input.Placeholder = f.fields[f.index].placeholder
	return f, nil
}

func (f AddForm) View() string {
	if f.done || f.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("New entry (field %d of %d)\n\n", f.index+1, len(f.fields)))
	for _, field := range f.fields[:f.index] {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(field.label+":"), field.value))
	}
	b.WriteString(labelStyle.Render(f.fields[f.index].label+":") + " " + f.input.View())
	b.WriteString("\n\n")
	if f.status != "" {
		b.WriteString(errorStyle.Render(f.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter next • esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// Command returns the collected entry. ok is false if the form was
// cancelled or not finished.
func (f AddForm) Command() (command.Add, bool) {
	if !f.done || f.cancelled {
		return command.Add{}, false
	}
	return command.Add{
		Group:   f.fields[0].value,
		DueText: f.fields[1].value,
		Desc:    f.fields[2].value,
	}, true
}

// Confirm asks a yes/no question.
type Confirm struct {
	prompt   string
	answered bool
	yes      bool
}

func NewConfirm(prompt string) Confirm {
	return Confirm{prompt: prompt}
}

func (c Confirm) Init() tea.Cmd {
	return nil
}

func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch key.String() {
	case "y", "Y":
		c.answered = true
		c.yes = true
		return c, tea.Quit
	case "n", "N", "esc", "ctrl+c", "enter":
		c.answered = true
		return c, tea.Quit
	}
	return c, nil
}

func (c Confirm) View() string {
	if c.answered {
		return ""
	}
	return fmt.Sprintf("%s %s\n", c.prompt, helpStyle.Render("y/N"))
}

func (c Confirm) Yes() bool {
	return c.answered && c.yes
}

// RunAddForm shows the add form on out, reading keys from in.
func RunAddForm(in io.Reader, out io.Writer, check FieldCheck) (command.Add, bool, error) {
	final, err := tea.NewProgram(NewAddForm(check), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return command.Add{}, false, err
	}
	add, ok := final.(AddForm).Command()
	return add, ok, nil
}

// RunConfirm asks prompt on out and reports whether the user answered yes.
func RunConfirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	final, err := tea.NewProgram(NewConfirm(prompt), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, err
	}
	return final.(Confirm).Yes(), nil
}
