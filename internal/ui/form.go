// Package ui holds the interactive terminal prompts.
package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user leaves a form before submitting it.
var ErrAborted = errors.New("ui: aborted")

// Field is one question of a form.
type Field struct {
	Label string
	// Value pre-fills the answer.
	Value string
	// Validate rejects an answer with a message shown below the input; the
	// question is asked again until it passes. Nil accepts anything.
	Validate func(answer string) error
}

// Form asks its fields one after another.
type Form struct {
	title  string
	fields []Field
	inputs []textinput.Model
	focus  int
	err    error

	submitted bool
	aborted   bool
	styles    Styles
}

// NewForm creates a form with the first field focused.
func NewForm(title string, fields []Field) Form {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(f.Value)
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return Form{
		title:     title,
		fields:    fields,
		inputs:    inputs,
		submitted: len(fields) == 0,
		styles:    defaultStyles(),
	}
}

func (f Form) Init() tea.Cmd {
	if f.submitted {
		return tea.Quit
	}
	return textinput.Blink
}

func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if f.submitted || f.aborted {
		return f, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			f.aborted = true
			return f, tea.Quit
		case tea.KeyEnter:
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// submit validates the focused answer and moves on to the next field.
func (f Form) submit() (tea.Model, tea.Cmd) {
	answer := strings.TrimSpace(f.inputs[f.focus].Value())
	if validate := f.fields[f.focus].Validate; validate != nil {
		if err := validate(answer); err != nil {
			f.err = err
			return f, nil
		}
	}

	f.err = nil
	f.inputs[f.focus].SetValue(answer)
	f.inputs[f.focus].Blur()

	if f.focus == len(f.inputs)-1 {
		f.submitted = true
		return f, tea.Quit
	}
	f.focus++
	return f, f.inputs[f.focus].Focus()
}

func (f Form) View() string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(f.styles.Title.Render(f.title))
		b.WriteString("\n\n")
	}

	for i := 0; i <= f.focus && i < len(f.inputs); i++ {
		b.WriteString(f.styles.Label.Render(f.fields[i].Label + ": "))
		if i < f.focus || f.submitted {
			b.WriteString(f.styles.Answer.Render(f.inputs[i].Value()))
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}

	if f.err != nil {
		b.WriteString(f.styles.Error.Render(f.err.Error()))
		b.WriteString("\n")
	}
	if !f.submitted && !f.aborted {
		b.WriteString(f.styles.Faint.Render("enter to confirm, esc to cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

// Submitted reports whether every field was answered.
func (f Form) Submitted() bool { return f.submitted }

// Err is the validation error of the focused field, if any.
func (f Form) Err() error { return f.err }

// Values returns the trimmed answers in field order.
func (f Form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = strings.TrimSpace(in.Value())
	}
	return values
}

// Run shows the form and returns the answers once every field is accepted.
func Run(ctx context.Context, form Form, opts ...tea.ProgramOption) ([]string, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(form, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	result, ok := final.(Form)
	if !ok || !result.Submitted() {
		return nil, ErrAborted
	}
	return result.Values(), nil
}
