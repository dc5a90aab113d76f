package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/txforge/internal/contract"
)

// ErrCancelled is returned when the user quits a form.
var ErrCancelled = errors.New("cancelled")

type formField struct {
	key         string
	label       string
	placeholder string
	value       string
}

// ArgsForm is a Bubble Tea model that collects one string per function
// input, plus the native value for payable functions.
type ArgsForm struct {
	title     string
	fields    []formField
	withValue bool
	cursor    int
	submitted bool
	cancelled bool
}

// NewArgsForm builds a form for d, prefilled from current. value prefills
// the native value field of payable functions.
func NewArgsForm(d *contract.Descriptor, current contract.Bindings, value string) ArgsForm {
	f := ArgsForm{title: d.Signature()}
	for i, in := range d.Inputs {
		key := d.InputKey(i)
		f.fields = append(f.fields, formField{
			key:         key,
			label:       fmt.Sprintf("%s (%s)", key, in.Type),
			placeholder: contract.Placeholder(in.Tag()),
			value:       current[key],
		})
	}
	if d.IsPayable() {
		f.withValue = true
		f.fields = append(f.fields, formField{
			label:       "value (ETH)",
			placeholder: "0.0",
			value:       value,
		})
	}
	return f
}

func (f ArgsForm) Init() tea.Cmd { return nil }

func (f ArgsForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		f.cancelled = true
		return f, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if f.cursor > 0 {
			f.cursor--
		}
	case tea.KeyDown, tea.KeyTab:
		if f.cursor < len(f.fields)-1 {
			f.cursor++
		}
	case tea.KeyEnter:
		if f.cursor < len(f.fields)-1 {
			f.cursor++
			return f, nil
		}
		f.submitted = true
		return f, tea.Quit
	case tea.KeyBackspace:
		if len(f.fields) > 0 {
			v := []rune(f.fields[f.cursor].value)
			if len(v) > 0 {
				f.fields[f.cursor].value = string(v[:len(v)-1])
			}
		}
	case tea.KeySpace:
		f.appendText(" ")
	case tea.KeyRunes:
		f.appendText(string(key.Runes))
	}
	return f, nil
}

func (f *ArgsForm) appendText(s string) {
	if len(f.fields) == 0 {
		return
	}
	// Pasted text arrives as one rune batch; keep it on one line.
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	f.fields[f.cursor].value += s
}

func (f ArgsForm) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(f.title) + "\n")
	if len(f.fields) == 0 {
		sb.WriteString(Meta("No parameters. Press Enter to continue.") + "\n")
	}
	for i, fld := range f.fields {
		marker := "  "
		label := StyleMeta.Render(fld.label)
		if i == f.cursor {
			marker = StyleChain.Render("▸ ")
			label = StyleValue.Render(fld.label)
		}
		v := fld.value
		switch {
		case v == "" && i == f.cursor:
			v = StyleMeta.Render(fld.placeholder) + "█"
		case v == "":
			v = StyleMeta.Render(fld.placeholder)
		case i == f.cursor:
			v = StyleAddress.Render(v) + "█"
		default:
			v = StyleAddress.Render(v)
		}
		sb.WriteString(marker + label + "\n    " + v + "\n")
	}
	sb.WriteString("\n" + Meta("tab/↑/↓ move · enter next/submit · esc cancel"))
	return StyleBorder.Render(sb.String()) + "\n"
}

// Submitted reports whether the user completed the form.
func (f ArgsForm) Submitted() bool { return f.submitted && !f.cancelled }

// Bindings returns the entered arguments keyed like contract.NewBindings.
func (f ArgsForm) Bindings() contract.Bindings {
	b := make(contract.Bindings, len(f.fields))
	for i, fld := range f.fields {
		if f.withValue && i == len(f.fields)-1 {
			continue
		}
		b[fld.key] = fld.value
	}
	return b
}

// Value returns the native value entered for payable functions.
func (f ArgsForm) Value() string {
	if !f.withValue {
		return ""
	}
	return strings.TrimSpace(f.fields[len(f.fields)-1].value)
}

// RunArgsForm shows the form on the terminal and returns what was entered.
func RunArgsForm(d *contract.Descriptor, current contract.Bindings, value string) (contract.Bindings, string, error) {
	final, err := tea.NewProgram(NewArgsForm(d, current, value)).Run()
	if err != nil {
		return nil, "", fmt.Errorf("argument form: %w", err)
	}
	f := final.(ArgsForm)
	if !f.Submitted() {
		return nil, "", ErrCancelled
	}
	return f.Bindings(), f.Value(), nil
}
