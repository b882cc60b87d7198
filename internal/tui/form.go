package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/triage/internal/task"
	"github.com/Iron-Ham/triage/internal/taskqueue"
	"github.com/Iron-Ham/triage/internal/tui/styles"
	"github.com/Iron-Ham/triage/internal/util"
)

const labelWidth = 12

// Form field order.
const (
	fieldTitle = iota
	fieldDue
	fieldHours
	fieldImportance
	fieldDeps
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:      "Title",
	fieldDue:        "Due date",
	fieldHours:      "Hours",
	fieldImportance: "Importance",
	fieldDeps:       "Depends on",
}

var fieldPlaceholders = [fieldCount]string{
	fieldTitle:      "What needs doing?",
	fieldDue:        "YYYY-MM-DD (optional)",
	fieldHours:      "1",
	fieldImportance: "1-10, default 5",
	fieldDeps:       "t1, t2 (optional)",
}

// addForm collects the fields of a new task.
type addForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newAddForm() addForm {
	var f addForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 200
		ti.Width = 40
		f.inputs[i] = ti
	}
	f.inputs[fieldTitle].Focus()
	return f
}

// next moves focus by delta, wrapping around.
func (f *addForm) next(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// update forwards a message to the focused input.
func (f *addForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// input returns the typed values.
func (f addForm) input() taskqueue.FormInput {
	return taskqueue.FormInput{
		Title:        f.inputs[fieldTitle].Value(),
		DueDate:      f.inputs[fieldDue].Value(),
		Hours:        f.inputs[fieldHours].Value(),
		Importance:   f.inputs[fieldImportance].Value(),
		Dependencies: f.inputs[fieldDeps].Value(),
	}
}

// parse validates the typed values.
func (f addForm) parse() (task.Task, error) {
	return taskqueue.ParseForm(f.input())
}

func (f addForm) view() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Add task") + "\n")
	for i, in := range f.inputs {
		label := styles.Muted.Render(util.PadRight(fieldLabels[i], labelWidth))
		if i == f.focus {
			label = styles.Primary.Render(util.PadRight(fieldLabels[i], labelWidth))
		}
		b.WriteString(label + in.View() + "\n")
	}
	b.WriteString(styles.HelpBar.Render("tab next field  enter add  esc cancel"))
	return styles.Panel.Render(b.String())
}
