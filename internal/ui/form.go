package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/validate"
)

// Form field indexes, in tab order.
const (
	fieldTitle = iota
	fieldAuthor
	fieldISBN
	fieldPrice
	fieldPublishDate
	fieldPublisher
	fieldCount
)

type fieldSpec struct {
	name        string // validate field name; empty for unvalidated fields
	label       string
	placeholder string
	limit       int
}

var fieldSpecs = [fieldCount]fieldSpec{
	{validate.FieldTitle, "Title", "The Go Programming Language", 200},
	{validate.FieldAuthor, "Author", "Alan A. A. Donovan", 120},
	{validate.FieldISBN, "ISBN", "10 or 13 digits", 13},
	{validate.FieldPrice, "Price", "digits only", 12},
	{validate.FieldPublishDate, "Publish date", "YYYY-MM-DD (optional)", 10},
	{"", "Publisher", "optional", 120},
}

// formPane holds the text inputs of the book form.
type formPane struct {
	inputs  [fieldCount]textinput.Model
	focused int
}

func newFormPane() formPane {
	var f formPane
	for i, spec := range fieldSpecs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = spec.placeholder
		ti.CharLimit = spec.limit
		f.inputs[i] = ti
	}
	f.focus(fieldTitle)
	return f
}

// focus moves the cursor to field i and blurs the rest.
func (f *formPane) focus(i int) tea.Cmd {
	if i < 0 || i >= fieldCount {
		return nil
	}
	f.focused = i
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == i {
			cmd = f.inputs[idx].Focus()
		} else {
			f.inputs[idx].Blur()
		}
	}
	return cmd
}

func (f *formPane) blur() {
	for idx := range f.inputs {
		f.inputs[idx].Blur()
	}
}

// focusNamed focuses the field with the given validate name.
func (f *formPane) focusNamed(name string) tea.Cmd {
	for i, spec := range fieldSpecs {
		if spec.name != "" && spec.name == name {
			return f.focus(i)
		}
	}
	return nil
}

func (f formPane) onLast() bool { return f.focused == fieldCount-1 }

func (f formPane) values() catalog.Form {
	return catalog.Form{
		Title:       f.inputs[fieldTitle].Value(),
		Author:      f.inputs[fieldAuthor].Value(),
		ISBN:        f.inputs[fieldISBN].Value(),
		Price:       f.inputs[fieldPrice].Value(),
		PublishDate: f.inputs[fieldPublishDate].Value(),
		Publisher:   f.inputs[fieldPublisher].Value(),
	}
}

func (f *formPane) setValues(form catalog.Form) {
	f.inputs[fieldTitle].SetValue(form.Title)
	f.inputs[fieldAuthor].SetValue(form.Author)
	f.inputs[fieldISBN].SetValue(form.ISBN)
	f.inputs[fieldPrice].SetValue(form.Price)
	f.inputs[fieldPublishDate].SetValue(form.PublishDate)
	f.inputs[fieldPublisher].SetValue(form.Publisher)
}

func (f *formPane) reset() tea.Cmd {
	f.setValues(catalog.Form{})
	return f.focus(fieldTitle)
}

// update forwards a message to the focused input.
func (f *formPane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// renderForm renders the form pane with its submit button.
func (m Model) renderForm(width int) string {
	styles := m.theme.Styles()
	focusedPane := m.pane == paneForm && m.modal == nil

	inner := maxInt(width-4, 20)
	labelWidth := 13

	var b strings.Builder
	title := "New book"
	if id := m.ctrl.Editing(); id != 0 {
		title = "Edit book"
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")

	for i, spec := range fieldSpecs {
		input := m.form.inputs[i]
		input.Width = maxInt(inner-labelWidth-2, 8)

		labelStyle := styles.MutedText
		if focusedPane && m.form.focused == i {
			labelStyle = styles.AccentText.Bold(true)
		}
		if spec.name != "" && spec.name == m.status.field {
			labelStyle = styles.DangerText
		}
		b.WriteString(labelStyle.Width(labelWidth).Render(spec.label))
		b.WriteString(" ")

		box := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))
		if focusedPane && m.form.focused == i {
			box = box.Background(lipgloss.Color(m.theme.FocusBg))
		}
		b.WriteString(box.Width(input.Width + 1).Render(input.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	button := styles.Button
	if focusedPane && m.form.onLast() {
		button = styles.ButtonActive
	}
	b.WriteString(button.Render(m.ctrl.SubmitLabel(m.busy)))
	if m.ctrl.Editing() != 0 {
		b.WriteString("  ")
		b.WriteString(styles.Button.Render("Cancel (esc)"))
	}

	pane := styles.Pane
	if focusedPane {
		pane = styles.FocusedPane
	}
	return pane.Width(width - 2).Render(b.String())
}
