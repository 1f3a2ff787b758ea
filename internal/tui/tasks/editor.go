package tasks

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"tagdo/internal/tasks/data"
)

type editorField int

const (
	fieldSummary editorField = iota
	fieldTags
	fieldNotes
	fieldCount
)

// EditorModel edits one task in place: summary, tags and notes.
type EditorModel struct {
	Title string
	Width int

	summary textinput.Model
	tags    textinput.Model
	notes   textarea.Model
	field   editorField
	err     string
}

// EditorResult carries the edited values. Tags are normalized names.
type EditorResult struct {
	Summary   string
	Tags      []string
	Notes     string
	Cancelled bool
}

// EditorValues seeds the editor.
type EditorValues struct {
	Summary string
	Tags    []string
	Notes   string
}

func NewEditor(title string, v EditorValues) EditorModel {
	summary := textinput.New()
	summary.Placeholder = "what needs doing"
	summary.CharLimit = 256
	summary.SetValue(v.Summary)
	summary.CursorEnd()

	tags := textinput.New()
	tags.Placeholder = "space separated, e.g. work urgent"
	tags.CharLimit = 256
	tags.SetValue(strings.Join(v.Tags, " "))
	tags.CursorEnd()

	notes := textarea.New()
	notes.Placeholder = "markdown notes"
	notes.ShowLineNumbers = false
	notes.SetValue(v.Notes)

	m := EditorModel{
		Title:   title,
		summary: summary,
		tags:    tags,
		notes:   notes,
	}
	m.SetSize(64, 8)
	m.focusField(fieldSummary)
	return m
}

// SetSize fits the editor into a box of the given width; height bounds
// the notes area.
func (m *EditorModel) SetSize(width, notesHeight int) {
	m.Width = width
	inner := max(width-6-editorLabelStyle.GetWidth(), 10)
	m.summary.Width = inner
	m.tags.Width = inner
	m.notes.SetWidth(inner)
	m.notes.SetHeight(max(notesHeight, 3))
}

func (m *EditorModel) focusField(f editorField) tea.Cmd {
	m.field = f
	m.summary.Blur()
	m.tags.Blur()
	m.notes.Blur()
	switch f {
	case fieldSummary:
		return m.summary.Focus()
	case fieldTags:
		return m.tags.Focus()
	default:
		return m.notes.Focus()
	}
}

// ParseTags splits user input on spaces and commas and normalizes each
// name.
func ParseTags(input string) ([]string, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		name, err := data.NormalizeTag(f)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func (m EditorModel) submit() (EditorModel, *EditorResult) {
	summary := strings.TrimSpace(m.summary.Value())
	if summary == "" {
		m.err = data.ErrEmptySummary.Error()
		m.focusField(fieldSummary)
		return m, nil
	}
	tags, err := ParseTags(m.tags.Value())
	if err != nil {
		m.err = err.Error()
		m.focusField(fieldTags)
		return m, nil
	}
	return m, &EditorResult{
		Summary: summary,
		Tags:    tags,
		Notes:   strings.TrimRight(m.notes.Value(), "\n"),
	}
}

// Update handles input. Enter commits from the summary or tags field,
// ctrl+s commits from any field, esc cancels. Tab and shift+tab move
// between fields.
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd, *EditorResult) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, nil, &EditorResult{Cancelled: true}
		case "ctrl+s":
			var res *EditorResult
			m, res = m.submit()
			return m, nil, res
		case "enter":
			if m.field != fieldNotes {
				var res *EditorResult
				m, res = m.submit()
				return m, nil, res
			}
		case "tab":
			cmd := m.focusField((m.field + 1) % fieldCount)
			return m, cmd, nil
		case "shift+tab":
			cmd := m.focusField((m.field + fieldCount - 1) % fieldCount)
			return m, cmd, nil
		}
		m.err = ""
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldSummary:
		m.summary, cmd = m.summary.Update(msg)
	case fieldTags:
		m.tags, cmd = m.tags.Update(msg)
	default:
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd, nil
}

func (m EditorModel) label(f editorField, text string) string {
	if m.field == f {
		return editorActiveLabel.Render(text)
	}
	return editorLabelStyle.Render(text)
}

func (m EditorModel) View() string {
	var content strings.Builder

	content.WriteString(modalTitleStyle.Render(m.Title))
	content.WriteString("\n\n")

	content.WriteString(m.label(fieldSummary, "Summary:"))
	content.WriteString(m.summary.View())
	content.WriteString("\n")

	content.WriteString(m.label(fieldTags, "Tags:"))
	content.WriteString(m.tags.View())
	content.WriteString("\n\n")

	content.WriteString(m.label(fieldNotes, "Notes:"))
	content.WriteString("\n")
	content.WriteString(m.notes.View())
	content.WriteString("\n")

	if m.err != "" {
		content.WriteString(inputErrorStyle.Render("Error: " + m.err))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(modalHelpStyle.Render("[tab] next field  [enter] save  [ctrl+s] save from notes  [esc] cancel"))

	return modalBoxStyle.Width(m.Width).Render(content.String())
}
