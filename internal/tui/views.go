package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"tagdo/internal/notes"
	"tagdo/internal/tui/focus"
	"tagdo/internal/tui/messages"
	"tagdo/internal/tui/shared"
	tabbar "tagdo/internal/tui/tabs"
	"tagdo/internal/tui/tasks"
	"tagdo/internal/tui/theme"
)

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}

	switch m.tree.Focused() {
	case focus.Help:
		return shared.RenderHelpPopup(m.helpSections(), m.width, m.height)
	case focus.Confirm:
		return m.overlay(m.confirm.View())
	case focus.Prompt:
		return m.overlay(m.prompt.View())
	case focus.Editor:
		return m.overlay(m.editor.View())
	case focus.TagPicker:
		return m.overlay(m.picker.View())
	}

	parts := []string{
		tabbar.Render(m.session.Tabs(), m.session.ActiveIndex(), m.tree.Focused() == focus.TabBar, m.width),
		m.infoBarView(),
		m.listView(),
	}
	if panel := m.notesView(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, m.statusView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m AppModel) overlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m AppModel) listHeight() int {
	h := m.height - tabBarHeight - infoBarHeight - statusBarHeight - m.notesHeight()
	return max(h, 1)
}

func (m AppModel) infoBarView() string {
	tab := m.session.ActiveTab()
	bar := tasks.NewInfoBar()
	bar.Mode = m.tree.Focused().String()
	bar.Query = tab.Query().String()
	bar.Count = tab.Len()
	bar.Search = m.search.Pattern
	bar.Modified = m.session.Dirty()
	bar.Width = m.width
	return bar.View()
}

func (m AppModel) listView() string {
	v := tasks.ListView{
		Width:     m.width,
		Height:    m.listHeight(),
		EmptyHint: fmt.Sprintf("Press %s to add one.", m.keys.List.Add.Help().Key),
	}
	return v.View(m.session.ActiveTab(), m.session.List(), m.tree.Focused() == focus.TaskList)
}

func (m AppModel) selectedNotes() string {
	t, err := m.session.SelectedTask()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(t.Notes)
}

func (m AppModel) notesHeight() int {
	content := m.selectedNotes()
	if content == "" {
		return 0
	}
	return min(len(notes.Render(content)), notesMaxLines) + 2
}

// notesView renders the selected task's notes below the list.
func (m AppModel) notesView() string {
	content := m.selectedNotes()
	if content == "" {
		return ""
	}

	note := notes.Parse(content)
	header := "Notes"
	if note.Title != "" {
		header += ": " + note.Title
	}
	if n := len(note.Links); n > 0 {
		header += theme.Muted.Render(fmt.Sprintf("  (%d links)", n))
	}

	lines := notes.Render(content)
	rows := []string{notesTitleStyle.Render(header)}
	for i, l := range lines {
		if i == notesMaxLines {
			break
		}
		rows = append(rows, renderNoteLine(l, m.width))
	}
	w := max(m.width, 1)
	return notesPanelStyle.Width(w).MaxWidth(w).Render(strings.Join(rows, "\n"))
}

func renderNoteLine(l notes.Line, width int) string {
	indent := strings.Repeat("  ", max(l.Depth-1, 0))
	switch l.Kind {
	case notes.LineHeading:
		return theme.NoteHeading.Render(strings.Repeat("#", l.Depth) + " " + l.Text)
	case notes.LineBullet:
		return indent + theme.NoteBullet.Render("• ") + l.Text
	case notes.LineCode:
		return theme.NoteCode.Render("  " + l.Text)
	case notes.LineQuote:
		return theme.NoteQuote.Render("│ " + l.Text)
	case notes.LineRule:
		return theme.Muted.Render(strings.Repeat("─", max(width-4, 3)))
	}
	if l.Depth > 0 {
		return indent + "  " + l.Text
	}
	return l.Text
}

func (m AppModel) statusView() string {
	var text string
	switch {
	case m.status.Text == "" && m.tree.Focused() == focus.TabBar:
		text = m.help.View(m.keys.Tabs)
	case m.status.Text == "":
		text = m.help.View(m.keys.List)
	case m.status.Kind == messages.StatusError:
		text = statusErrorStyle.Render("Error: " + m.status.Text)
	case m.status.Kind == messages.StatusSaved:
		text = statusSavedStyle.Render(m.status.Text)
	default:
		text = statusInfoStyle.Render(m.status.Text)
	}
	return statusBarStyle.Width(max(m.width, 1)).Render(text)
}

func flatten(groups [][]key.Binding) []key.Binding {
	var out []key.Binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (m AppModel) helpSections() []shared.HelpSection {
	return []shared.HelpSection{
		shared.SectionFromBindings("Task list", flatten(m.keys.List.FullHelp())),
		shared.SectionFromBindings("Tabs", flatten(m.keys.Tabs.FullHelp())),
		shared.SectionFromBindings("Dialogs", []key.Binding{m.keys.Confirm, m.keys.Cancel}),
	}
}
