package tasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"tagdo/internal/tui/theme"
)

var (
	modeStyle   = theme.NavActive
	queryStyle  = lipgloss.NewStyle().Foreground(theme.Warning)
	searchStyle = lipgloss.NewStyle().Foreground(theme.Success)
	countStyle  = theme.Muted
)

// InfoBarModel displays the focused widget, the active query and the
// current search.
type InfoBarModel struct {
	Mode     string
	Query    string
	Count    int
	Search   string
	Modified bool // unsaved changes
	Width    int
}

func NewInfoBar() InfoBarModel {
	return InfoBarModel{Width: 80}
}

func (m InfoBarModel) View() string {
	mode := "[" + m.Mode + "]"
	if m.Modified {
		mode += "*"
	}
	parts := []string{modeStyle.Render(mode)}

	q := m.Query
	if q == "" {
		q = "all"
	}
	parts = append(parts, queryStyle.Render("query: "+q))

	noun := "tasks"
	if m.Count == 1 {
		noun = "task"
	}
	parts = append(parts, countStyle.Render(fmt.Sprintf("%d %s", m.Count, noun)))

	if m.Search != "" {
		parts = append(parts, searchStyle.Render("search: \""+m.Search+"\""))
	}

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
}
