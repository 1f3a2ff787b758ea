// Package tabs renders the tab bar.
package tabs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	tasktabs "tagdo/internal/tasks/tabs"
	"tagdo/internal/tui/theme"
)

const separator = " │ "

// Label is the text shown for one tab.
func Label(t *tasktabs.Tab) string {
	return fmt.Sprintf("%s (%d)", t.Name, t.Len())
}

// Render draws all tabs on one line, highlighting the active one. When
// the labels do not fit, tabs are dropped from the left until the active
// tab is visible.
func Render(all []*tasktabs.Tab, active int, focused bool, width int) string {
	labels := make([]string, len(all))
	for i, t := range all {
		labels[i] = renderLabel(Label(t), i == active, focused)
	}

	first := visibleFrom(labels, active, width-2)
	line := strings.Join(labels[first:], separator)
	if first > 0 {
		line = theme.Muted.Render("‹ ") + line
	}
	return theme.TabBar.Width(max(width, 1)).MaxWidth(max(width, 1)).Render(line)
}

func renderLabel(label string, active, focused bool) string {
	switch {
	case active && focused:
		return theme.TabFocused.Render(label)
	case active:
		return theme.TabActive.Render(label)
	}
	return theme.TabInactive.Render(label)
}

// visibleFrom returns the first label index to draw so that the label at
// active fits within width.
func visibleFrom(labels []string, active, width int) int {
	if width <= 0 || active <= 0 {
		return 0
	}
	sep := lipgloss.Width(separator)
	used := 0
	for i := 0; i <= active && i < len(labels); i++ {
		used += lipgloss.Width(labels[i])
		if i > 0 {
			used += sep
		}
	}
	first := 0
	for used > width && first < active {
		used -= lipgloss.Width(labels[first]) + sep
		first++
	}
	return first
}
