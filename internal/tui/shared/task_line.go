package shared

import (
	"strings"

	"tagdo/internal/tasks/data"
	"tagdo/internal/tui/theme"
)

// StyledTaskLine renders a task in a simple, readable format.
// Format: [x] Summary #tag #tag ¶
// The trailing mark appears when the task has notes.
func StyledTaskLine(t data.Task, tagNames []string, width int) string {
	var parts []string

	summary := t.Summary
	if width > 0 {
		summary = Truncate(summary, max(width/2, 10))
	}

	if t.Complete {
		parts = append(parts, theme.Done.Render("[x]"), theme.Done.Render(summary))
	} else {
		parts = append(parts, "[ ]", summary)
	}

	for _, name := range tagNames {
		if t.Complete {
			parts = append(parts, theme.Done.Render("#"+name))
		} else {
			parts = append(parts, theme.Tag.Render("#"+name))
		}
	}

	if strings.TrimSpace(t.Notes) != "" {
		parts = append(parts, theme.Muted.Render("¶"))
	}

	return strings.Join(parts, " ")
}
