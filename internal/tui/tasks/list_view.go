package tasks

import (
	"strings"

	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/tabs"
	"tagdo/internal/tui/shared"
)

// ListView renders the visible window of a tab's tasks.
type ListView struct {
	Width     int
	Height    int
	EmptyHint string
}

func (v ListView) View(tab *tabs.Tab, list *data.TaskList, focused bool) string {
	ids := tab.IDs()
	if len(ids) == 0 {
		msg := "No tasks in this tab."
		if v.EmptyHint != "" {
			msg += "\n" + v.EmptyHint
		}
		return shared.CenterContent(listEmptyStyle.Render(msg), v.Height)
	}

	cur, _ := tab.Cursor()
	start := tab.Scroll()
	end := min(start+max(v.Height, 1), len(ids))

	var rows []string
	for i := start; i < end; i++ {
		t, ok := list.Get(ids[i])
		if !ok {
			continue
		}
		line := shared.StyledTaskLine(t, list.TagNames(t), v.Width-2)
		switch {
		case i == cur && focused:
			rows = append(rows, listCursorStyle.Render("> "+line))
		case i == cur:
			rows = append(rows, "> "+line)
		default:
			rows = append(rows, "  "+line)
		}
	}
	return shared.FitHeight(strings.Join(rows, "\n"), v.Height)
}
