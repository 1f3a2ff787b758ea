package tasks

import (
	"slices"

	"github.com/sahilm/fuzzy"
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/tabs"
)

// Search fuzzy-matches task summaries within one tab.
type Search struct {
	Pattern string
}

// Matches returns the ids of matching tasks in tab order.
func (s Search) Matches(tab *tabs.Tab, list *data.TaskList) []data.TaskID {
	if s.Pattern == "" {
		return nil
	}
	ids := tab.IDs()
	summaries := make([]string, len(ids))
	for i, id := range ids {
		t, _ := list.Get(id)
		summaries[i] = t.Summary
	}

	found := fuzzy.Find(s.Pattern, summaries)
	idx := make([]int, len(found))
	for i, m := range found {
		idx[i] = m.Index
	}
	slices.Sort(idx)

	out := make([]data.TaskID, len(idx))
	for i, j := range idx {
		out[i] = ids[j]
	}
	return out
}

// Next returns the first match after the cursor, wrapping to the top of
// the tab. With inclusive set the task under the cursor may match.
func (s Search) Next(tab *tabs.Tab, list *data.TaskList, inclusive bool) (data.TaskID, bool) {
	matches := s.Matches(tab, list)
	if len(matches) == 0 {
		return 0, false
	}
	cur, ok := tab.Cursor()
	if !ok {
		return matches[0], true
	}
	ids := tab.IDs()
	pos := make(map[data.TaskID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	for _, id := range matches {
		if p := pos[id]; p > cur || (inclusive && p == cur) {
			return id, true
		}
	}
	return matches[0], true
}
