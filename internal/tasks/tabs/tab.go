package tabs

import (
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/query"
)

// Tab is a named query over the task list together with a cursor. The
// cursor follows a task id, not a position, so it survives reordering.
type Tab struct {
	Name string

	view     *query.View
	selected data.TaskID
	hasSel   bool
	offset   int
	scroll   int
}

func New(name string, list *data.TaskList, q query.Query) *Tab {
	return &Tab{Name: name, view: query.NewView(list, q)}
}

func (t *Tab) Query() query.Query {
	return t.view.Query()
}

// SetQuery replaces the tab's query. The selection is re-resolved against
// the new output.
func (t *Tab) SetQuery(q query.Query) {
	t.view.SetQuery(q)
	t.Refresh()
}

// Refresh re-resolves the selection against the current view output:
// the same task if it is still visible, otherwise the task now at the
// previous offset, otherwise the last task, otherwise nothing.
func (t *Tab) Refresh() {
	n := t.view.Len()
	if n == 0 {
		t.hasSel = false
		t.offset = 0
		t.scroll = 0
		return
	}
	if t.hasSel {
		if i, ok := t.view.Index(t.selected); ok {
			t.offset = i
			return
		}
	}
	t.offset = min(max(t.offset, 0), n-1)
	t.selected, _ = t.view.At(t.offset)
	t.hasSel = true
}

func (t *Tab) Len() int {
	return t.view.Len()
}

func (t *Tab) IDs() []data.TaskID {
	return t.view.IDs()
}

func (t *Tab) Contains(id data.TaskID) bool {
	return t.view.Contains(id)
}

func (t *Tab) Selected() (data.TaskID, bool) {
	t.Refresh()
	return t.selected, t.hasSel
}

func (t *Tab) Cursor() (int, bool) {
	t.Refresh()
	return t.offset, t.hasSel
}

// Select moves the cursor to id if the tab shows it.
func (t *Tab) Select(id data.TaskID) bool {
	i, ok := t.view.Index(id)
	if !ok {
		return false
	}
	t.selected = id
	t.hasSel = true
	t.offset = i
	return true
}

// Restore sets the remembered selection without checking it; the next
// Refresh resolves it.
func (t *Tab) Restore(id data.TaskID) {
	t.selected = id
	t.hasSel = true
}

// SelectAt moves the cursor to position i, clamped to the view.
func (t *Tab) SelectAt(i int) {
	n := t.view.Len()
	if n == 0 {
		t.Refresh()
		return
	}
	t.offset = min(max(i, 0), n-1)
	t.selected, _ = t.view.At(t.offset)
	t.hasSel = true
}

func (t *Tab) Next() {
	if i, ok := t.Cursor(); ok {
		t.SelectAt(i + 1)
	}
}

func (t *Tab) Prev() {
	if i, ok := t.Cursor(); ok {
		t.SelectAt(i - 1)
	}
}

func (t *Tab) First() {
	t.SelectAt(0)
}

func (t *Tab) Last() {
	t.SelectAt(t.view.Len() - 1)
}

func (t *Tab) Scroll() int {
	return t.scroll
}

// EnsureVisible adjusts the scroll offset so the cursor row falls inside a
// window of height rows.
func (t *Tab) EnsureVisible(height int) {
	if height <= 0 {
		return
	}
	cur, ok := t.Cursor()
	if !ok {
		t.scroll = 0
		return
	}
	if cur < t.scroll {
		t.scroll = cur
	}
	if cur >= t.scroll+height {
		t.scroll = cur - height + 1
	}
	maxScroll := max(t.view.Len()-height, 0)
	t.scroll = min(max(t.scroll, 0), maxScroll)
}
