package tabs

import (
	"testing"

	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/query"
)

func newList(t *testing.T, summaries ...string) (*data.TaskList, []data.TaskID) {
	t.Helper()
	l := data.NewTaskList()
	var ids []data.TaskID
	for _, s := range summaries {
		id, err := l.Add(s, nil)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		ids = append(ids, id)
	}
	return l, ids
}

func TestInitialSelectionIsFirst(t *testing.T) {
	l, ids := newList(t, "a", "b")
	tab := New("all", l, query.All())

	got, ok := tab.Selected()
	if !ok || got != ids[0] {
		t.Errorf("expected %d selected, got %d (%v)", ids[0], got, ok)
	}
}

func TestEmptyTabHasNoSelection(t *testing.T) {
	l, _ := newList(t)
	tab := New("all", l, query.All())
	if _, ok := tab.Selected(); ok {
		t.Error("expected no selection in an empty tab")
	}
	tab.Next()
	tab.Last()
	if _, ok := tab.Cursor(); ok {
		t.Error("cursor movement must not create a selection")
	}
}

func TestCursorClampsWithoutWrap(t *testing.T) {
	l, ids := newList(t, "a", "b", "c")
	tab := New("all", l, query.All())

	tab.Prev()
	if id, _ := tab.Selected(); id != ids[0] {
		t.Errorf("prev at top should stay, got %d", id)
	}
	tab.Last()
	tab.Next()
	if id, _ := tab.Selected(); id != ids[2] {
		t.Errorf("next at bottom should stay, got %d", id)
	}
	tab.First()
	tab.Next()
	if i, _ := tab.Cursor(); i != 1 {
		t.Errorf("expected cursor 1, got %d", i)
	}
}

func TestSelectionFollowsIDAcrossReorder(t *testing.T) {
	l, ids := newList(t, "a", "b", "c")
	tab := New("all", l, query.All())
	tab.Select(ids[1])

	l.Move(ids[1], 1)
	got, _ := tab.Selected()
	if got != ids[1] {
		t.Errorf("expected selection to follow task %d, got %d", ids[1], got)
	}
	if i, _ := tab.Cursor(); i != 2 {
		t.Errorf("expected cursor at 2, got %d", i)
	}
}

func TestSelectionFallsBackToOffset(t *testing.T) {
	l, ids := newList(t, "a", "b", "c")
	tab := New("all", l, query.All())
	tab.Select(ids[1])

	l.Remove(ids[1])
	got, ok := tab.Selected()
	if !ok || got != ids[2] {
		t.Errorf("expected task at same offset (%d), got %d", ids[2], got)
	}
}

func TestSelectionFallsBackToLast(t *testing.T) {
	l, ids := newList(t, "a", "b", "c")
	tab := New("all", l, query.All())
	tab.Select(ids[2])

	l.Remove(ids[2])
	got, _ := tab.Selected()
	if got != ids[1] {
		t.Errorf("expected last task %d, got %d", ids[1], got)
	}

	l.Remove(ids[0])
	l.Remove(ids[1])
	if _, ok := tab.Selected(); ok {
		t.Error("expected empty selection once the tab is empty")
	}
}

func TestSelectionWhenTaskLeavesQuery(t *testing.T) {
	l := data.NewTaskList()
	milk, _ := l.Add("buy milk", []string{"errand"})
	taxes, _ := l.Add("file taxes", []string{"errand"})
	tab := New("errands", l, query.New(query.HasTag("errand"), query.OrderList))
	tab.Select(milk)

	l.SetTaskTags(milk, nil)
	got, ok := tab.Selected()
	if !ok || got != taxes {
		t.Errorf("expected fallback to %d, got %d", taxes, got)
	}
}

func TestSelectOutsideViewFails(t *testing.T) {
	l := data.NewTaskList()
	a, _ := l.Add("a", []string{"x"})
	b, _ := l.Add("b", nil)
	tab := New("x", l, query.New(query.HasTag("x"), query.OrderList))

	if tab.Select(b) {
		t.Error("expected Select of a hidden task to fail")
	}
	if got, _ := tab.Selected(); got != a {
		t.Errorf("selection changed to %d", got)
	}
}

func TestEnsureVisible(t *testing.T) {
	l, _ := newList(t, "a", "b", "c", "d", "e", "f")
	tab := New("all", l, query.All())

	tab.Last()
	tab.EnsureVisible(3)
	if tab.Scroll() != 3 {
		t.Errorf("expected scroll 3, got %d", tab.Scroll())
	}
	tab.First()
	tab.EnsureVisible(3)
	if tab.Scroll() != 0 {
		t.Errorf("expected scroll 0, got %d", tab.Scroll())
	}
}
