package focus

import (
	"errors"
	"slices"
	"testing"
)

func TestNewFocusesTaskList(t *testing.T) {
	tree := New()
	if tree.Focused() != TaskList {
		t.Fatalf("expected list focus, got %s", tree.Focused())
	}
	if !slices.Equal(tree.Path(), []Kind{Root, TaskList}) {
		t.Errorf("unexpected path %v", tree.Path())
	}
	if tree.Depth() != 1 || tree.IsModal() {
		t.Errorf("unexpected depth %d modal %v", tree.Depth(), tree.IsModal())
	}
}

func TestOpenCloseReturnsToParent(t *testing.T) {
	tree := New()
	if err := tree.Focus(TabBar); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if err := tree.Open(Prompt); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tree.Open(Confirm); err != nil {
		t.Fatalf("open nested: %v", err)
	}
	if !slices.Equal(tree.Path(), []Kind{Root, TabBar, Prompt, Confirm}) {
		t.Fatalf("unexpected path %v", tree.Path())
	}
	if tree.Pane() != TabBar {
		t.Errorf("expected tab bar pane, got %s", tree.Pane())
	}

	if got := tree.Close(); got != Prompt {
		t.Errorf("expected prompt after close, got %s", got)
	}
	if got := tree.Close(); got != TabBar {
		t.Errorf("expected tab bar after close, got %s", got)
	}
	if got := tree.Close(); got != TabBar {
		t.Errorf("closing a pane should be a no-op, got %s", got)
	}
	if len(tree.panes[TabBar].children) != 0 {
		t.Error("closed modals should be detached")
	}
}

func TestFocusRejectedWhileModal(t *testing.T) {
	tree := New()
	tree.Open(Editor)
	if err := tree.Focus(TabBar); !errors.Is(err, ErrModalOpen) {
		t.Fatalf("expected ErrModalOpen, got %v", err)
	}
	if tree.Focused() != Editor {
		t.Errorf("focus should stay on the editor, got %s", tree.Focused())
	}
}

func TestInvalidTransitions(t *testing.T) {
	tree := New()
	if err := tree.Open(TabBar); !errors.Is(err, ErrNotModal) {
		t.Errorf("expected ErrNotModal, got %v", err)
	}
	if err := tree.Focus(Root); !errors.Is(err, ErrNotFocusable) {
		t.Errorf("expected ErrNotFocusable, got %v", err)
	}
	if err := tree.Focus(Help); !errors.Is(err, ErrNotFocusable) {
		t.Errorf("expected ErrNotFocusable for modal kind, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	if TagPicker.String() != "tags" || Kind(42).String() != "kind(42)" {
		t.Errorf("unexpected names %q %q", TagPicker, Kind(42))
	}
	if Root.Modal() || TaskList.Modal() || !Help.Modal() || Kind(42).Modal() {
		t.Error("unexpected modal classification")
	}
}
