// Package focus tracks which widget receives input. The tree always has
// a Root with the TabBar and TaskList panes below it; modal widgets are
// attached under whichever node held focus when they opened.
package focus

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Root Kind = iota
	TabBar
	TaskList
	Editor
	Confirm
	Prompt
	TagPicker
	Help
)

var kindNames = [...]string{
	Root:      "root",
	TabBar:    "tabs",
	TaskList:  "list",
	Editor:    "edit",
	Confirm:   "confirm",
	Prompt:    "prompt",
	TagPicker: "tags",
	Help:      "help",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Modal reports whether k is a transient widget that is torn down on
// close.
func (k Kind) Modal() bool {
	return k >= Editor && int(k) < len(kindNames)
}

var (
	ErrModalOpen    = errors.New("a modal widget holds focus")
	ErrNotModal     = errors.New("not a modal widget")
	ErrNotFocusable = errors.New("not a focusable pane")
)

type node struct {
	kind     Kind
	parent   *node
	children []*node
}

type Tree struct {
	root    *node
	panes   map[Kind]*node
	focused *node
}

func New() *Tree {
	root := &node{kind: Root}
	tabBar := &node{kind: TabBar, parent: root}
	list := &node{kind: TaskList, parent: root}
	root.children = []*node{tabBar, list}
	return &Tree{
		root:    root,
		panes:   map[Kind]*node{TabBar: tabBar, TaskList: list},
		focused: list,
	}
}

func (t *Tree) Focused() Kind {
	return t.focused.kind
}

// Focus moves focus between the TabBar and TaskList panes. It fails while
// a modal is open.
func (t *Tree) Focus(k Kind) error {
	if t.IsModal() {
		return ErrModalOpen
	}
	n, ok := t.panes[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFocusable, k)
	}
	t.focused = n
	return nil
}

// Open attaches a modal widget under the focused node and focuses it.
func (t *Tree) Open(k Kind) error {
	if !k.Modal() {
		return fmt.Errorf("%w: %s", ErrNotModal, k)
	}
	n := &node{kind: k, parent: t.focused}
	t.focused.children = append(t.focused.children, n)
	t.focused = n
	return nil
}

// Close tears down the focused modal and returns the kind that now has
// focus. It does nothing when a pane is focused.
func (t *Tree) Close() Kind {
	n := t.focused
	if !n.kind.Modal() {
		return n.kind
	}
	parent := n.parent
	for i, c := range parent.children {
		if c == n {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	t.focused = parent
	return parent.kind
}

// Pane returns the non-modal pane that owns the focused widget.
func (t *Tree) Pane() Kind {
	n := t.focused
	for n.kind.Modal() {
		n = n.parent
	}
	return n.kind
}

// Path lists the kinds from the root down to the focused node.
func (t *Tree) Path() []Kind {
	var rev []Kind
	for n := t.focused; n != nil; n = n.parent {
		rev = append(rev, n.kind)
	}
	path := make([]Kind, len(rev))
	for i, k := range rev {
		path[len(rev)-1-i] = k
	}
	return path
}

func (t *Tree) Depth() int {
	return len(t.Path()) - 1
}

func (t *Tree) IsModal() bool {
	return t.focused.kind.Modal()
}
