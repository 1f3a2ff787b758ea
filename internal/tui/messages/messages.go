package messages

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusKind selects how the status line renders a message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSaved
	StatusError
)

// StatusMsg replaces the text on the status line.
type StatusMsg struct {
	Kind StatusKind
	Text string
	Seq  int
}

// ClearStatusMsg clears the status line if it still shows message Seq.
type ClearStatusMsg struct {
	Seq int
}

// StatusTTL is how long transient status messages stay up.
const StatusTTL = 3 * time.Second

// ClearStatusAfter returns a command that clears status seq after d.
func ClearStatusAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
