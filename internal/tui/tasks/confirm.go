package tasks

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel displays a simple yes/no confirmation dialog
type ConfirmModel struct {
	Message string // Primary question
	Details string // Additional context (optional)
	Width   int

	yes key.Binding
	no  key.Binding
}

// ConfirmResult is returned once the user answers.
type ConfirmResult struct {
	Confirmed bool
}

// NewConfirm creates a confirmation dialog answered by the yes and no
// bindings.
func NewConfirm(message, details string, yes, no key.Binding) ConfirmModel {
	return ConfirmModel{
		Message: message,
		Details: details,
		Width:   50,
		yes:     yes,
		no:      no,
	}
}

// Update returns a result when the key answers the dialog. Other keys are
// ignored.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd, *ConfirmResult) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, nil
	}
	switch {
	case key.Matches(keyMsg, m.yes):
		return m, nil, &ConfirmResult{Confirmed: true}
	case key.Matches(keyMsg, m.no):
		return m, nil, &ConfirmResult{Confirmed: false}
	}
	return m, nil, nil
}

// View renders the confirmation modal
func (m ConfirmModel) View() string {
	var content string

	content += modalTitleStyle.Render(m.Message) + "\n"

	if m.Details != "" {
		content += "\n" + m.Details + "\n"
	}

	content += "\n"
	content += confirmYesStyle.Render("["+m.yes.Help().Key+"]") + " Yes  "
	content += confirmNoStyle.Render("["+m.no.Help().Key+"]") + " No"

	return modalBoxStyle.Width(m.Width).Render(content)
}
