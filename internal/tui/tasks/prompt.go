package tasks

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptModel wraps bubbles/textinput with validation
type PromptModel struct {
	Input     textinput.Model
	Prompt    string
	Validator func(string) error
	Error     string
	Width     int
}

// PromptResult is returned when input is confirmed or cancelled
type PromptResult struct {
	Value     string
	Cancelled bool
}

// NewPrompt creates a focused single-line prompt.
func NewPrompt(prompt, placeholder, value string, validator func(string) error) PromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	m := PromptModel{
		Input:     ti,
		Prompt:    prompt,
		Validator: validator,
	}
	m.SetWidth(60)
	return m
}

// Update handles a key. Enter submits only when the validator accepts the
// value; esc cancels.
func (m PromptModel) Update(msg tea.Msg) (PromptModel, tea.Cmd, *PromptResult) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.Validator != nil {
				if err := m.Validator(m.Input.Value()); err != nil {
					m.Error = err.Error()
					return m, nil, nil
				}
			}
			return m, nil, &PromptResult{Value: m.Input.Value()}

		case "esc":
			return m, nil, &PromptResult{Cancelled: true}
		}
		// Clear error when user types
		m.Error = ""
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd, nil
}

// View renders the prompt box
func (m PromptModel) View() string {
	var content string

	content += inputPromptStyle.Render(m.Prompt+": ") + m.Input.View() + "\n"

	if m.Error != "" {
		content += inputErrorStyle.Render("Error: "+m.Error) + "\n"
	}

	content += modalHelpStyle.Render("[enter] confirm  [esc] cancel")

	return modalBoxStyle.Width(m.Width).Render(content)
}

func (m PromptModel) Value() string {
	return m.Input.Value()
}

// SetWidth sets both the outer box and inner input widths
func (m *PromptModel) SetWidth(w int) {
	// Account for border (2) and padding (4)
	m.Width = w - 6
	m.Input.Width = max(m.Width-lipgloss.Width(m.Prompt+": ")-6, 10)
}
