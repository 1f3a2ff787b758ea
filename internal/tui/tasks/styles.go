package tasks

import (
	"github.com/charmbracelet/lipgloss"
	"tagdo/internal/tui/theme"
)

var (
	modalBoxStyle   = theme.ModalBox
	modalTitleStyle = theme.Title
	modalHelpStyle  = theme.ModalHelp

	confirmYesStyle = theme.Ok
	confirmNoStyle  = theme.Error

	inputPromptStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
	inputErrorStyle  = lipgloss.NewStyle().Foreground(theme.Danger)

	editorLabelStyle  = lipgloss.NewStyle().Foreground(theme.Secondary).Width(10)
	editorActiveLabel = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Width(10)

	pickerItemStyle      = lipgloss.NewStyle().Foreground(theme.Text)
	pickerCursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(theme.TextBright).Background(theme.Surface)
	pickerSelectedStyle  = lipgloss.NewStyle().Foreground(theme.Warning)
	pickerCreateNewStyle = lipgloss.NewStyle().Foreground(theme.Success)

	listCursorStyle = theme.SelectedBg
	listEmptyStyle  = theme.Muted
)
