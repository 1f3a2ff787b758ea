package tui

import "tagdo/internal/tui/theme"

// Fixed rows around the task list.
const (
	tabBarHeight    = 2
	infoBarHeight   = 1
	statusBarHeight = 2
	notesMaxLines   = 6
)

var (
	statusBarStyle   = theme.StatusBar
	statusErrorStyle = theme.Error
	statusSavedStyle = theme.Ok
	statusInfoStyle  = theme.HelpHint

	notesTitleStyle = theme.Subtitle
	notesPanelStyle = theme.NotesPanel
)
