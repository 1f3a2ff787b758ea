package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"tagdo/internal/config"
	"tagdo/internal/logs"
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/service"
	"tagdo/internal/tui/focus"
	"tagdo/internal/tui/messages"
	"tagdo/internal/tui/tasks"
)

// ErrUnsaved is reported when the user quits after the final save failed.
var ErrUnsaved = errors.New("quit without saving: final save failed")

type confirmPurpose int

const (
	confirmDeleteTask confirmPurpose = iota
	confirmDeleteTab
	confirmRetrySave
)

type promptPurpose int

const (
	promptSearch promptPurpose = iota
	promptRenameTag
	promptTabNew
	promptTabRename
	promptTabQuery
)

// pending remembers what an open modal widget is working on.
type pending struct {
	confirm confirmPurpose
	prompt  promptPurpose
	task    data.TaskID
	tab     int
	newTask bool
}

// AppModel is the root model. It owns the session and the focus tree and
// routes every key to the focused widget.
type AppModel struct {
	session *service.Session
	keys    KeyMap
	tree    *focus.Tree
	help    help.Model

	width  int
	height int
	ready  bool

	confirm tasks.ConfirmModel
	prompt  tasks.PromptModel
	editor  tasks.EditorModel
	picker  tasks.TagPickerModel
	pending pending

	search    tasks.Search
	status    messages.StatusMsg
	statusSeq int
	warnings  []service.Warning

	quitting bool
	exitErr  error
}

type Option func(*AppModel)

// WithWarnings reports load warnings on the status line at startup.
func WithWarnings(ws []service.Warning) Option {
	return func(m *AppModel) {
		m.warnings = ws
	}
}

// WithSize sets the initial terminal size, mainly for tests.
func WithSize(width, height int) Option {
	return func(m *AppModel) {
		m.width = width
		m.height = height
		m.ready = true
	}
}

// NewAppModel creates the root model. keys must have passed
// config.Validate.
func NewAppModel(session *service.Session, keys config.Keys, opts ...Option) AppModel {
	m := AppModel{
		session: session,
		keys:    NewKeyMap(keys),
		tree:    focus.New(),
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.settle()
	return m
}

// ExitErr is non-nil when the program ended without its final save.
func (m AppModel) ExitErr() error {
	return m.exitErr
}

// Focused reports the widget that receives keys.
func (m AppModel) Focused() focus.Kind {
	return m.tree.Focused()
}

func (m AppModel) Status() messages.StatusMsg {
	return m.status
}

func (m AppModel) Init() tea.Cmd {
	if len(m.warnings) == 0 {
		return nil
	}
	texts := make([]string, len(m.warnings))
	for i, w := range m.warnings {
		texts[i] = w.String()
	}
	msg := messages.StatusMsg{Kind: messages.StatusError, Text: "showing all tasks: " + strings.Join(texts, "; ")}
	return func() tea.Msg { return msg }
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case messages.StatusMsg:
		m.statusSeq++
		m.status = msg
		m.status.Seq = m.statusSeq

	case messages.ClearStatusMsg:
		if msg.Seq == m.status.Seq {
			m.status = messages.StatusMsg{}
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd = m.interrupt()
			break
		}
		cmd = m.dispatch(msg)

	default:
		cmd = m.forward(msg)
	}

	m.settle()
	return m, cmd
}

// dispatch routes a key to the focused widget only. Keys a pane does not
// bind are dropped.
func (m *AppModel) dispatch(msg tea.KeyMsg) tea.Cmd {
	switch m.tree.Focused() {
	case focus.TaskList:
		return m.listAction(m.keys.List.Resolve(msg))

	case focus.TabBar:
		return m.tabAction(m.keys.Tabs.Resolve(msg))

	case focus.Help:
		m.tree.Close()
		return nil

	case focus.Confirm:
		var cmd tea.Cmd
		var res *tasks.ConfirmResult
		m.confirm, cmd, res = m.confirm.Update(msg)
		if res == nil {
			return cmd
		}
		m.tree.Close()
		return m.confirmDone(*res)

	case focus.Prompt:
		var cmd tea.Cmd
		var res *tasks.PromptResult
		m.prompt, cmd, res = m.prompt.Update(msg)
		if res == nil {
			return cmd
		}
		m.tree.Close()
		return m.promptDone(*res)

	case focus.Editor:
		var cmd tea.Cmd
		var res *tasks.EditorResult
		m.editor, cmd, res = m.editor.Update(msg)
		if res == nil {
			return cmd
		}
		m.tree.Close()
		return m.editorDone(*res)

	case focus.TagPicker:
		var cmd tea.Cmd
		var res *tasks.TagPickerResult
		m.picker, cmd, res = m.picker.Update(msg)
		if res == nil {
			return cmd
		}
		m.tree.Close()
		return m.pickerDone(*res)
	}
	return nil
}

// forward passes non-key messages, such as cursor blinks, to the focused
// text widget.
func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.tree.Focused() {
	case focus.Prompt:
		m.prompt, cmd, _ = m.prompt.Update(msg)
	case focus.Editor:
		m.editor, cmd, _ = m.editor.Update(msg)
	case focus.TagPicker:
		m.picker, cmd, _ = m.picker.Update(msg)
	}
	return cmd
}

// interrupt handles ctrl+c: modals are dropped and the normal quit path
// runs. A second ctrl+c on the retry dialog quits without saving.
func (m *AppModel) interrupt() tea.Cmd {
	if m.tree.Focused() == focus.Confirm && m.pending.confirm == confirmRetrySave {
		m.tree.Close()
		return m.confirmDone(tasks.ConfirmResult{Confirmed: false})
	}
	for m.tree.IsModal() {
		m.tree.Close()
	}
	return m.quit()
}

// quit saves synchronously. On failure it asks whether to retry.
func (m *AppModel) quit() tea.Cmd {
	if err := m.session.Save(); err != nil {
		m.openConfirm(confirmRetrySave, "Save failed. Retry?", err.Error())
		return m.setStatus(messages.StatusError, err.Error())
	}
	m.quitting = true
	return tea.Quit
}

func (m *AppModel) save() tea.Cmd {
	if err := m.session.Save(); err != nil {
		return m.setStatus(messages.StatusError, err.Error())
	}
	return m.setStatus(messages.StatusSaved, "Saved")
}

// report turns a mutation error into a status message. NotFound has
// already been logged and is otherwise ignored.
func (m *AppModel) report(err error) tea.Cmd {
	if err == nil || errors.Is(err, data.ErrNotFound) {
		return nil
	}
	logs.Logger.Warn("action failed", "err", err)
	return m.setStatus(messages.StatusError, err.Error())
}

func (m *AppModel) setStatus(kind messages.StatusKind, text string) tea.Cmd {
	m.statusSeq++
	m.status = messages.StatusMsg{Kind: kind, Text: text, Seq: m.statusSeq}
	if kind == messages.StatusError {
		return nil
	}
	return messages.ClearStatusAfter(m.statusSeq, messages.StatusTTL)
}

func (m *AppModel) openConfirm(p confirmPurpose, message, details string) {
	m.pending.confirm = p
	m.confirm = tasks.NewConfirm(message, details, m.keys.Confirm, m.keys.Cancel)
	m.tree.Open(focus.Confirm)
}

func (m *AppModel) openPrompt(p promptPurpose, label, placeholder, value string, validate func(string) error) {
	m.pending.prompt = p
	m.prompt = tasks.NewPrompt(label, placeholder, value, validate)
	m.prompt.SetWidth(min(max(m.width, 40), 80))
	m.tree.Open(focus.Prompt)
}

func (m *AppModel) openEditor(title string, v tasks.EditorValues, id data.TaskID, isNew bool) tea.Cmd {
	m.pending.task = id
	m.pending.newTask = isNew
	m.editor = tasks.NewEditor(title, v)
	m.editor.SetSize(min(max(m.width-4, 40), 90), max(m.height/3, 3))
	m.tree.Open(focus.Editor)
	return textinput.Blink
}

// settle re-resolves the active tab's selection and scroll so that View
// only reads current state.
func (m *AppModel) settle() {
	tab := m.session.ActiveTab()
	tab.Refresh()
	if m.ready {
		tab.EnsureVisible(m.listHeight())
	}
	m.help.Width = m.width
}
