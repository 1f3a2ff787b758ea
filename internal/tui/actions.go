package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"tagdo/internal/logs"
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/query"
	"tagdo/internal/tasks/service"
	"tagdo/internal/tui/focus"
	"tagdo/internal/tui/messages"
	"tagdo/internal/tui/tasks"
)

// Action is what a pane does in response to a key.
type Action int

const (
	ActionNone Action = iota

	ActionUp
	ActionDown
	ActionFirst
	ActionLast
	ActionAdd
	ActionEdit
	ActionTags
	ActionToggle
	ActionDelete
	ActionMoveUp
	ActionMoveDown
	ActionSearch
	ActionSearchNext
	ActionRenameTag
	ActionFocusTabs

	ActionTabPrev
	ActionTabNext
	ActionTabNew
	ActionTabRename
	ActionTabQuery
	ActionTabDelete
	ActionTabMoveLeft
	ActionTabMoveRight
	ActionFocusList

	ActionSave
	ActionHelp
	ActionQuit
)

type binding struct {
	key    key.Binding
	action Action
}

func resolve(msg tea.KeyMsg, table []binding) Action {
	for _, b := range table {
		if key.Matches(msg, b.key) {
			return b.action
		}
	}
	return ActionNone
}

// Resolve maps a key on the task list to an action.
func (k ListKeys) Resolve(msg tea.KeyMsg) Action {
	return resolve(msg, []binding{
		{k.Up, ActionUp},
		{k.Down, ActionDown},
		{k.First, ActionFirst},
		{k.Last, ActionLast},
		{k.Add, ActionAdd},
		{k.Edit, ActionEdit},
		{k.Tags, ActionTags},
		{k.Toggle, ActionToggle},
		{k.Delete, ActionDelete},
		{k.MoveUp, ActionMoveUp},
		{k.MoveDown, ActionMoveDown},
		{k.Search, ActionSearch},
		{k.SearchNext, ActionSearchNext},
		{k.RenameTag, ActionRenameTag},
		{k.FocusTabs, ActionFocusTabs},
		{k.Save, ActionSave},
		{k.Help, ActionHelp},
		{k.Quit, ActionQuit},
	})
}

// Resolve maps a key on the tab bar to an action.
func (k TabKeys) Resolve(msg tea.KeyMsg) Action {
	return resolve(msg, []binding{
		{k.Prev, ActionTabPrev},
		{k.Next, ActionTabNext},
		{k.New, ActionTabNew},
		{k.Rename, ActionTabRename},
		{k.Query, ActionTabQuery},
		{k.Delete, ActionTabDelete},
		{k.MoveLeft, ActionTabMoveLeft},
		{k.MoveRight, ActionTabMoveRight},
		{k.FocusList, ActionFocusList},
		{k.Save, ActionSave},
		{k.Help, ActionHelp},
		{k.Quit, ActionQuit},
	})
}

// Shared by both panes.
func (m *AppModel) commonAction(a Action) tea.Cmd {
	switch a {
	case ActionSave:
		return m.save()
	case ActionHelp:
		m.tree.Open(focus.Help)
	case ActionQuit:
		return m.quit()
	}
	return nil
}

func (m *AppModel) listAction(a Action) tea.Cmd {
	tab := m.session.ActiveTab()
	id, hasSel := tab.Selected()

	switch a {
	case ActionUp:
		tab.Prev()
	case ActionDown:
		tab.Next()
	case ActionFirst:
		tab.First()
	case ActionLast:
		tab.Last()

	case ActionAdd:
		return m.openEditor("New Task", tasks.EditorValues{}, 0, true)

	case ActionEdit:
		if !hasSel {
			return nil
		}
		t, _ := m.session.List().Get(id)
		v := tasks.EditorValues{Summary: t.Summary, Tags: m.session.List().TagNames(t), Notes: t.Notes}
		return m.openEditor("Edit Task", v, id, false)

	case ActionTags:
		if !hasSel {
			return nil
		}
		t, _ := m.session.List().Get(id)
		m.picker = tasks.NewTagPicker("Tags: "+t.Summary, m.session.List().Tags().Names(), m.session.List().TagNames(t))
		m.pending.task = id
		m.tree.Open(focus.TagPicker)

	case ActionToggle:
		if hasSel {
			return m.report(m.session.ToggleComplete(id))
		}

	case ActionDelete:
		if !hasSel {
			return nil
		}
		t, _ := m.session.List().Get(id)
		m.pending.task = id
		m.openConfirm(confirmDeleteTask, "Delete task?", t.Summary)

	case ActionMoveUp, ActionMoveDown:
		if !hasSel {
			return nil
		}
		delta := 1
		if a == ActionMoveUp {
			delta = -1
		}
		return m.report(m.session.MoveTask(id, delta))

	case ActionSearch:
		m.openPrompt(promptSearch, "Search", "fuzzy match on summary", m.search.Pattern, nil)

	case ActionSearchNext:
		return m.findNext(false)

	case ActionRenameTag:
		m.openPrompt(promptRenameTag, "Rename tag", "old new", "", m.validateTagRename)

	case ActionFocusTabs:
		m.tree.Focus(focus.TabBar)

	default:
		return m.commonAction(a)
	}
	return nil
}

func (m *AppModel) tabAction(a Action) tea.Cmd {
	active := m.session.ActiveIndex()
	tab := m.session.ActiveTab()

	switch a {
	case ActionTabPrev:
		m.session.SetActive(active - 1)
	case ActionTabNext:
		m.session.SetActive(active + 1)

	case ActionTabNew:
		m.openPrompt(promptTabNew, "New tab", "name", "", validateTabName)

	case ActionTabRename:
		m.openPrompt(promptTabRename, "Rename tab", "name", tab.Name, validateTabName)

	case ActionTabQuery:
		m.openPrompt(promptTabQuery, "Query", "tag:work & !complete sort:alpha", tab.Query().String(), m.validateQuery)

	case ActionTabDelete:
		if len(m.session.Tabs()) == 1 {
			return m.report(service.ErrLastTab)
		}
		m.pending.tab = active
		m.openConfirm(confirmDeleteTab, fmt.Sprintf("Delete tab %q?", tab.Name), "Tasks are kept.")

	case ActionTabMoveLeft:
		_, err := m.session.MoveTab(active, -1)
		return m.report(err)
	case ActionTabMoveRight:
		_, err := m.session.MoveTab(active, 1)
		return m.report(err)

	case ActionFocusList:
		m.tree.Focus(focus.TaskList)

	default:
		return m.commonAction(a)
	}
	return nil
}

func (m *AppModel) findNext(inclusive bool) tea.Cmd {
	if m.search.Pattern == "" {
		return nil
	}
	tab := m.session.ActiveTab()
	id, ok := m.search.Next(tab, m.session.List(), inclusive)
	if !ok {
		return m.setStatus(messages.StatusInfo, fmt.Sprintf("no match for %q", m.search.Pattern))
	}
	tab.Select(id)
	return nil
}

func validateTabName(s string) error {
	if strings.TrimSpace(s) == "" {
		return service.ErrEmptyName
	}
	return nil
}

func (m *AppModel) validateQuery(s string) error {
	q, err := query.FromString(s)
	if err != nil {
		return err
	}
	return q.Validate(m.session.List().Tags())
}

func parseTagRename(s string) (string, string, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("enter the old and new tag names")
	}
	oldName, err := data.NormalizeTag(fields[0])
	if err != nil {
		return "", "", err
	}
	newName, err := data.NormalizeTag(fields[1])
	if err != nil {
		return "", "", err
	}
	return oldName, newName, nil
}

func (m *AppModel) validateTagRename(s string) error {
	oldName, _, err := parseTagRename(s)
	if err != nil {
		return err
	}
	if _, ok := m.session.List().Tags().Lookup(oldName); !ok {
		return fmt.Errorf("%w: tag %q", data.ErrNotFound, oldName)
	}
	return nil
}

func (m *AppModel) promptDone(res tasks.PromptResult) tea.Cmd {
	if res.Cancelled {
		return nil
	}
	switch m.pending.prompt {
	case promptSearch:
		m.search = tasks.Search{Pattern: strings.TrimSpace(res.Value)}
		return m.findNext(true)

	case promptRenameTag:
		oldName, newName, err := parseTagRename(res.Value)
		if err == nil {
			err = m.session.RenameTag(oldName, newName)
		}
		return m.report(err)

	case promptTabNew:
		_, err := m.session.AddTab(res.Value, query.All())
		return m.report(err)

	case promptTabRename:
		return m.report(m.session.RenameTab(m.session.ActiveIndex(), res.Value))

	case promptTabQuery:
		q, err := query.FromString(res.Value)
		if err == nil {
			err = m.session.SetTabQuery(m.session.ActiveIndex(), q)
		}
		return m.report(err)
	}
	return nil
}

func (m *AppModel) editorDone(res tasks.EditorResult) tea.Cmd {
	if res.Cancelled {
		return nil
	}
	if !m.pending.newTask {
		return m.report(m.session.EditTask(m.pending.task, res.Summary, res.Tags, res.Notes))
	}

	id, err := m.session.AddTask(res.Summary, res.Tags)
	if err == nil && res.Notes != "" {
		err = m.session.UpdateTask(id, func(t *data.Task) error {
			t.Notes = res.Notes
			return nil
		})
	}
	if err == nil && !m.session.ActiveTab().Contains(id) {
		logs.Logger.Debug("new task hidden by tab query", "id", id, "tab", m.session.ActiveTab().Name)
		return m.setStatus(messages.StatusInfo, "Added; hidden by this tab's query")
	}
	return m.report(err)
}

func (m *AppModel) pickerDone(res tasks.TagPickerResult) tea.Cmd {
	if res.Cancelled {
		return nil
	}
	return m.report(m.session.SetTaskTags(m.pending.task, res.Selected))
}

func (m *AppModel) confirmDone(res tasks.ConfirmResult) tea.Cmd {
	switch m.pending.confirm {
	case confirmRetrySave:
		if res.Confirmed {
			return m.quit()
		}
		logs.Logger.Warn("quitting with unsaved changes")
		m.exitErr = ErrUnsaved
		m.quitting = true
		return tea.Quit

	case confirmDeleteTask:
		if res.Confirmed {
			return m.report(m.session.RemoveTask(m.pending.task))
		}

	case confirmDeleteTab:
		if res.Confirmed {
			return m.report(m.session.RemoveTab(m.pending.tab))
		}
	}
	return nil
}
