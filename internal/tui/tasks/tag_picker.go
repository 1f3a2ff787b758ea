package tasks

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"tagdo/internal/tasks/data"
)

// TagPickerModel is a fuzzy-searchable multi-select list of tag names.
type TagPickerModel struct {
	Title string

	all        []string
	selected   map[string]bool
	textInput  textinput.Model
	query      string
	filtered   []string
	cursorPos  int
	showCreate bool // Show "create new" option
	filterMode bool // true when typing a filter
	createMode bool // true when typing a new tag name
}

// TagPickerResult is returned when the picker closes.
type TagPickerResult struct {
	Selected  []string
	Cancelled bool
}

// NewTagPicker lists all known tags with the current ones pre-selected.
func NewTagPicker(title string, all, current []string) TagPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Press / to filter..."
	ti.CharLimit = 50
	ti.Width = 40

	// Always start in navigation mode
	ti.Blur()

	items := slices.Clone(all)
	selected := make(map[string]bool, len(current))
	for _, name := range current {
		selected[name] = true
		if !slices.Contains(items, name) {
			items = append(items, name)
		}
	}
	slices.Sort(items)

	return TagPickerModel{
		Title:     title,
		all:       items,
		selected:  selected,
		textInput: ti,
		filtered:  items,
	}
}

// Update handles picker keys. A non-nil result means the picker is done.
func (m TagPickerModel) Update(msg tea.Msg) (TagPickerModel, tea.Cmd, *TagPickerResult) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd, nil
	}

	switch {
	case m.filterMode:
		return m.updateFilter(keyMsg)
	case m.createMode:
		return m.updateCreate(keyMsg)
	}

	switch keyMsg.String() {
	case "n":
		m.textInput.SetValue("")
		m.textInput.Placeholder = "Enter new tag name..."
		m.createMode = true
		cmd := m.textInput.Focus()
		return m, cmd, nil

	case "/":
		m.filterMode = true
		cmd := m.textInput.Focus()
		return m, cmd, nil

	case "enter":
		return m, nil, &TagPickerResult{Selected: m.Selected()}

	case "esc":
		// If filter is active, clear it; otherwise exit picker (cancel)
		if m.query != "" {
			m.textInput.SetValue("")
			m.query = ""
			m.filterItems()
			m.cursorPos = 0
			return m, nil, nil
		}
		return m, nil, &TagPickerResult{Cancelled: true}

	case "tab", " ":
		m.toggleItem()

	case "j", "down":
		maxPos := len(m.filtered) - 1
		if m.showCreate {
			maxPos++
		}
		if m.cursorPos < maxPos {
			m.cursorPos++
		}

	case "k", "up":
		if m.cursorPos > 0 {
			m.cursorPos--
		}
	}
	return m, nil, nil
}

func (m TagPickerModel) updateFilter(msg tea.KeyMsg) (TagPickerModel, tea.Cmd, *TagPickerResult) {
	switch msg.String() {
	case "esc":
		m.textInput.SetValue("")
		m.query = ""
		m.filterItems()
		m.textInput.Blur()
		m.filterMode = false
		m.cursorPos = 0
		return m, nil, nil

	case "enter":
		m.textInput.Blur()
		m.filterMode = false
		return m, nil, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.query = m.textInput.Value()
	m.filterItems()
	m.cursorPos = 0
	return m, cmd, nil
}

func (m TagPickerModel) updateCreate(msg tea.KeyMsg) (TagPickerModel, tea.Cmd, *TagPickerResult) {
	switch msg.String() {
	case "esc":
		m.resetCreate()
		return m, nil, nil

	case "enter":
		if name, err := data.NormalizeTag(m.textInput.Value()); err == nil {
			m.selected[name] = true
			if !slices.Contains(m.all, name) {
				m.all = append(m.all, name)
				slices.Sort(m.all)
			}
		}
		m.resetCreate()
		m.filterItems()
		return m, nil, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd, nil
}

func (m *TagPickerModel) resetCreate() {
	m.textInput.SetValue("")
	m.textInput.Placeholder = "Press / to filter..."
	m.textInput.Blur()
	m.createMode = false
}

// toggleItem toggles the item at the current cursor position
func (m *TagPickerModel) toggleItem() {
	var name string
	switch {
	case m.showCreate && m.cursorPos == len(m.filtered):
		n, err := data.NormalizeTag(m.query)
		if err != nil {
			return
		}
		name = n
	case m.cursorPos >= 0 && m.cursorPos < len(m.filtered):
		name = m.filtered[m.cursorPos]
	default:
		return
	}
	if m.selected[name] {
		delete(m.selected, name)
	} else {
		m.selected[name] = true
	}
}

// filterItems applies fuzzy matching to filter items
func (m *TagPickerModel) filterItems() {
	if m.query == "" {
		m.filtered = m.all
		m.showCreate = false
		return
	}

	matches := fuzzy.Find(m.query, m.all)
	filtered := make([]string, len(matches))
	for i, match := range matches {
		filtered[i] = match.Str
	}
	m.filtered = filtered

	norm, err := data.NormalizeTag(m.query)
	m.showCreate = err == nil && !slices.Contains(m.all, norm)
}

// Selected returns the chosen tag names in sorted order.
func (m TagPickerModel) Selected() []string {
	items := make([]string, 0, len(m.selected))
	for item := range m.selected {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

func (m TagPickerModel) View() string {
	var s strings.Builder

	s.WriteString(modalTitleStyle.Render(m.Title))
	s.WriteString("\n\n")

	if m.createMode {
		s.WriteString(modalTitleStyle.Render("Create new: "))
	} else if m.filterMode {
		s.WriteString(modalTitleStyle.Render("Filtering: "))
	}
	s.WriteString(m.textInput.View())
	s.WriteString("\n\n")

	switch {
	case len(m.all) == 0:
		s.WriteString(pickerItemStyle.Render("No tags yet. Press 'n' to create one."))
		s.WriteString("\n")
	case len(m.filtered) == 0 && !m.showCreate:
		s.WriteString(pickerItemStyle.Render("No matching tags"))
		s.WriteString("\n")
	default:
		for i, item := range m.filtered {
			s.WriteString(m.renderItem(i, item))
		}
		if m.showCreate {
			s.WriteString(m.renderCreateNew(len(m.filtered)))
		}
	}

	s.WriteString("\n")

	var help string
	switch {
	case m.createMode:
		help = "enter: create • esc: cancel"
	case m.filterMode:
		help = "enter: apply filter • esc: cancel"
	case m.query != "":
		help = "jk: navigate • space: toggle • n: new • /: filter • esc: clear • enter: save"
	default:
		help = "jk: navigate • space: toggle • n: new • /: filter • enter: save • esc: cancel"
	}
	s.WriteString(modalHelpStyle.Render(help))

	return modalBoxStyle.Render(s.String())
}

func (m TagPickerModel) renderItem(index int, item string) string {
	checkbox := "[ ]"
	if m.selected[item] {
		checkbox = "[x]"
	}
	text := checkbox + " #" + item

	style := pickerItemStyle
	if index == m.cursorPos {
		style = pickerCursorStyle
	} else if m.selected[item] {
		style = pickerSelectedStyle
	}
	return style.Render(text) + "\n"
}

func (m TagPickerModel) renderCreateNew(index int) string {
	text := "[ ] + Create new: \"" + m.query + "\""
	style := pickerCreateNewStyle
	if index == m.cursorPos {
		style = pickerCursorStyle
	}
	return style.Render(text) + "\n"
}
