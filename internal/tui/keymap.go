package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"tagdo/internal/config"
)

// ListKeys is the binding table of the task list pane.
type ListKeys struct {
	Up         key.Binding
	Down       key.Binding
	First      key.Binding
	Last       key.Binding
	Add        key.Binding
	Edit       key.Binding
	Tags       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Search     key.Binding
	SearchNext key.Binding
	RenameTag  key.Binding
	FocusTabs  key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// TabKeys is the binding table of the tab bar pane.
type TabKeys struct {
	Prev      key.Binding
	Next      key.Binding
	New       key.Binding
	Rename    key.Binding
	Query     key.Binding
	Delete    key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	FocusList key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

type KeyMap struct {
	List    ListKeys
	Tabs    TabKeys
	Confirm key.Binding
	Cancel  key.Binding
}

// bind builds a binding from a comma separated config value. The help
// text shows the first key.
func bind(value, desc string) key.Binding {
	keys := config.ParseCommaSeparated(value)
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = k
		keys[i] = config.NormalizeKey(k)
	}
	helpKey := ""
	if len(display) > 0 {
		helpKey = display[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

func NewKeyMap(k config.Keys) KeyMap {
	quit := bind(k.Quit, "save & quit")
	save := bind(k.Save, "save")
	help := bind(k.Help, "help")
	return KeyMap{
		List: ListKeys{
			Up:         bind(k.Up, "up"),
			Down:       bind(k.Down, "down"),
			First:      bind(k.First, "first"),
			Last:       bind(k.Last, "last"),
			Add:        bind(k.Add, "add task"),
			Edit:       bind(k.Edit, "edit"),
			Tags:       bind(k.Tags, "tags"),
			Toggle:     bind(k.Toggle, "toggle done"),
			Delete:     bind(k.Delete, "delete"),
			MoveUp:     bind(k.MoveUp, "move up"),
			MoveDown:   bind(k.MoveDown, "move down"),
			Search:     bind(k.Search, "search"),
			SearchNext: bind(k.SearchNext, "next match"),
			RenameTag:  bind(k.RenameTag, "rename tag"),
			FocusTabs:  bind(k.FocusTabs, "tabs"),
			Save:       save,
			Help:       help,
			Quit:       quit,
		},
		Tabs: TabKeys{
			Prev:      bind(k.TabPrev, "prev tab"),
			Next:      bind(k.TabNext, "next tab"),
			New:       bind(k.TabNew, "new tab"),
			Rename:    bind(k.TabRename, "rename tab"),
			Query:     bind(k.TabQuery, "edit query"),
			Delete:    bind(k.TabDelete, "delete tab"),
			MoveLeft:  bind(k.TabMoveLeft, "move left"),
			MoveRight: bind(k.TabMoveRight, "move right"),
			FocusList: bind(k.FocusList, "list"),
			Save:      save,
			Help:      help,
			Quit:      quit,
		},
		Confirm: bind(k.Confirm, "yes"),
		Cancel:  bind(k.Cancel, "no"),
	}
}

func (k ListKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Search, k.FocusTabs, k.Help, k.Quit}
}

func (k ListKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.First, k.Last, k.MoveUp, k.MoveDown},
		{k.Add, k.Edit, k.Tags, k.Toggle, k.Delete, k.RenameTag},
		{k.Search, k.SearchNext, k.FocusTabs, k.Save, k.Help, k.Quit},
	}
}

func (k TabKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.New, k.Query, k.Delete, k.FocusList, k.Help, k.Quit}
}

func (k TabKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.MoveLeft, k.MoveRight},
		{k.New, k.Rename, k.Query, k.Delete},
		{k.FocusList, k.Save, k.Help, k.Quit},
	}
}
