package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"tagdo/internal/logs"
	"tagdo/internal/storage"
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/query"
	"tagdo/internal/tasks/tabs"
)

var (
	ErrLastTab     = errors.New("cannot remove the last tab")
	ErrNoSuchTab   = errors.New("no such tab")
	ErrEmptyName   = errors.New("name is empty")
	ErrNoSelection = errors.New("no task selected")
)

type Options struct {
	// DefaultTab names the tab created when no state has been saved.
	DefaultTab string
	// Autosave saves after every successful mutation.
	Autosave bool
}

func (o Options) defaultTab() string {
	if strings.TrimSpace(o.DefaultTab) == "" {
		return "all"
	}
	return o.DefaultTab
}

// Warning is a non-fatal problem found while loading, such as a tab whose
// query could not be used.
type Warning struct {
	Tab string
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("tab %q: %v", w.Tab, w.Err)
}

// Session owns the task list, the tabs and the store for one running
// instance. It is driven from a single goroutine.
type Session struct {
	store     storage.Store
	opts      Options
	list      *data.TaskList
	tabs      []*tabs.Tab
	active    int
	tabsDirty bool

	// unusable keeps the stored query of tabs that fell back to "all" so
	// saving does not overwrite what the user wrote.
	unusable map[*tabs.Tab]storage.QueryRecord
}

// New returns an empty session with a single default tab.
func New(store storage.Store, opts Options) *Session {
	s := &Session{store: store, opts: opts, list: data.NewTaskList()}
	s.tabs = []*tabs.Tab{tabs.New(opts.defaultTab(), s.list, query.All())}
	return s
}

// Load reads the store. Missing state yields an empty session. Corrupt
// state is returned as an error and must be treated as fatal. Tabs whose
// queries cannot be used fall back to matching everything and are
// reported as warnings.
func Load(store storage.Store, opts Options) (*Session, []Warning, error) {
	doc, err := store.Load()
	if errors.Is(err, storage.ErrNotFound) {
		logs.Logger.Info("no saved state, starting empty", "path", store.Path())
		return New(store, opts), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return FromDocument(store, doc, opts)
}

func FromDocument(store storage.Store, doc storage.Document, opts Options) (*Session, []Warning, error) {
	s := &Session{
		store:    store,
		opts:     opts,
		list:     data.NewTaskList(),
		unusable: make(map[*tabs.Tab]storage.QueryRecord),
	}
	corrupt := func(reason string) error {
		return &storage.CorruptError{Path: store.Path(), Reason: reason}
	}

	for _, name := range doc.Tags {
		if _, err := s.list.Tags().Intern(name); err != nil {
			return nil, nil, corrupt(err.Error())
		}
	}
	for _, rec := range doc.Tasks {
		err := s.list.Restore(data.Record{
			ID:       data.TaskID(rec.ID),
			Summary:  rec.Summary,
			Tags:     rec.Tags,
			Complete: rec.Complete,
			Notes:    rec.Notes,
		})
		if err != nil {
			return nil, nil, corrupt(err.Error())
		}
	}

	var warnings []Warning
	for i, rec := range doc.Tabs {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			name = fmt.Sprintf("tab %d", i+1)
		}
		q, err := query.FromDefinition(query.Definition{
			Version: rec.Query.Version,
			Filter:  rec.Query.Filter,
			Order:   rec.Query.Order,
		})
		if err == nil {
			err = q.Validate(s.list.Tags())
		}
		if err != nil {
			logs.Logger.Warn("tab query unusable, showing all tasks", "tab", name, "err", err)
			warnings = append(warnings, Warning{Tab: name, Err: err})
			q = query.All()
		}
		tab := tabs.New(name, s.list, q)
		if err != nil {
			s.unusable[tab] = rec.Query
		}
		if rec.Selected != nil {
			tab.Restore(data.TaskID(*rec.Selected))
		}
		s.tabs = append(s.tabs, tab)
	}
	if len(s.tabs) == 0 {
		s.tabs = []*tabs.Tab{tabs.New(opts.defaultTab(), s.list, query.All())}
	}
	s.list.MarkClean()
	logs.Logger.Info("loaded state", "path", store.Path(), "tasks", s.list.Len(), "tabs", len(s.tabs))
	return s, warnings, nil
}

func (s *Session) List() *data.TaskList { return s.list }

func (s *Session) Store() storage.Store { return s.store }

func (s *Session) Tabs() []*tabs.Tab { return s.tabs }

func (s *Session) ActiveIndex() int { return s.active }

func (s *Session) ActiveTab() *tabs.Tab { return s.tabs[s.active] }

// SetActive switches tabs, clamped to the available range.
func (s *Session) SetActive(i int) {
	s.active = min(max(i, 0), len(s.tabs)-1)
	s.ActiveTab().Refresh()
}

func (s *Session) Dirty() bool {
	return s.list.Dirty() || s.tabsDirty
}

// Document returns the persisted form of the current state.
func (s *Session) Document() storage.Document {
	doc := storage.Document{
		Version: storage.DocumentVersion,
		Tags:    s.list.Tags().Names(),
	}
	for _, r := range s.list.Records() {
		doc.Tasks = append(doc.Tasks, storage.TaskRecord{
			ID:       uint64(r.ID),
			Summary:  r.Summary,
			Tags:     r.Tags,
			Complete: r.Complete,
			Notes:    r.Notes,
		})
	}
	for _, tab := range s.tabs {
		def := tab.Query().Definition()
		rec := storage.TabRecord{
			Name:  tab.Name,
			Query: storage.QueryRecord{Version: def.Version, Filter: def.Filter, Order: def.Order},
		}
		if stored, ok := s.unusable[tab]; ok {
			rec.Query = stored
		}
		if id, ok := tab.Selected(); ok {
			sel := uint64(id)
			rec.Selected = &sel
		}
		doc.Tabs = append(doc.Tabs, rec)
	}
	return doc
}

// Save writes the current state. On failure the dirty flags are kept.
func (s *Session) Save() error {
	if err := s.store.Save(s.Document()); err != nil {
		logs.Logger.Error("save failed", "path", s.store.Path(), "err", err)
		return err
	}
	s.list.MarkClean()
	s.tabsDirty = false
	logs.Logger.Info("saved", "path", s.store.Path(), "tasks", s.list.Len())
	return nil
}

func (s *Session) mutated() error {
	s.ActiveTab().Refresh()
	if !s.opts.Autosave {
		return nil
	}
	return s.Save()
}

func (s *Session) notFound(op string, id data.TaskID) {
	logs.Logger.Warn("task not found", "op", op, "id", id)
}

// AddTask creates a task carrying extraTags plus the tags implied by the
// active tab's query, and selects it when the active tab shows it.
func (s *Session) AddTask(summary string, extraTags []string) (data.TaskID, error) {
	tab := s.ActiveTab()
	tags := append(tab.Query().ImpliedTags(), extraTags...)
	id, err := s.list.Add(summary, tags)
	if err != nil {
		return 0, err
	}
	tab.Select(id)
	logs.Logger.Debug("task added", "id", id, "tab", tab.Name)
	return id, s.mutated()
}

// RemoveTask deletes id. An absent id is logged and ignored.
func (s *Session) RemoveTask(id data.TaskID) error {
	if !s.list.Remove(id) {
		s.notFound("remove", id)
		return nil
	}
	logs.Logger.Debug("task removed", "id", id)
	return s.mutated()
}

func (s *Session) UpdateTask(id data.TaskID, mutate func(*data.Task) error) error {
	if err := s.list.Update(id, mutate); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			s.notFound("update", id)
		}
		return err
	}
	return s.mutated()
}

// EditTask replaces the editable fields of id in one step.
func (s *Session) EditTask(id data.TaskID, summary string, tagNames []string, notes string) error {
	if err := s.list.Edit(id, summary, tagNames, notes); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			s.notFound("edit", id)
		}
		return err
	}
	return s.mutated()
}

func (s *Session) SetTaskTags(id data.TaskID, names []string) error {
	if err := s.list.SetTaskTags(id, names); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			s.notFound("tags", id)
		}
		return err
	}
	return s.mutated()
}

// RetagTask adds and removes named tags on id.
func (s *Session) RetagTask(id data.TaskID, add, remove []string) error {
	if err := s.list.Retag(id, add, remove); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			s.notFound("retag", id)
		}
		return err
	}
	return s.mutated()
}

func (s *Session) ToggleComplete(id data.TaskID) error {
	return s.UpdateTask(id, func(t *data.Task) error {
		t.Complete = !t.Complete
		return nil
	})
}

func (s *Session) MoveTask(id data.TaskID, delta int) error {
	if err := s.list.Move(id, delta); err != nil {
		s.notFound("move", id)
		return err
	}
	return s.mutated()
}

// RenameTag renames a tag everywhere, including in tab queries.
func (s *Session) RenameTag(oldName, newName string) error {
	oldNorm, err := data.NormalizeTag(oldName)
	if err != nil {
		return err
	}
	newNorm, err := data.NormalizeTag(newName)
	if err != nil {
		return err
	}
	if err := s.list.RenameTag(oldNorm, newNorm); err != nil {
		return err
	}
	for _, tab := range s.tabs {
		tab.SetQuery(tab.Query().RenameTag(oldNorm, newNorm))
	}
	s.tabsDirty = true
	return s.mutated()
}

func (s *Session) tab(i int) (*tabs.Tab, error) {
	if i < 0 || i >= len(s.tabs) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchTab, i)
	}
	return s.tabs[i], nil
}

// AddTab appends a tab and makes it active.
func (s *Session) AddTab(name string, q query.Query) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	if err := q.Validate(s.list.Tags()); err != nil {
		return 0, err
	}
	s.tabs = append(s.tabs, tabs.New(name, s.list, q))
	s.tabsDirty = true
	s.SetActive(len(s.tabs) - 1)
	return s.active, s.mutated()
}

func (s *Session) RemoveTab(i int) error {
	tab, err := s.tab(i)
	if err != nil {
		return err
	}
	if len(s.tabs) == 1 {
		return ErrLastTab
	}
	delete(s.unusable, tab)
	s.tabs = slices.Delete(s.tabs, i, i+1)
	if s.active > i || s.active >= len(s.tabs) {
		s.active--
	}
	s.tabsDirty = true
	s.SetActive(s.active)
	return s.mutated()
}

func (s *Session) RenameTab(i int, name string) error {
	tab, err := s.tab(i)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	tab.Name = name
	s.tabsDirty = true
	return s.mutated()
}

// SetTabQuery replaces a tab's query. Queries naming unknown tags are
// rejected.
func (s *Session) SetTabQuery(i int, q query.Query) error {
	tab, err := s.tab(i)
	if err != nil {
		return err
	}
	if err := q.Validate(s.list.Tags()); err != nil {
		return err
	}
	tab.SetQuery(q)
	delete(s.unusable, tab)
	s.tabsDirty = true
	return s.mutated()
}

// MoveTab shifts tab i by delta, clamped. The active tab index follows the
// tab that was active.
func (s *Session) MoveTab(i, delta int) (int, error) {
	tab, err := s.tab(i)
	if err != nil {
		return i, err
	}
	target := min(max(i+delta, 0), len(s.tabs)-1)
	if target == i {
		return i, nil
	}
	activeTab := s.ActiveTab()
	s.tabs = slices.Delete(s.tabs, i, i+1)
	s.tabs = slices.Insert(s.tabs, target, tab)
	for j, t := range s.tabs {
		if t == activeTab {
			s.active = j
		}
	}
	s.tabsDirty = true
	return target, s.mutated()
}

// SelectedTask returns the task under the active tab's cursor.
func (s *Session) SelectedTask() (data.Task, error) {
	id, ok := s.ActiveTab().Selected()
	if !ok {
		return data.Task{}, ErrNoSelection
	}
	t, ok := s.list.Get(id)
	if !ok {
		return data.Task{}, fmt.Errorf("%w: task %d", data.ErrNotFound, id)
	}
	return t, nil
}
