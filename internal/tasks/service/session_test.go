package service

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"tagdo/internal/storage"
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/query"
)

func TestLoadMissingStartsEmpty(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "tasks.json"), storage.FormatJSON)
	s, warnings, err := Load(store, Options{DefaultTab: "inbox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if s.List().Len() != 0 {
		t.Errorf("expected empty list, got %d", s.List().Len())
	}
	if len(s.Tabs()) != 1 || s.Tabs()[0].Name != "inbox" {
		t.Errorf("expected one default tab named inbox, got %+v", s.Tabs())
	}
	if _, ok := s.ActiveTab().Selected(); ok {
		t.Error("expected empty cursor")
	}
}

func TestLoadCorruptIsFatal(t *testing.T) {
	store := storage.NewMemoryStoreWith(storage.Document{
		Version: 1,
		Tasks:   []storage.TaskRecord{{ID: 1, Summary: "ok"}, {ID: 1, Summary: "dup"}},
	})
	_, _, err := Load(store, Options{})
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestLoadBadTagIsCorrupt(t *testing.T) {
	store := storage.NewMemoryStoreWith(storage.Document{
		Version: 1,
		Tasks:   []storage.TaskRecord{{ID: 1, Summary: "ok", Tags: []string{"two words"}}},
	})
	_, _, err := Load(store, Options{})
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestInvalidQueryFallsBackPerTab(t *testing.T) {
	store := storage.NewMemoryStoreWith(storage.Document{
		Version: 1,
		Tags:    []string{"work"},
		Tasks: []storage.TaskRecord{
			{ID: 1, Summary: "a", Tags: []string{"work"}},
			{ID: 2, Summary: "b"},
		},
		Tabs: []storage.TabRecord{
			{Name: "work", Query: storage.QueryRecord{Version: 1, Filter: "tag:work"}},
			{Name: "broken", Query: storage.QueryRecord{Version: 1, Filter: "tag:garden"}},
			{Name: "syntax", Query: storage.QueryRecord{Version: 1, Filter: "tag:work &"}},
		},
	})
	s, warnings, err := Load(store, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	for _, w := range warnings {
		if !errors.Is(w.Err, query.ErrInvalidQuery) {
			t.Errorf("expected ErrInvalidQuery, got %v", w.Err)
		}
	}
	if n := s.Tabs()[0].Len(); n != 1 {
		t.Errorf("valid tab should keep its query, got %d tasks", n)
	}
	if n := s.Tabs()[1].Len(); n != 2 {
		t.Errorf("broken tab should show all tasks, got %d", n)
	}
}

func TestUnusableQueryIsKeptOnSave(t *testing.T) {
	store := storage.NewMemoryStoreWith(storage.Document{
		Version: 1,
		Tags:    []string{"work"},
		Tasks:   []storage.TaskRecord{{ID: 1, Summary: "a", Tags: []string{"work"}}},
		Tabs: []storage.TabRecord{
			{Name: "work", Query: storage.QueryRecord{Version: 1, Filter: "tag:work"}},
			{Name: "garden", Query: storage.QueryRecord{Version: 1, Filter: "tag:garden", Order: "alpha"}},
		},
	})
	s, _, err := Load(store, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Dirty() {
		t.Error("falling back to all must not dirty the session")
	}

	s.AddTask("b", nil)
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := saved.Tabs[1].Query
	if got.Filter != "tag:garden" || got.Order != "alpha" {
		t.Errorf("stored query was overwritten: %+v", got)
	}

	back, warnings, err := Load(store, Options{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected the garden tab to warn again, got %v", warnings)
	}

	if err := back.SetTabQuery(1, query.All()); err != nil {
		t.Fatalf("set query: %v", err)
	}
	if got := back.Document().Tabs[1].Query.Filter; got != "all" {
		t.Errorf("expected the new query to replace the stored one, got %q", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"tasks.json", "tasks.yml", "tasks.db"} {
		t.Run(name, func(t *testing.T) {
			store, err := storage.Open(filepath.Join(t.TempDir(), name))
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close()

			s := New(store, Options{})
			milk, _ := s.AddTask("buy milk", []string{"errand"})
			s.AddTask("file taxes", nil)
			q, _ := query.Compile("tag:errand", "alpha")
			s.AddTab("errands", q)
			s.ActiveTab().Select(milk)

			if err := s.Save(); err != nil {
				t.Fatalf("save: %v", err)
			}
			if s.Dirty() {
				t.Error("expected clean session after save")
			}

			back, warnings, err := Load(store, Options{})
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings %v", warnings)
			}
			if back.List().Len() != 2 {
				t.Errorf("expected 2 tasks, got %d", back.List().Len())
			}
			if len(back.Tabs()) != 2 {
				t.Fatalf("expected 2 tabs, got %d", len(back.Tabs()))
			}
			errands := back.Tabs()[1]
			if errands.Name != "errands" || errands.Query().String() != q.String() {
				t.Errorf("unexpected tab %q %q", errands.Name, errands.Query())
			}
			if id, ok := errands.Selected(); !ok || id != milk {
				t.Errorf("expected selection %d, got %d", milk, id)
			}
			next, _ := back.List().Add("walk dog", nil)
			if next <= milk {
				t.Errorf("ids must not be reused after reload, got %d", next)
			}
		})
	}
}

func TestAddTaskSelectsWhenVisible(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	q, _ := query.Compile("incomplete", "")
	s.SetTabQuery(0, q)

	id, err := s.AddTask("walk dog", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel, _ := s.ActiveTab().Selected(); sel != id {
		t.Errorf("expected new task %d selected, got %d", id, sel)
	}

	s.ToggleComplete(id)
	if _, ok := s.ActiveTab().Selected(); ok {
		t.Error("completed task should leave the incomplete tab")
	}
}

func TestAddTaskInheritsImpliedTags(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	s.List().Tags().Intern("work")
	q, _ := query.Compile("tag:work & incomplete", "")
	s.AddTab("work", q)

	id, _ := s.AddTask("write report", nil)
	if !s.ActiveTab().Contains(id) {
		t.Error("task created in a tab should match the tab")
	}
	if sel, _ := s.ActiveTab().Selected(); sel != id {
		t.Errorf("expected %d selected, got %d", id, sel)
	}
}

func TestRemoveAbsentTaskIsIgnored(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	s.AddTask("a", nil)
	s.Save()

	if err := s.RemoveTask(999); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s.Dirty() {
		t.Error("absent remove must not dirty the session")
	}
}

func TestRenameTagUpdatesQueries(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	s.AddTask("a", []string{"work"})
	q, _ := query.Compile("tag:work", "")
	s.AddTab("work", q)

	if err := s.RenameTag("work", "job"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.ActiveTab().Query().String(); got != "tag:job" {
		t.Errorf("expected tab query to follow rename, got %q", got)
	}
	if s.ActiveTab().Len() != 1 {
		t.Errorf("expected 1 task in renamed tab, got %d", s.ActiveTab().Len())
	}
}

func TestTabManagement(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	if err := s.RemoveTab(0); !errors.Is(err, ErrLastTab) {
		t.Errorf("expected ErrLastTab, got %v", err)
	}

	s.AddTab("two", query.All())
	s.AddTab("three", query.All())
	if s.ActiveIndex() != 2 {
		t.Fatalf("expected new tab active, got %d", s.ActiveIndex())
	}

	idx, _ := s.MoveTab(2, -5)
	if idx != 0 || s.ActiveIndex() != 0 || s.Tabs()[0].Name != "three" {
		t.Errorf("unexpected order after move: active %d first %q", s.ActiveIndex(), s.Tabs()[0].Name)
	}

	if err := s.RenameTab(1, " "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	s.RenameTab(1, "first")
	if s.Tabs()[1].Name != "first" {
		t.Errorf("rename failed: %q", s.Tabs()[1].Name)
	}

	s.SetActive(2)
	s.RemoveTab(2)
	if s.ActiveIndex() != 1 {
		t.Errorf("expected active to clamp to 1, got %d", s.ActiveIndex())
	}

	q, _ := query.Compile("tag:nothing", "")
	if err := s.SetTabQuery(0, q); !errors.Is(err, query.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestEditTaskIsAtomic(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	id, _ := s.AddTask("original", []string{"home"})

	err := s.EditTask(id, "", []string{"work"}, "notes")
	if !errors.Is(err, data.ErrEmptySummary) {
		t.Fatalf("expected ErrEmptySummary, got %v", err)
	}
	task, _ := s.List().Get(id)
	if task.Summary != "original" || task.Notes != "" {
		t.Errorf("failed edit leaked: %+v", task)
	}
	if names := s.List().Tags().Names(); !slices.Equal(names, []string{"home"}) {
		t.Errorf("failed edit left tags behind: %v", names)
	}

	err = s.EditTask(id, "renamed", []string{"ghost", "bad tag!"}, "")
	if !errors.Is(err, data.ErrInvalidTag) {
		t.Fatalf("expected ErrInvalidTag, got %v", err)
	}
	if doc := s.Document(); !slices.Equal(doc.Tags, []string{"home"}) {
		t.Errorf("failed edit reached the document tags: %v", doc.Tags)
	}

	if err := s.EditTask(id, "renamed", []string{"work"}, "n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	task, _ = s.List().Get(id)
	if names := s.List().TagNames(task); len(names) != 1 || names[0] != "work" {
		t.Errorf("unexpected tags %v", names)
	}
}

func TestAutosave(t *testing.T) {
	store := storage.NewMemoryStore()
	s := New(store, Options{Autosave: true})
	s.AddTask("a", nil)
	if store.Saves != 1 {
		t.Errorf("expected one save, got %d", store.Saves)
	}

	store.SaveErr = errors.New("disk full")
	_, err := s.AddTask("b", nil)
	if !errors.Is(err, storage.ErrIO) {
		t.Errorf("expected autosave failure, got %v", err)
	}
	if !s.Dirty() {
		t.Error("expected session to stay dirty after a failed save")
	}
}

func TestScenarioDeleteOnlyTask(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	id, _ := s.AddTask("buy milk", nil)
	s.RemoveTask(id)

	if s.List().Len() != 0 {
		t.Errorf("expected empty list")
	}
	if _, ok := s.ActiveTab().Selected(); ok {
		t.Error("expected empty cursor after deleting the only task")
	}
}

func TestScenarioCompleteLeavesFilteredTab(t *testing.T) {
	s := New(storage.NewMemoryStore(), Options{})
	milk, _ := s.AddTask("buy milk", []string{"home"})
	s.AddTask("file taxes", []string{"admin"})

	q, err := query.FromString("tag=home")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	idx, err := s.AddTab("home", q)
	if err != nil {
		t.Fatalf("add tab: %v", err)
	}
	home := s.Tabs()[idx]
	if ids := home.IDs(); len(ids) != 1 || ids[0] != milk {
		t.Fatalf("expected only %d in the home tab, got %v", milk, ids)
	}

	if err := s.ToggleComplete(milk); err != nil {
		t.Fatalf("complete: %v", err)
	}
	q, err = query.FromString("incomplete & tag=home")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.SetTabQuery(idx, q); err != nil {
		t.Fatalf("set query: %v", err)
	}
	if home.Len() != 0 {
		t.Errorf("expected an empty view, got %v", home.IDs())
	}
	if _, ok := home.Selected(); ok {
		t.Error("expected empty cursor")
	}
}
