package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleDocument() Document {
	sel := uint64(2)
	return Document{
		Version: DocumentVersion,
		Tags:    []string{"errand", "home", "work"},
		Tasks: []TaskRecord{
			{ID: 1, Summary: "buy milk", Tags: []string{"errand", "home"}},
			{ID: 2, Summary: "file taxes", Tags: []string{"work"}, Complete: true, Notes: "# Taxes\nbring receipts"},
		},
		Tabs: []TabRecord{
			{Name: "all", Query: QueryRecord{Version: 1, Filter: "all", Order: "list"}},
			{Name: "work", Query: QueryRecord{Version: 1, Filter: "tag:work", Order: "alpha"}, Selected: &sel},
		},
	}
}

func checkSample(t *testing.T, got Document) {
	t.Helper()
	if got.Version != DocumentVersion {
		t.Errorf("expected version %d, got %d", DocumentVersion, got.Version)
	}
	if len(got.Tags) != 3 {
		t.Errorf("expected 3 tags, got %v", got.Tags)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got.Tasks))
	}
	if got.Tasks[0].Summary != "buy milk" || len(got.Tasks[0].Tags) != 2 {
		t.Errorf("unexpected first task %+v", got.Tasks[0])
	}
	if !got.Tasks[1].Complete || got.Tasks[1].Notes == "" {
		t.Errorf("unexpected second task %+v", got.Tasks[1])
	}
	if len(got.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(got.Tabs))
	}
	if got.Tabs[1].Selected == nil || *got.Tabs[1].Selected != 2 {
		t.Errorf("expected selected id 2 on second tab, got %v", got.Tabs[1].Selected)
	}
	if got.Tabs[1].Query.Filter != "tag:work" || got.Tabs[1].Query.Order != "alpha" {
		t.Errorf("unexpected query %+v", got.Tabs[1].Query)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, name := range []string{"tasks.json", "tasks.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			store, err := Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close()

			if err := store.Save(sampleDocument()); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			checkSample(t, got)

			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Errorf("expected only the target file, found %d entries", len(entries))
			}
		})
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on a fresh database, got %v", err)
	}

	if err := store.Save(sampleDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checkSample(t, got)

	smaller := sampleDocument()
	smaller.Tasks = smaller.Tasks[:1]
	if err := store.Save(smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _ = store.Load()
	if len(got.Tasks) != 1 {
		t.Errorf("expected save to replace state, got %d tasks", len(got.Tasks))
	}
}

func TestSQLiteUndeclaredTagIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	doc := sampleDocument()
	doc.Tags = []string{"home"}
	if err := store.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestMissingFileIsNotFound(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), FormatJSON)
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCorruptFiles(t *testing.T) {
	cases := map[string]string{
		"garbage.json":      "{not json",
		"empty.json":        "",
		"wrongtype.json":    `{"version": 1, "tasks": {"id": 1}}`,
		"noid.json":         `{"version": 1, "tasks": [{"summary": "x"}]}`,
		"emptysummary.json": `{"version": 1, "tasks": [{"id": 1, "summary": ""}]}`,
		"dupid.json":        `{"version": 1, "tasks": [{"id": 1, "summary": "a"}, {"id": 1, "summary": "b"}]}`,
		"future.json":       `{"version": 7}`,
		"bad.yaml":          "tasks: [unclosed",
	}
	dir := t.TempDir()
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		store, _ := Open(path)
		_, err := store.Load()
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: expected ErrCorrupt, got %v", name, err)
		}

		after, _ := os.ReadFile(path)
		if string(after) != content {
			t.Errorf("%s: corrupt file was modified", name)
		}
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `{
  "version": 1,
  "theme": "dark",
  "tasks": [{"id": 3, "summary": "walk dog", "priority": "high"}],
  "tabs": [{"name": "all", "query": {"filter": "all"}, "color": "red"}]
}`
	os.WriteFile(path, []byte(content), 0644)

	doc, err := NewFileStore(path, FormatJSON).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].ID != 3 {
		t.Errorf("unexpected tasks %+v", doc.Tasks)
	}
	if doc.Tabs[0].Query.Version != 0 || doc.Tabs[0].Selected != nil {
		t.Errorf("absent optional fields should default, got %+v", doc.Tabs[0])
	}
}

func TestSchemaErrorNamesLocation(t *testing.T) {
	_, err := Decode("x.json", []byte(`{"tasks": [{"id": "one", "summary": "a"}]}`), FormatJSON)
	var ce *CorruptError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CorruptError, got %v", err)
	}
	if !strings.Contains(ce.Reason, "/tasks/0/id") {
		t.Errorf("expected reason to name the field, got %q", ce.Reason)
	}
}

func TestSaveFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	os.WriteFile(blocker, []byte("x"), 0644)

	store := NewFileStore(filepath.Join(blocker, "tasks.json"), FormatJSON)
	err := store.Save(sampleDocument())
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("expected *IOError, got %T", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	doc := sampleDocument()
	store.Save(doc)
	doc.Tasks[0].Summary = "mutated"

	got, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tasks[0].Summary != "buy milk" {
		t.Error("memory store must keep its own copy")
	}

	store.SaveErr = errors.New("disk full")
	if err := store.Save(doc); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestEncodeYAML(t *testing.T) {
	out, err := Encode(sampleDocument(), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := Decode("export.yaml", out, FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	checkSample(t, doc)
}
