package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the document in a SQLite database. Save replaces the
// whole state in one transaction.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, &IOError{Op: "mkdir", Path: dbPath, Err: err}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{path: dbPath, db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "not a database") {
			return nil, &CorruptError{Path: dbPath, Reason: err.Error()}
		}
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}
	return s, nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	position INTEGER NOT NULL,
	summary TEXT NOT NULL,
	complete INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS task_tags (
	task_id INTEGER NOT NULL,
	tag TEXT NOT NULL,
	PRIMARY KEY (task_id, tag)
);
CREATE TABLE IF NOT EXISTS tabs (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	query_version INTEGER NOT NULL DEFAULT 1,
	filter TEXT NOT NULL DEFAULT '',
	sort TEXT NOT NULL DEFAULT '',
	selected INTEGER DEFAULT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLiteStore) Load() (Document, error) {
	var version string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'version';`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return Document{}, &IOError{Op: "read", Path: s.path, Err: err}
	}
	v, err := strconv.Atoi(version)
	if err != nil {
		return Document{}, &CorruptError{Path: s.path, Reason: fmt.Sprintf("bad version %q", version)}
	}
	doc := Document{Version: v}

	if doc.Tags, err = s.loadTags(); err != nil {
		return Document{}, &IOError{Op: "read tags", Path: s.path, Err: err}
	}
	if doc.Tasks, err = s.loadTasks(); err != nil {
		return Document{}, &IOError{Op: "read tasks", Path: s.path, Err: err}
	}
	if doc.Tabs, err = s.loadTabs(); err != nil {
		return Document{}, &IOError{Op: "read tabs", Path: s.path, Err: err}
	}

	declared := make(map[string]bool, len(doc.Tags))
	for _, name := range doc.Tags {
		declared[name] = true
	}
	for _, t := range doc.Tasks {
		for _, tag := range t.Tags {
			if !declared[tag] {
				return Document{}, &CorruptError{Path: s.path, Reason: fmt.Sprintf("task %d references undeclared tag %q", t.ID, tag)}
			}
		}
	}
	if err := checkDocument(s.path, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *SQLiteStore) loadTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM tags ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) loadTasks() ([]TaskRecord, error) {
	taskTags := make(map[uint64][]string)
	rows, err := s.db.Query(`SELECT task_id, tag FROM task_tags ORDER BY task_id, tag;`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uint64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			rows.Close()
			return nil, err
		}
		taskTags[id] = append(taskTags[id], tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`SELECT id, summary, complete, notes FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []TaskRecord
	for rows.Next() {
		var t TaskRecord
		var complete int
		if err := rows.Scan(&t.ID, &t.Summary, &complete, &t.Notes); err != nil {
			return nil, err
		}
		t.Complete = complete == 1
		t.Tags = taskTags[t.ID]
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) loadTabs() ([]TabRecord, error) {
	rows, err := s.db.Query(`SELECT name, query_version, filter, sort, selected FROM tabs ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tabs []TabRecord
	for rows.Next() {
		var tab TabRecord
		var selected sql.NullInt64
		if err := rows.Scan(&tab.Name, &tab.Query.Version, &tab.Query.Filter, &tab.Query.Order, &selected); err != nil {
			return nil, err
		}
		if selected.Valid && selected.Int64 > 0 {
			id := uint64(selected.Int64)
			tab.Selected = &id
		}
		tabs = append(tabs, tab)
	}
	return tabs, rows.Err()
}

func (s *SQLiteStore) Save(doc Document) error {
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	tx, err := s.db.Begin()
	if err != nil {
		return &IOError{Op: "begin", Path: s.path, Err: err}
	}
	if err := writeDocument(tx, doc); err != nil {
		tx.Rollback()
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &IOError{Op: "commit", Path: s.path, Err: err}
	}
	return nil
}

func writeDocument(tx *sql.Tx, doc Document) error {
	for _, table := range []string{"task_tags", "tasks", "tags", "tabs"} {
		if _, err := tx.Exec(`DELETE FROM ` + table + `;`); err != nil {
			return err
		}
	}

	for i, name := range doc.Tags {
		if _, err := tx.Exec(`INSERT INTO tags (position, name) VALUES (?, ?);`, i, name); err != nil {
			return err
		}
	}
	for i, t := range doc.Tasks {
		complete := 0
		if t.Complete {
			complete = 1
		}
		if _, err := tx.Exec(`INSERT INTO tasks (id, position, summary, complete, notes) VALUES (?, ?, ?, ?, ?);`,
			t.ID, i, t.Summary, complete, t.Notes); err != nil {
			return err
		}
		for _, tag := range t.Tags {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?);`, t.ID, tag); err != nil {
				return err
			}
		}
	}
	for i, tab := range doc.Tabs {
		var selected sql.NullInt64
		if tab.Selected != nil {
			selected = sql.NullInt64{Int64: int64(*tab.Selected), Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO tabs (position, name, query_version, filter, sort, selected) VALUES (?, ?, ?, ?, ?, ?);`,
			i, tab.Name, tab.Query.Version, tab.Query.Filter, tab.Query.Order, selected); err != nil {
			return err
		}
	}

	_, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('version', ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, strconv.Itoa(doc.Version))
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
