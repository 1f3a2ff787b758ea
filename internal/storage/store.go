package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store is the persistence gateway. Load reports ErrNotFound when nothing
// has been saved yet and a *CorruptError when saved state is unusable.
// Save failures are *IOError values.
type Store interface {
	Load() (Document, error)
	Save(doc Document) error
	Path() string
	Close() error
}

// MemoryPath selects an in-memory store in Open.
const MemoryPath = ":memory:"

// Open picks a store implementation from the path's extension.
func Open(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("storage path is empty")
	}
	if path == MemoryPath {
		return NewMemoryStore(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	case ".yaml", ".yml":
		return NewFileStore(path, FormatYAML), nil
	default:
		return NewFileStore(path, FormatJSON), nil
	}
}

// FileStore keeps the document in a single JSON or YAML file.
type FileStore struct {
	path   string
	format Format
}

func NewFileStore(path string, format Format) *FileStore {
	return &FileStore{path: path, format: format}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Load() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return Document{}, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return Decode(s.path, raw, s.format)
}

// Save writes to a temporary file in the same directory and renames it
// over the target, so a failed save leaves the previous file intact.
func (s *FileStore) Save(doc Document) error {
	raw, err := Encode(doc, s.format)
	if err != nil {
		return &IOError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: op, Path: s.path, Err: err}
	}

	if _, err := tmp.Write(raw); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "close", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}

// MemoryStore keeps the document in memory. SaveErr, when set, is returned
// from every Save.
type MemoryStore struct {
	doc     *Document
	SaveErr error
	Saves   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store preloaded with doc.
func NewMemoryStoreWith(doc Document) *MemoryStore {
	c := cloneDocument(doc)
	return &MemoryStore{doc: &c}
}

func (s *MemoryStore) Path() string { return MemoryPath }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Load() (Document, error) {
	if s.doc == nil {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, MemoryPath)
	}
	if err := checkDocument(MemoryPath, *s.doc); err != nil {
		return Document{}, err
	}
	return cloneDocument(*s.doc), nil
}

func (s *MemoryStore) Save(doc Document) error {
	if s.SaveErr != nil {
		return &IOError{Op: "save", Path: MemoryPath, Err: s.SaveErr}
	}
	c := cloneDocument(doc)
	if c.Version == 0 {
		c.Version = DocumentVersion
	}
	s.doc = &c
	s.Saves++
	return nil
}
