package data

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// TagID is a stable index into a Tags arena. Tasks hold TagIDs, never names,
// so a rename is visible to every task carrying the tag.
type TagID int

// Tags is the process-wide tag arena. Names are unique; ids are never reused.
type Tags struct {
	names  []string
	byName map[string]TagID
}

func NewTags() *Tags {
	return &Tags{byName: make(map[string]TagID)}
}

// IsTagRune reports whether r may appear in a tag name.
func IsTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

// NormalizeTag lower-cases and trims name and checks its characters.
func NormalizeTag(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "#")
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidTag)
	}
	for _, r := range name {
		if !IsTagRune(r) {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidTag, name, r)
		}
	}
	return name, nil
}

// Intern returns the id for name, creating the tag when it does not exist.
func (t *Tags) Intern(name string) (TagID, error) {
	norm, err := NormalizeTag(name)
	if err != nil {
		return 0, err
	}
	if id, ok := t.byName[norm]; ok {
		return id, nil
	}
	id := TagID(len(t.names))
	t.names = append(t.names, norm)
	t.byName[norm] = id
	return id, nil
}

func (t *Tags) Lookup(name string) (TagID, bool) {
	norm, err := NormalizeTag(name)
	if err != nil {
		return 0, false
	}
	id, ok := t.byName[norm]
	return id, ok
}

// Name returns the current name of id, or "" for an id outside the arena.
func (t *Tags) Name(id TagID) string {
	if id < 0 || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

func (t *Tags) Valid(id TagID) bool {
	return id >= 0 && int(id) < len(t.names)
}

func (t *Tags) Len() int {
	return len(t.names)
}

// Names returns every tag name in alphabetical order.
func (t *Tags) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	sort.Strings(out)
	return out
}

// Rename changes the name of an existing tag in place.
func (t *Tags) Rename(oldName, newName string) error {
	id, ok := t.Lookup(oldName)
	if !ok {
		return fmt.Errorf("%w: tag %q", ErrNotFound, oldName)
	}
	norm, err := NormalizeTag(newName)
	if err != nil {
		return err
	}
	if other, exists := t.byName[norm]; exists {
		if other == id {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrTagExists, norm)
	}
	delete(t.byName, t.names[id])
	t.names[id] = norm
	t.byName[norm] = id
	return nil
}
