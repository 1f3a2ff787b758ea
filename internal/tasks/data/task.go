package data

import (
	"fmt"
	"slices"
	"strings"
)

type TaskID uint64

func (id TaskID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Task is a single unit of work. The id is assigned by the TaskList and
// cannot be changed by a mutation.
type Task struct {
	id       TaskID
	Summary  string
	Complete bool
	Notes    string
	tags     []TagID
}

func (t Task) ID() TaskID {
	return t.id
}

// TagIDs returns a copy of the task's tag set in ascending id order.
func (t Task) TagIDs() []TagID {
	return slices.Clone(t.tags)
}

func (t Task) HasTag(id TagID) bool {
	_, ok := slices.BinarySearch(t.tags, id)
	return ok
}

// SetTags replaces the tag set. Duplicates collapse.
func (t *Task) SetTags(ids []TagID) {
	set := slices.Clone(ids)
	slices.Sort(set)
	t.tags = slices.Compact(set)
}

func (t *Task) AddTag(id TagID) {
	if t.HasTag(id) {
		return
	}
	t.SetTags(append(t.TagIDs(), id))
}

func (t *Task) RemoveTag(id TagID) {
	t.tags = slices.DeleteFunc(t.TagIDs(), func(x TagID) bool { return x == id })
}

func (t Task) validate(tags *Tags) error {
	if strings.TrimSpace(t.Summary) == "" {
		return ErrEmptySummary
	}
	for _, id := range t.tags {
		if !tags.Valid(id) {
			return fmt.Errorf("%w: id %d", ErrInvalidTag, id)
		}
	}
	return nil
}

// Record is the flat, name-based form of a task used by loaders and savers.
type Record struct {
	ID       TaskID
	Summary  string
	Tags     []string
	Complete bool
	Notes    string
}
