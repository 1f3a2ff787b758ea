package data

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptySummary = errors.New("task summary is empty")
	ErrInvalidTag   = errors.New("invalid tag")
	ErrTagExists    = errors.New("tag already exists")
	ErrDuplicateID  = errors.New("duplicate task id")
)

// TaskList is the single authoritative, ordered collection of tasks.
// It is owned by the event loop and is not safe for concurrent use.
type TaskList struct {
	tasks  []Task
	index  map[TaskID]int
	tags   *Tags
	nextID TaskID
	dirty  bool
	gen    uint64
}

func NewTaskList() *TaskList {
	return &TaskList{
		index:  make(map[TaskID]int),
		tags:   NewTags(),
		nextID: 1,
	}
}

func (l *TaskList) Tags() *Tags {
	return l.tags
}

func (l *TaskList) Len() int {
	return len(l.tasks)
}

// Generation increases on every mutation. Views compare it to decide
// whether their cached output is stale.
func (l *TaskList) Generation() uint64 {
	return l.gen
}

func (l *TaskList) Dirty() bool {
	return l.dirty
}

func (l *TaskList) MarkClean() {
	l.dirty = false
}

func (l *TaskList) touch() {
	l.dirty = true
	l.gen++
}

// internAll interns names only once every one of them is valid, so a
// rejected name leaves the arena untouched.
func (l *TaskList) internAll(names []string) ([]TagID, error) {
	norm := make([]string, 0, len(names))
	for _, name := range names {
		n, err := NormalizeTag(name)
		if err != nil {
			return nil, err
		}
		norm = append(norm, n)
	}
	ids := make([]TagID, 0, len(norm))
	for _, name := range norm {
		id, err := l.tags.Intern(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Add appends a new task and returns its freshly assigned id.
func (l *TaskList) Add(summary string, tags []string) (TaskID, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return 0, ErrEmptySummary
	}
	ids, err := l.internAll(tags)
	if err != nil {
		return 0, err
	}
	t := Task{id: l.nextID, Summary: summary}
	t.SetTags(ids)
	l.nextID++
	l.index[t.id] = len(l.tasks)
	l.tasks = append(l.tasks, t)
	l.touch()
	return t.id, nil
}

// Restore appends a task with a known id, as read from storage. It does
// not mark the list dirty.
func (l *TaskList) Restore(r Record) error {
	if r.ID == 0 {
		return fmt.Errorf("task id must be positive")
	}
	if _, exists := l.index[r.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
	}
	if strings.TrimSpace(r.Summary) == "" {
		return fmt.Errorf("task %d: %w", r.ID, ErrEmptySummary)
	}
	ids, err := l.internAll(r.Tags)
	if err != nil {
		return fmt.Errorf("task %d: %w", r.ID, err)
	}
	t := Task{id: r.ID, Summary: r.Summary, Complete: r.Complete, Notes: r.Notes}
	t.SetTags(ids)
	l.index[t.id] = len(l.tasks)
	l.tasks = append(l.tasks, t)
	if r.ID >= l.nextID {
		l.nextID = r.ID + 1
	}
	l.gen++
	return nil
}

// Remove deletes id. Removing an absent id is a no-op and reports false.
func (l *TaskList) Remove(id TaskID) bool {
	pos, ok := l.index[id]
	if !ok {
		return false
	}
	l.tasks = slices.Delete(l.tasks, pos, pos+1)
	l.reindex(pos)
	l.touch()
	return true
}

// Update applies mutate to a copy of task id and commits the copy only if
// mutate succeeds and the result is still a valid task.
func (l *TaskList) Update(id TaskID, mutate func(*Task) error) error {
	pos, ok := l.index[id]
	if !ok {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	draft := l.tasks[pos]
	draft.tags = slices.Clone(draft.tags)
	if err := mutate(&draft); err != nil {
		return err
	}
	draft.id = id
	draft.Summary = strings.TrimSpace(draft.Summary)
	if err := draft.validate(l.tags); err != nil {
		return err
	}
	l.tasks[pos] = draft
	l.touch()
	return nil
}

// Edit replaces the summary, tags and notes of id in one step. Nothing
// changes, the tag arena included, unless the whole edit is valid.
func (l *TaskList) Edit(id TaskID, summary string, names []string, notes string) error {
	if _, ok := l.index[id]; !ok {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ErrEmptySummary
	}
	ids, err := l.internAll(names)
	if err != nil {
		return err
	}
	return l.Update(id, func(t *Task) error {
		t.Summary = summary
		t.Notes = notes
		t.SetTags(ids)
		return nil
	})
}

// Retag adds and removes named tags on id. Removing a tag the task does
// not carry, or one that does not exist, is a no-op. Removals win over
// additions of the same name.
func (l *TaskList) Retag(id TaskID, add, remove []string) error {
	if _, ok := l.index[id]; !ok {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	dropNames := make([]string, 0, len(remove))
	for _, name := range remove {
		norm, err := NormalizeTag(name)
		if err != nil {
			return err
		}
		dropNames = append(dropNames, norm)
	}
	keep, err := l.internAll(add)
	if err != nil {
		return err
	}
	var drop []TagID
	for _, name := range dropNames {
		if tid, ok := l.tags.Lookup(name); ok {
			drop = append(drop, tid)
		}
	}
	return l.Update(id, func(t *Task) error {
		for _, tid := range keep {
			t.AddTag(tid)
		}
		for _, tid := range drop {
			t.RemoveTag(tid)
		}
		return nil
	})
}

// SetTaskTags replaces the tags of id with the named tags.
func (l *TaskList) SetTaskTags(id TaskID, names []string) error {
	if _, ok := l.index[id]; !ok {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	ids, err := l.internAll(names)
	if err != nil {
		return err
	}
	return l.Update(id, func(t *Task) error {
		t.SetTags(ids)
		return nil
	})
}

// Move shifts id by delta positions in list order, clamped to the ends.
func (l *TaskList) Move(id TaskID, delta int) error {
	pos, ok := l.index[id]
	if !ok {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	target := max(0, min(len(l.tasks)-1, pos+delta))
	if target == pos {
		return nil
	}
	t := l.tasks[pos]
	l.tasks = slices.Delete(l.tasks, pos, pos+1)
	l.tasks = slices.Insert(l.tasks, target, t)
	l.reindex(min(pos, target))
	l.touch()
	return nil
}

// RenameTag renames a tag for every task that carries it.
func (l *TaskList) RenameTag(oldName, newName string) error {
	if err := l.tags.Rename(oldName, newName); err != nil {
		return err
	}
	l.touch()
	return nil
}

func (l *TaskList) reindex(from int) {
	for i := from; i < len(l.tasks); i++ {
		l.index[l.tasks[i].id] = i
	}
	for id, pos := range l.index {
		if pos >= len(l.tasks) || l.tasks[pos].id != id {
			delete(l.index, id)
		}
	}
}

func (l *TaskList) Get(id TaskID) (Task, bool) {
	pos, ok := l.index[id]
	if !ok {
		return Task{}, false
	}
	return l.tasks[pos], true
}

// Position returns the list-order index of id.
func (l *TaskList) Position(id TaskID) (int, bool) {
	pos, ok := l.index[id]
	return pos, ok
}

// All yields tasks in list order. The sequence can be ranged over any
// number of times; each pass reflects the list at the time it starts.
func (l *TaskList) All() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		snapshot := l.tasks
		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

func (l *TaskList) IDs() []TaskID {
	ids := make([]TaskID, len(l.tasks))
	for i, t := range l.tasks {
		ids[i] = t.id
	}
	return ids
}

// TagNames returns the names of t's tags, sorted alphabetically.
func (l *TaskList) TagNames(t Task) []string {
	names := make([]string, 0, len(t.tags))
	for _, id := range t.tags {
		names = append(names, l.tags.Name(id))
	}
	slices.Sort(names)
	return names
}

// Records returns the name-based form of every task in list order.
func (l *TaskList) Records() []Record {
	out := make([]Record, 0, len(l.tasks))
	for _, t := range l.tasks {
		out = append(out, Record{
			ID:       t.id,
			Summary:  t.Summary,
			Tags:     l.TagNames(t),
			Complete: t.Complete,
			Notes:    t.Notes,
		})
	}
	return out
}
