package query

import "tagdo/internal/tasks/data"

// View is the lazily evaluated output of a query over a task list. It
// holds task ids only and re-evaluates on the first read after the list
// or the query changes.
type View struct {
	list  *data.TaskList
	query Query
	ids   []data.TaskID
	pos   map[data.TaskID]int
	gen   uint64
	fresh bool
}

func NewView(list *data.TaskList, q Query) *View {
	return &View{list: list, query: q}
}

func (v *View) Query() Query {
	return v.query
}

func (v *View) SetQuery(q Query) {
	v.query = q
	v.fresh = false
}

func (v *View) refresh() {
	if v.fresh && v.gen == v.list.Generation() {
		return
	}
	v.ids = Evaluate(v.list, v.query)
	v.pos = make(map[data.TaskID]int, len(v.ids))
	for i, id := range v.ids {
		v.pos[id] = i
	}
	v.gen = v.list.Generation()
	v.fresh = true
}

// IDs returns the current output. The slice must not be modified.
func (v *View) IDs() []data.TaskID {
	v.refresh()
	return v.ids
}

func (v *View) Len() int {
	v.refresh()
	return len(v.ids)
}

func (v *View) At(i int) (data.TaskID, bool) {
	v.refresh()
	if i < 0 || i >= len(v.ids) {
		return 0, false
	}
	return v.ids[i], true
}

func (v *View) Index(id data.TaskID) (int, bool) {
	v.refresh()
	i, ok := v.pos[id]
	return i, ok
}

func (v *View) Contains(id data.TaskID) bool {
	_, ok := v.Index(id)
	return ok
}
