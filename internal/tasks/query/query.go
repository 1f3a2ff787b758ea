package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"tagdo/internal/tasks/data"
)

// Version is the current encoding of persisted query definitions.
const Version = 1

var ErrInvalidQuery = errors.New("invalid query")

type InvalidQueryError struct {
	Input  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Input, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return ErrInvalidQuery
}

// Order decides how matching tasks are arranged in a view.
type Order int

const (
	// OrderList keeps the task list's own order.
	OrderList Order = iota
	// OrderAlpha sorts by summary, case-insensitively.
	OrderAlpha
	// OrderCompletion puts incomplete tasks first.
	OrderCompletion
)

func (o Order) String() string {
	switch o {
	case OrderAlpha:
		return "alpha"
	case OrderCompletion:
		return "completion"
	default:
		return "list"
	}
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "list":
		return OrderList, nil
	case "alpha", "alphabetical":
		return OrderAlpha, nil
	case "completion", "complete":
		return OrderCompletion, nil
	}
	return OrderList, &InvalidQueryError{Input: s, Reason: "unknown order"}
}

// Query is a filter plus an ordering. The zero value is not usable; use
// All, New or Compile.
type Query struct {
	Filter Expr
	Order  Order
}

// All matches every task in list order.
func All() Query {
	return Query{Filter: MatchAll(), Order: OrderList}
}

func New(filter Expr, order Order) Query {
	if filter == nil {
		filter = MatchAll()
	}
	return Query{Filter: filter, Order: order}
}

// Compile parses a filter and an order name.
func Compile(filter, order string) (Query, error) {
	e, err := Parse(filter)
	if err != nil {
		return Query{}, err
	}
	o, err := ParseOrder(order)
	if err != nil {
		return Query{}, err
	}
	return New(e, o), nil
}

// FromString parses the form produced by String: a filter optionally
// followed by a "sort:ORDER" term.
func FromString(s string) (Query, error) {
	var filter []string
	order := ""
	for _, f := range strings.Fields(s) {
		if rest, ok := strings.CutPrefix(strings.ToLower(f), "sort:"); ok {
			if order != "" {
				return Query{}, &InvalidQueryError{Input: s, Reason: "more than one sort term"}
			}
			if rest == "" {
				return Query{}, &InvalidQueryError{Input: s, Reason: "empty sort term"}
			}
			order = rest
			continue
		}
		filter = append(filter, f)
	}
	return Compile(strings.Join(filter, " "), order)
}

func (q Query) String() string {
	if q.Order == OrderList {
		return q.Filter.String()
	}
	return q.Filter.String() + " sort:" + q.Order.String()
}

func (q Query) Match(t data.Task, tags *data.Tags) bool {
	return q.Filter.Match(t, tags)
}

// Tags returns every tag name the filter refers to.
func (q Query) Tags() []string {
	var names []string
	walkTags(q.Filter, func(name string) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	})
	return names
}

// Validate reports an InvalidQueryError if the filter refers to a tag that
// does not exist in tags.
func (q Query) Validate(tags *data.Tags) error {
	for _, name := range q.Tags() {
		if _, ok := tags.Lookup(name); !ok {
			return &InvalidQueryError{Input: q.Filter.String(), Reason: fmt.Sprintf("unknown tag %q", name)}
		}
	}
	return nil
}

// ImpliedTags returns the tags a task must carry to satisfy the positive
// part of a top-level conjunction. New tasks created under the query get
// these tags so they show up in it.
func (q Query) ImpliedTags() []string {
	var names []string
	var collect func(e Expr)
	collect = func(e Expr) {
		switch x := e.(type) {
		case tagExpr:
			names = append(names, x.name)
		case andExpr:
			for _, sub := range x.xs {
				collect(sub)
			}
		}
	}
	collect(q.Filter)
	return names
}

// RenameTag returns q with references to oldName rewritten to newName.
func (q Query) RenameTag(oldName, newName string) Query {
	return Query{Filter: renameTags(q.Filter, oldName, newName), Order: q.Order}
}

// Definition is the persisted form of a query.
type Definition struct {
	Version int
	Filter  string
	Order   string
}

func (q Query) Definition() Definition {
	return Definition{Version: Version, Filter: q.Filter.String(), Order: q.Order.String()}
}

// FromDefinition decodes a persisted query. A zero version is read as the
// current one.
func FromDefinition(d Definition) (Query, error) {
	if d.Version != 0 && d.Version != Version {
		return Query{}, &InvalidQueryError{Input: d.Filter, Reason: fmt.Sprintf("unsupported version %d", d.Version)}
	}
	return Compile(d.Filter, d.Order)
}

// Evaluate returns the ids of the tasks in l matching q, in q's order.
// Ties keep list order.
func Evaluate(l *data.TaskList, q Query) []data.TaskID {
	type hit struct {
		id       data.TaskID
		summary  string
		complete bool
	}
	var hits []hit
	tags := l.Tags()
	for t := range l.All() {
		if q.Match(t, tags) {
			hits = append(hits, hit{id: t.ID(), summary: strings.ToLower(t.Summary), complete: t.Complete})
		}
	}

	switch q.Order {
	case OrderAlpha:
		slices.SortStableFunc(hits, func(a, b hit) int {
			return strings.Compare(a.summary, b.summary)
		})
	case OrderCompletion:
		slices.SortStableFunc(hits, func(a, b hit) int {
			switch {
			case a.complete == b.complete:
				return 0
			case !a.complete:
				return -1
			default:
				return 1
			}
		})
	}

	ids := make([]data.TaskID, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}
