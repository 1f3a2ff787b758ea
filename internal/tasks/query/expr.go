package query

import (
	"fmt"
	"strings"
	"unicode"

	"tagdo/internal/tasks/data"
)

// Expr is a task predicate.
type Expr interface {
	Match(t data.Task, tags *data.Tags) bool
	String() string
}

type allExpr struct{}

func (allExpr) Match(data.Task, *data.Tags) bool { return true }
func (allExpr) String() string { return "all" }

type completeExpr struct{ want bool }

func (e completeExpr) Match(t data.Task, _ *data.Tags) bool { return t.Complete == e.want }

func (e completeExpr) String() string {
	if e.want {
		return "complete"
	}
	return "incomplete"
}

type tagExpr struct{ name string }

func (e tagExpr) Match(t data.Task, tags *data.Tags) bool {
	id, ok := tags.Lookup(e.name)
	return ok && t.HasTag(id)
}

func (e tagExpr) String() string { return "tag:" + e.name }

type notExpr struct{ x Expr }

func (e notExpr) Match(t data.Task, tags *data.Tags) bool { return !e.x.Match(t, tags) }

func (e notExpr) String() string {
	switch e.x.(type) {
	case andExpr, orExpr:
		return "!(" + e.x.String() + ")"
	}
	return "!" + e.x.String()
}

type andExpr struct{ xs []Expr }

func (e andExpr) Match(t data.Task, tags *data.Tags) bool {
	for _, x := range e.xs {
		if !x.Match(t, tags) {
			return false
		}
	}
	return true
}

func (e andExpr) String() string {
	parts := make([]string, len(e.xs))
	for i, x := range e.xs {
		if _, ok := x.(orExpr); ok {
			parts[i] = "(" + x.String() + ")"
		} else {
			parts[i] = x.String()
		}
	}
	return strings.Join(parts, " & ")
}

type orExpr struct{ xs []Expr }

func (e orExpr) Match(t data.Task, tags *data.Tags) bool {
	for _, x := range e.xs {
		if x.Match(t, tags) {
			return true
		}
	}
	return false
}

func (e orExpr) String() string {
	parts := make([]string, len(e.xs))
	for i, x := range e.xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, " | ")
}

// Constructors for building filters in code.

func MatchAll() Expr { return allExpr{} }
func IsComplete() Expr { return completeExpr{want: true} }
func IsIncomplete() Expr { return completeExpr{want: false} }
func Not(x Expr) Expr { return notExpr{x: x} }
func And(xs ...Expr) Expr { return andExpr{xs: xs} }
func Or(xs ...Expr) Expr { return orExpr{xs: xs} }

// HasTag panics on a malformed name; use Parse for user input.
func HasTag(name string) Expr {
	norm, err := data.NormalizeTag(name)
	if err != nil {
		panic(err)
	}
	return tagExpr{name: norm}
}

// Parse reads a filter expression:
//
//	or    := and { "|" and }
//	and   := unary { ["&"] unary }
//	unary := "!" unary | "(" or ")" | atom
//	atom  := "tag:" NAME | "complete" | "incomplete" | "all"
//
// "tag=NAME" and "#NAME" are accepted for "tag:NAME", "*" for "all",
// "done" and "todo" for "complete" and "incomplete". Adjacent terms
// without an operator are joined with "&". An empty filter matches every
// task.
func Parse(input string) (Expr, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, &InvalidQueryError{Input: input, Reason: err.Error()}
	}
	if len(toks) == 0 {
		return MatchAll(), nil
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err == nil && p.pos < len(p.toks) {
		err = fmt.Errorf("unexpected %q", p.toks[p.pos].text)
	}
	if err != nil {
		return nil, &InvalidQueryError{Input: input, Reason: err.Error()}
	}
	return e, nil
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func isWordRune(r rune) bool {
	return data.IsTagRune(r) || r == ':' || r == '=' || r == '#' || r == '*'
}

func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '&':
			toks = append(toks, token{tokAnd, "&"})
			i++
		case r == '|':
			toks = append(toks, token{tokOr, "|"})
			i++
		case r == '!':
			toks = append(toks, token{tokNot, "!"})
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			toks = append(toks, token{tokWord, string(runes[start:i])})
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	xs := []Expr{first}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOr {
			break
		}
		p.pos++
		x, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	if len(xs) == 1 {
		return first, nil
	}
	return Or(xs...), nil
}

func (p *parser) parseAnd() (Expr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	xs := []Expr{first}
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		switch tok.kind {
		case tokAnd:
			p.pos++
		case tokWord, tokNot, tokLParen:
			// adjacent terms are an implicit conjunction
		default:
			return andOf(xs), nil
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return andOf(xs), nil
}

func andOf(xs []Expr) Expr {
	if len(xs) == 1 {
		return xs[0]
	}
	return And(xs...)
}

func (p *parser) parseUnary() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of filter")
	}
	switch tok.kind {
	case tokNot:
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(x), nil
	case tokLParen:
		p.pos++
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return x, nil
	case tokWord:
		p.pos++
		return parseAtom(tok.text)
	}
	return nil, fmt.Errorf("unexpected %q", tok.text)
}

func parseAtom(word string) (Expr, error) {
	lower := strings.ToLower(word)
	switch lower {
	case "all", "*":
		return MatchAll(), nil
	case "complete", "done":
		return IsComplete(), nil
	case "incomplete", "todo":
		return IsIncomplete(), nil
	}

	var name string
	switch {
	case strings.HasPrefix(lower, "tag:"):
		name = lower[len("tag:"):]
	case strings.HasPrefix(lower, "tag="):
		name = lower[len("tag="):]
	case strings.HasPrefix(lower, "#"):
		name = lower[1:]
	default:
		return nil, fmt.Errorf("unknown term %q", word)
	}
	norm, err := data.NormalizeTag(name)
	if err != nil {
		return nil, fmt.Errorf("bad tag in %q", word)
	}
	return tagExpr{name: norm}, nil
}

// walkTags calls fn for every tag referenced by e.
func walkTags(e Expr, fn func(name string)) {
	switch x := e.(type) {
	case tagExpr:
		fn(x.name)
	case notExpr:
		walkTags(x.x, fn)
	case andExpr:
		for _, sub := range x.xs {
			walkTags(sub, fn)
		}
	case orExpr:
		for _, sub := range x.xs {
			walkTags(sub, fn)
		}
	}
}

// renameTags returns a copy of e with every reference to oldName replaced.
func renameTags(e Expr, oldName, newName string) Expr {
	switch x := e.(type) {
	case tagExpr:
		if x.name == oldName {
			return tagExpr{name: newName}
		}
		return x
	case notExpr:
		return notExpr{x: renameTags(x.x, oldName, newName)}
	case andExpr:
		xs := make([]Expr, len(x.xs))
		for i, sub := range x.xs {
			xs[i] = renameTags(sub, oldName, newName)
		}
		return andExpr{xs: xs}
	case orExpr:
		xs := make([]Expr, len(x.xs))
		for i, sub := range x.xs {
			xs[i] = renameTags(sub, oldName, newName)
		}
		return orExpr{xs: xs}
	}
	return e
}
