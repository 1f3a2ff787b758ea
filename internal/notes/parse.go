package notes

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Parse splits frontmatter from the body and walks the markdown once to
// find the title and links.
func Parse(content string) Note {
	meta, body := splitFrontmatter([]byte(content))
	note := Note{Meta: meta, Body: string(body)}

	if t, ok := meta["title"]; ok {
		note.Title = strings.TrimSpace(fmt.Sprint(t))
		delete(meta, "title")
	}

	doc := goldmark.DefaultParser().Parse(text.NewReader(body))
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if note.Title == "" {
				note.Title = inlineText(node, body)
			}
		case *ast.Link:
			note.Links = append(note.Links, string(node.Destination))
		case *ast.AutoLink:
			note.Links = append(note.Links, string(node.URL(body)))
		}
		return ast.WalkContinue, nil
	})

	if note.Title == "" {
		first, _, _ := strings.Cut(strings.TrimSpace(note.Body), "\n")
		note.Title = strings.TrimSpace(first)
	}
	return note
}

// Title returns the note's title, or "" for empty notes.
func Title(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return Parse(content).Title
}

// splitFrontmatter extracts optional YAML frontmatter. Malformed
// frontmatter is left in the body.
func splitFrontmatter(content []byte) (map[string]any, []byte) {
	meta := map[string]any{}
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return meta, content
	}

	var end int
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			end = i
			break
		}
	}
	if end == 0 {
		return meta, content
	}

	if err := yaml.Unmarshal(bytes.Join(lines[1:end], []byte("\n")), &meta); err != nil {
		return map[string]any{}, content
	}
	if meta == nil {
		meta = map[string]any{}
	}
	body := bytes.TrimLeft(bytes.Join(lines[end+1:], []byte("\n")), "\n")
	return meta, body
}

// inlineText flattens the inline children of n, keeping soft line breaks
// as spaces.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				b.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(node.Value)
			case *ast.AutoLink:
				b.Write(node.URL(source))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
