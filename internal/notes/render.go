package notes

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Render converts markdown notes into terminal lines. Frontmatter is
// dropped. Inline formatting is flattened to plain text.
func Render(content string) []Line {
	_, body := splitFrontmatter([]byte(content))
	doc := goldmark.DefaultParser().Parse(text.NewReader(body))

	var lines []Line
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			lines = append(lines, Line{Kind: LineHeading, Text: inlineText(node, body), Depth: node.Level})
			return ast.WalkSkipChildren, nil

		case *ast.ThematicBreak:
			lines = append(lines, Line{Kind: LineRule})

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				lines = append(lines, Line{
					Kind: LineCode,
					Text: strings.TrimRight(string(seg.Value(body)), "\n"),
				})
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			lines = append(lines, blockLine(n, inlineText(n, body)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return lines
}

// blockLine classifies a paragraph by its enclosing list items and quotes.
func blockLine(n ast.Node, txt string) Line {
	depth := 0
	quoted := false
	firstInItem := false
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *ast.ListItem:
			if depth == 0 {
				firstInItem = p.FirstChild() == n
			}
			depth++
		case *ast.Blockquote:
			quoted = true
		}
	}

	switch {
	case depth > 0 && firstInItem:
		return Line{Kind: LineBullet, Text: txt, Depth: depth}
	case depth > 0:
		return Line{Kind: LineText, Text: txt, Depth: depth}
	case quoted:
		return Line{Kind: LineQuote, Text: txt}
	}
	return Line{Kind: LineText, Text: txt}
}
