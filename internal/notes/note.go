package notes

// Note is a task's free-form markdown notes, split into optional YAML
// frontmatter and body.
type Note struct {
	Title string         // From frontmatter `title`, else the first heading, else the first line
	Meta  map[string]any // Remaining frontmatter keys
	Body  string
	Links []string // Link destinations in document order
}

type LineKind int

const (
	LineText LineKind = iota
	LineHeading
	LineBullet
	LineCode
	LineQuote
	LineRule
)

// Line is one block of rendered notes. Depth is the list nesting level
// for bullets and the heading level for headings.
type Line struct {
	Kind  LineKind
	Text  string
	Depth int
}
