package storage

// DocumentVersion is written into every saved document.
const DocumentVersion = 1

// Document is the persisted state of one instance: the tag table, every
// task in list order, and every tab. Unknown fields are ignored on load.
type Document struct {
	Version int          `json:"version" yaml:"version"`
	Tags    []string     `json:"tags" yaml:"tags"`
	Tasks   []TaskRecord `json:"tasks" yaml:"tasks"`
	Tabs    []TabRecord  `json:"tabs" yaml:"tabs"`
}

type TaskRecord struct {
	ID       uint64   `json:"id" yaml:"id"`
	Summary  string   `json:"summary" yaml:"summary"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Complete bool     `json:"complete,omitempty" yaml:"complete,omitempty"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type QueryRecord struct {
	Version int    `json:"version" yaml:"version"`
	Filter  string `json:"filter" yaml:"filter"`
	Order   string `json:"order,omitempty" yaml:"order,omitempty"`
}

type TabRecord struct {
	Name     string      `json:"name" yaml:"name"`
	Query    QueryRecord `json:"query" yaml:"query"`
	Selected *uint64     `json:"selected,omitempty" yaml:"selected,omitempty"`
}
