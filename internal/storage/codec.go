package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Format selects the text encoding of a file-backed document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatJSON, fmt.Errorf("unknown format %q", s)
}

//go:embed schema.json
var documentSchemaJSON string

var documentSchema = jsonschema.MustCompileString("document.schema.json", documentSchemaJSON)

// Encode renders doc in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// Decode parses raw, validates it against the document schema and checks
// the cross-record invariants. Every failure is a *CorruptError.
func Decode(path string, raw []byte, format Format) (Document, error) {
	var generic any
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(raw, &generic)
	} else {
		err = json.Unmarshal(raw, &generic)
	}
	if err != nil {
		return Document{}, &CorruptError{Path: path, Reason: fmt.Sprintf("decode %s: %v", format, err)}
	}
	if generic == nil {
		return Document{}, &CorruptError{Path: path, Reason: "empty document"}
	}

	normalized, err := json.Marshal(generic)
	if err != nil {
		return Document{}, &CorruptError{Path: path, Reason: fmt.Sprintf("normalize: %v", err)}
	}

	var instance any
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return Document{}, &CorruptError{Path: path, Reason: fmt.Sprintf("normalize: %v", err)}
	}
	if err := documentSchema.Validate(instance); err != nil {
		return Document{}, &CorruptError{Path: path, Reason: schemaReason(err)}
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return Document{}, &CorruptError{Path: path, Reason: err.Error()}
	}
	if err := checkDocument(path, doc); err != nil {
		return Document{}, err
	}
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	return doc, nil
}

func schemaReason(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectSchemaCauses(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Message
	}
	return strings.Join(msgs, "; ")
}

func collectSchemaCauses(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaCauses(cause, msgs)
	}
}

func checkDocument(path string, doc Document) error {
	if doc.Version > DocumentVersion {
		return &CorruptError{Path: path, Reason: fmt.Sprintf("unsupported version %d", doc.Version)}
	}
	seen := make(map[uint64]bool, len(doc.Tasks))
	for i, t := range doc.Tasks {
		if t.ID == 0 {
			return &CorruptError{Path: path, Reason: fmt.Sprintf("task %d has no id", i)}
		}
		if seen[t.ID] {
			return &CorruptError{Path: path, Reason: fmt.Sprintf("duplicate task id %d", t.ID)}
		}
		seen[t.ID] = true
		if strings.TrimSpace(t.Summary) == "" {
			return &CorruptError{Path: path, Reason: fmt.Sprintf("task %d has an empty summary", t.ID)}
		}
	}
	return nil
}

func cloneDocument(doc Document) Document {
	out := Document{Version: doc.Version}
	out.Tags = append([]string(nil), doc.Tags...)
	for _, t := range doc.Tasks {
		t.Tags = append([]string(nil), t.Tags...)
		out.Tasks = append(out.Tasks, t)
	}
	for _, tab := range doc.Tabs {
		if tab.Selected != nil {
			sel := *tab.Selected
			tab.Selected = &sel
		}
		out.Tabs = append(out.Tabs, tab)
	}
	return out
}
