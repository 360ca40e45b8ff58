package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/noxss/roster-migrate/internal/apperror"
)

// Top-level field names of the roster document.
const (
	FieldMetadata = "metadata"
	FieldSections = "turmas"
	FieldStudents = "alunos"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Document is the roster file: metadata.turmas plus alunos, along with
// whatever other fields the school app stores next to them.
type Document struct {
	root Record
}

// DecodeDocument parses raw JSON keeping key order at every level.
func DecodeDocument(data []byte) (Document, error) {
	const op = "model.DecodeDocument"

	data = bytes.TrimPrefix(data, utf8BOM)
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = fmt.Errorf("invalid JSON")
		}
		return Document{}, apperror.Wrap(apperror.CodeParse, op, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, apperror.New(apperror.CodeStructural, op, "document root is %s, want object", rootKind(trimmed))
	}

	root := newOrderedMap()
	if err := json.Unmarshal(trimmed, root); err != nil {
		return Document{}, apperror.Wrap(apperror.CodeParse, op, err)
	}
	return Document{root: Record{m: root}}, nil
}

// Encode renders the document with two-space indentation. Key order is kept
// and non-ASCII text is written as is.
func (d Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.root.Value()); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "model.Document.Encode", err)
	}
	return buf.Bytes(), nil
}

// Root returns the top-level record.
func (d Document) Root() Record {
	return d.root
}

// Sections returns the raw metadata.turmas entries. A missing metadata or
// turmas field reads as an empty list.
func (d Document) Sections() ([]any, error) {
	const op = "model.Document.Sections"

	meta, ok, err := d.metadata()
	if err != nil || !ok {
		return nil, err
	}
	v, ok := meta.Get(FieldSections)
	if !ok {
		return nil, nil
	}
	list, isList := v.([]any)
	if !isList {
		return nil, apperror.New(apperror.CodeStructural, op, "metadata.turmas is %s, want array", KindOf(v))
	}
	return list, nil
}

// Students returns the raw alunos entries and whether the field exists.
func (d Document) Students() ([]any, bool, error) {
	v, ok := d.root.Get(FieldStudents)
	if !ok {
		return nil, false, nil
	}
	list, isList := v.([]any)
	if !isList {
		return nil, true, apperror.New(apperror.CodeStructural, "model.Document.Students", "alunos is %s, want array", KindOf(v))
	}
	return list, true, nil
}

// WithSections returns a copy of d whose metadata.turmas is sections.
// metadata is created when the input had none.
func (d Document) WithSections(sections []ClassSection) (Document, error) {
	meta, _, err := d.metadata()
	if err != nil {
		return Document{}, err
	}
	if meta.m == nil {
		meta = NewRecord()
	}

	list := make([]any, 0, len(sections))
	for _, s := range sections {
		list = append(list, s.Record().Value())
	}
	meta = meta.With(FieldSections, list)
	return Document{root: d.root.With(FieldMetadata, meta.Value())}, nil
}

// WithStudents returns a copy of d whose alunos is students.
func (d Document) WithStudents(students []any) Document {
	return Document{root: d.root.With(FieldStudents, students)}
}

func (d Document) metadata() (Record, bool, error) {
	v, ok := d.root.Get(FieldMetadata)
	if !ok {
		return Record{}, false, nil
	}
	meta, isRecord := AsRecord(v)
	if !isRecord {
		return Record{}, true, apperror.New(apperror.CodeStructural, "model.Document.metadata", "metadata is %s, want object", KindOf(v))
	}
	return meta, true, nil
}

func rootKind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
