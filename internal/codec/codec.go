// Package codec parses fixture files into format-independent groups.
package codec

import (
	"fmt"
	"io"

	"filefixtures/internal/domain"
)

// Parser turns the body of a fixture file into its groups, in file order
type Parser interface {
	Parse(r io.Reader) ([]domain.Group, error)
	Format() domain.Format
}

// Table dispatches a fixture format to its parser
type Table map[domain.Format]Parser

// DefaultTable returns the YAML and JSON parsers
func DefaultTable() Table {
	return NewTable(NewYAMLParser(), NewJSONParser())
}

// NewTable builds a dispatch table keyed by each parser's format.
// Later parsers replace earlier ones for the same format.
func NewTable(parsers ...Parser) Table {
	t := make(Table, len(parsers))
	for _, p := range parsers {
		t[p.Format()] = p
	}
	return t
}

// ForPath returns the parser for the file's extension
func (t Table) ForPath(path string) (Parser, bool) {
	format, ok := domain.FormatForPath(path)
	if !ok {
		return nil, false
	}
	p, ok := t[format]
	return p, ok
}

// toGroup validates one decoded {model, records} entry
func toGroup(i int, model any, records any) (domain.Group, error) {
	name, ok := model.(string)
	if !ok || name == "" {
		return domain.Group{}, fmt.Errorf("group %d: missing or non-string \"model\"", i)
	}

	group := domain.NewGroup(name)
	if records == nil {
		return group, nil
	}

	list, ok := records.([]any)
	if !ok {
		return domain.Group{}, fmt.Errorf("group %d (%s): \"records\" must be a list", i, name)
	}
	for j, item := range list {
		switch rec := item.(type) {
		case map[string]any:
			group.AddRecord(domain.Record(rec))
		case nil:
			group.AddRecord(domain.Record{})
		default:
			return domain.Group{}, fmt.Errorf("group %d (%s): record %d must be a mapping, got %T", i, name, j, item)
		}
	}
	return group, nil
}
