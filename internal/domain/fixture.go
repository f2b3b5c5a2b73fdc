package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies the serialization format of a fixture file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// extensionFormats maps recognized file extensions to their format.
// ".js" is a historical alias for JSON fixtures.
var extensionFormats = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
	".js":   FormatJSON,
}

// FormatForPath infers the fixture format from the file extension.
// The second return value is false for unrecognized extensions.
func FormatForPath(path string) (Format, bool) {
	f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// IsFixturePath reports whether path has a recognized fixture extension
func IsFixturePath(path string) bool {
	_, ok := FormatForPath(path)
	return ok
}

// FixtureFile is a fixture file scheduled for loading
type FixtureFile struct {
	Path     string `json:"path"`
	Format   Format `json:"format"`
	Position int    `json:"position"`
}

// Record maps field names to raw values decoded from a fixture file.
//
// Values are one of: string, int64, float64, bool, nil, time.Time (JSON
// date coercion only), map[string]any or []any.
type Record map[string]any

// Group is one {model, records} unit within a fixture file
type Group struct {
	Model   string   `json:"model" yaml:"model"`
	Records []Record `json:"records" yaml:"records"`
}

// NewGroup creates an empty group for model
func NewGroup(model string) Group {
	return Group{
		Model:   model,
		Records: make([]Record, 0),
	}
}

// AddRecord appends a record, preserving declaration order
func (g *Group) AddRecord(r Record) {
	g.Records = append(g.Records, r)
}

// CountRecords returns the total number of records across groups
func CountRecords(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	return n
}
