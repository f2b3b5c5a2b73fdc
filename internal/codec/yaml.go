package codec

import (
	"errors"
	"fmt"
	"io"

	"filefixtures/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses YAML fixtures. Scalars keep yaml.v3's native typing.
type YAMLParser struct{}

// NewYAMLParser creates a new YAML parser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Format returns the parser format identifier
func (p *YAMLParser) Format() domain.Format {
	return domain.FormatYAML
}

// yamlGroup represents one group of a YAML fixture file
type yamlGroup struct {
	Model   string `yaml:"model"`
	Records []any  `yaml:"records"`
}

// Parse decodes a YAML fixture body holding at most one document. An empty
// body has no groups.
func (p *YAMLParser) Parse(r io.Reader) ([]domain.Group, error) {
	var yg []yamlGroup
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&yg); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Group{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return nil, errors.New("failed to parse YAML: expected a single document in the stream")
	}

	groups := make([]domain.Group, 0, len(yg))
	for i, g := range yg {
		var records any
		if g.Records != nil {
			records = normalizeYAML(g.Records)
		}
		group, err := toGroup(i, g.Model, records)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// normalizeYAML converts yaml.v3 generic values to the raw value set shared
// with the JSON parser: ints become int64 and mapping keys become strings.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeYAML(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	default:
		return v
	}
}
