package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"filefixtures/internal/domain"
)

// JSONParser parses JSON fixtures.
//
// Every object is passed through date coercion as soon as its members are
// decoded, so nested objects are coerced before the object containing them.
type JSONParser struct{}

// NewJSONParser creates a new JSON parser
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Format returns the parser format identifier
func (p *JSONParser) Format() domain.Format {
	return domain.FormatJSON
}

// Parse decodes a JSON fixture body
func (p *JSONParser) Parse(r io.Reader) ([]domain.Group, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty JSON document")
		}
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse JSON: unexpected data after top-level value")
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be a list of groups, got %T", v)
	}

	groups := make([]domain.Group, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("group %d must be an object, got %T", i, item)
		}
		group, err := toGroup(i, obj["model"], obj["records"])
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q", t)
	case json.Number:
		return numberValue(t)
	default:
		// string, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (map[string]any, error) {
	obj := make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		obj[key] = val
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}

	coerceTimes(obj)
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}
	return arr, nil
}

// numberValue keeps integral numbers as int64
func numberValue(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", n, err)
	}
	return f, nil
}

// coerceTimes replaces every string member that parses as a date/time
func coerceTimes(obj map[string]any) {
	for key, val := range obj {
		s, ok := val.(string)
		if !ok {
			continue
		}
		if t, ok := TryParseTime(s); ok {
			obj[key] = t
		}
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
