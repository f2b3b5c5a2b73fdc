package registry

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"filefixtures/internal/domain"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag that maps record fields onto struct fields
const TagName = "fixture"

var timeType = reflect.TypeOf(time.Time{})

// stringToTimeHook converts date and date-time strings into time.Time fields
func stringToTimeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s := data.(string)
	for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as a date or date-time", s)
}

// Struct returns a constructor that decodes a record into a new *T.
//
// Record keys must match `fixture` tags exactly; a key with no matching
// field fails with domain.UnknownFieldError naming it.
func Struct[T any]() Constructor {
	return func(fields domain.Record) (any, error) {
		out := new(T)
		var md mapstructure.Metadata

		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:     out,
			TagName:    TagName,
			Metadata:   &md,
			DecodeHook: stringToTimeHook,
			MatchName: func(mapKey, fieldName string) bool {
				return mapKey == fieldName
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create decoder: %w", err)
		}

		decodeErr := dec.Decode(map[string]any(fields))
		if len(md.Unused) > 0 {
			sort.Strings(md.Unused)
			return nil, &domain.UnknownFieldError{Field: md.Unused[0]}
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		return out, nil
	}
}
