package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

var ErrNotRecord = errors.New("record must be a map with string keys or a struct")

// ToRecord converts v into a field map. Maps are copied with mapstructure;
// structs go through their JSON encoding so json tags name the fields.
func ToRecord(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: got %T", ErrNotRecord, v)
		}
		var out map[string]any
		if err := mapstructure.Decode(rv.Interface(), &out); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotRecord, err)
		}
		return out, nil
	case reflect.Struct:
		b, err := json.Marshal(rv.Interface())
		if err != nil {
			return nil, err
		}
		var out map[string]any
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotRecord, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrNotRecord, v)
}
