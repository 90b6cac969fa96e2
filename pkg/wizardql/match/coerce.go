package match

import (
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

var timeType = reflect.TypeOf(time.Time{})

// stringToDate lets text record values decode into time.Time using the same
// layouts the parser accepts.
func stringToDate(from, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := query.ParseDate(reflect.ValueOf(data).String()); ok {
		return t, nil
	}
	return data, nil
}

// decodeAs weakly converts a record value into T.
func decodeAs[T any](raw any) (T, bool) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToDate,
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, false
	}
	if err := dec.Decode(raw); err != nil {
		return out, false
	}
	return out, true
}

func asNumber(raw any) (float64, bool) {
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return 0, false
	}
	return decodeAs[float64](raw)
}

func asDate(raw any) (time.Time, bool) {
	return decodeAs[time.Time](raw)
}

func asBool(raw any) (bool, bool) {
	return decodeAs[bool](raw)
}

func asString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case time.Time:
		return v.Format(time.RFC3339Nano), true
	}
	return decodeAs[string](raw)
}

// asList returns the elements of any slice or array record value other than
// raw bytes.
func asList(raw any) ([]any, bool) {
	if list, ok := raw.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	default:
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}
