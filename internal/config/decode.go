package config

import (
	"fmt"
	"math"

	"github.com/iancoleman/orderedmap"
)

// DecodeError reports a config value of the wrong shape, naming the key.
type DecodeError struct {
	Key string
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("config key %q: %s", e.Key, e.Msg)
}

// FromMapping walks a generic mapping into a Spec, starting from the
// defaults so omitted keys keep their usual values. Unknown keys are an
// error naming the offender; so is any value of the wrong type.
func FromMapping(m *orderedmap.OrderedMap) (*Spec, error) {
	spec := DefaultSpec()
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		var err error
		switch key {
		case "field_order":
			spec.FieldOrder, err = stringList(key, v)
		case "separator":
			spec.Separator, err = stringValue(key, v)
		case "template":
			spec.Template, err = stringValue(key, v)
		case "refresh":
			spec.Refresh, err = numberValue(key, v)
		case "count":
			spec.Count, err = intValue(key, v)
		case "clock_align":
			spec.ClockAlign, err = boolValue(key, v)
		case "join_empty_fields":
			spec.JoinEmptyFields, err = boolValue(key, v)
		case "once":
			spec.RunOnce, err = boolValue(key, v)
		case "debug":
			spec.Debug, err = boolValue(key, v)
		case "fields":
			spec.Fields, err = fieldSpecs(key, v)
		default:
			return nil, &DecodeError{Key: key, Msg: "unknown key"}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func fieldSpecs(key string, v any) (map[string]FieldSpec, error) {
	m, err := mappingValue(key, v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]FieldSpec, len(m.Keys()))
	for _, name := range m.Keys() {
		fv, _ := m.Get(name)
		fs, err := fieldSpec(key+"."+name, fv)
		if err != nil {
			return nil, err
		}
		fields[name] = fs
	}
	return fields, nil
}

func fieldSpec(key string, v any) (FieldSpec, error) {
	var fs FieldSpec
	m, err := mappingValue(key, v)
	if err != nil {
		return fs, err
	}
	for _, sub := range m.Keys() {
		sv, _ := m.Get(sub)
		subKey := key + "." + sub
		switch sub {
		case "icon":
			fs.Icon, err = stringValue(subKey, sv)
		case "tty_icon":
			fs.TTYIcon, err = stringValue(subKey, sv)
		case "interval":
			fs.Interval, err = numberValue(subKey, sv)
		case "threaded":
			fs.Threaded, err = boolValue(subKey, sv)
		case "once":
			fs.RunOnce, err = boolValue(subKey, sv)
		case "timely":
			fs.Timely, err = boolValue(subKey, sv)
		case "align_to_seconds":
			fs.AlignToSeconds, err = boolValue(subKey, sv)
		case "format":
			fs.Format, err = stringValue(subKey, sv)
		case "command":
			fs.Command, err = stringValue(subKey, sv)
		case "constant":
			fs.Constant, err = stringValue(subKey, sv)
		default:
			return fs, &DecodeError{Key: subKey, Msg: "unknown key"}
		}
		if err != nil {
			return fs, err
		}
	}
	return fs, nil
}

func stringValue(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{Key: key, Msg: fmt.Sprintf("want string, got %s", typeName(v))}
	}
	return s, nil
}

func boolValue(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &DecodeError{Key: key, Msg: fmt.Sprintf("want boolean, got %s", typeName(v))}
	}
	return b, nil
}

// numberValue accepts the integer and float shapes the three config
// front-ends produce: int64 from conf, float64 from conf, JSON, and Lua.
func numberValue(key string, v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, &DecodeError{Key: key, Msg: fmt.Sprintf("want number, got %s", typeName(v))}
}

func intValue(key string, v any) (int, error) {
	n, err := numberValue(key, v)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, &DecodeError{Key: key, Msg: fmt.Sprintf("want integer, got %v", n)}
	}
	return int(n), nil
}

func stringList(key string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, &DecodeError{Key: key, Msg: fmt.Sprintf("want list, got %s", typeName(v))}
	}
	out := make([]string, 0, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, &DecodeError{Key: fmt.Sprintf("%s[%d]", key, i), Msg: fmt.Sprintf("want string, got %s", typeName(e))}
		}
		out = append(out, s)
	}
	return out, nil
}

// mappingValue accepts both the pointer form produced by conf and the
// value form orderedmap's JSON decoder nests.
func mappingValue(key string, v any) (*orderedmap.OrderedMap, error) {
	switch m := v.(type) {
	case *orderedmap.OrderedMap:
		return m, nil
	case orderedmap.OrderedMap:
		return &m, nil
	}
	return nil, &DecodeError{Key: key, Msg: fmt.Sprintf("want block, got %s", typeName(v))}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case []any:
		return "list"
	case *orderedmap.OrderedMap, orderedmap.OrderedMap:
		return "block"
	default:
		return fmt.Sprintf("%T", v)
	}
}
