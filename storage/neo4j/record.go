package neo4j

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// fromRecord flattens the struct v into the map of properties named after the json tags.
// The fields tagged with omitempty are skipped when empty, pointers are dereferenced, and nested structs are
// converted recursively.
func fromRecord(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.New("nil record")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("struct expected, got %s", rv.Kind())
	}

	rt := rv.Type()
	o := make(map[string]any, rt.NumField())
	var err error
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty := jsonName(f)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		val, er := toValue(fv)
		if er != nil {
			err = errors.Join(err, fmt.Errorf("field %s: %w", f.Name, er))
			continue
		}
		o[name] = val
	}
	return o, err
}

func toValue(v reflect.Value) (any, error) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}
		return toValue(v.Elem())
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Struct:
		return fromRecord(v.Interface())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Struct {
			o := make([]map[string]any, v.Len())
			for i := range o {
				m, err := fromRecord(v.Index(i).Interface())
				if err != nil {
					return nil, err
				}
				o[i] = m
			}
			return o, nil
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("unsupported kind %s", v.Kind())
}

func jsonName(f reflect.StructField) (name string, omitEmpty bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name, false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}
