package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"lusogate/internal/models"
	"lusogate/internal/parser"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	descriptorType = reflect.TypeOf(models.FileDescriptor{})
)

// decodeError is a field that could not be converted to its declared type.
type decodeError struct {
	path string // json path, nested fields joined with "."
	code string
}

// decode copies the record into payload, a pointer to a struct, one field
// at a time. Nested objects are decoded the same way, so every bad field
// reports its own error and the good ones stay set. Keys without a matching
// field are dropped and nil values are left unset. Form and multipart values
// arrive as strings, so coerce converts them to booleans and numbers first.
func decode(payload any, rec parser.Record, coerce bool) []decodeError {
	return decodeStruct(reflect.ValueOf(payload).Elem(), rec, "", coerce)
}

func decodeStruct(v reflect.Value, rec map[string]any, prefix string, coerce bool) []decodeError {
	t := v.Type()

	var errs []decodeError
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}
		raw, ok := rec[name]
		if !ok || raw == nil {
			continue
		}
		errs = append(errs, assign(v.Field(i), raw, prefix+name, coerce)...)
	}
	return errs
}

func assign(dst reflect.Value, raw any, path string, coerce bool) []decodeError {
	ft := dst.Type()
	base := ft
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	invalid := []decodeError{{path: path, code: CodeInvalidType}}

	// File parts only come from the multipart parser.
	if base == descriptorType {
		fd, ok := raw.(models.FileDescriptor)
		if !ok {
			return invalid
		}
		setValue(dst, reflect.ValueOf(fd))
		return nil
	}

	if base.Kind() == reflect.Struct && base != timeType {
		obj, ok := asObject(raw)
		if !ok {
			return invalid
		}
		nested := reflect.New(base).Elem()
		errs := decodeStruct(nested, obj, path+".", coerce)
		setValue(dst, nested)
		return errs
	}

	if coerce {
		if s, ok := raw.(string); ok {
			c, err := coerceString(s, base)
			if err != nil {
				return invalid
			}
			raw = c
		}
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(base) {
		setValue(dst, rv)
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return invalid
	}
	target := reflect.New(ft)
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		if base == timeType {
			return []decodeError{{path: path, code: CodeInvalidDate}}
		}
		return invalid
	}
	dst.Set(target.Elem())
	return nil
}

func asObject(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case parser.Record:
		return m, true
	}
	return nil, false
}

// setValue stores rv into dst, allocating when dst is a pointer.
func setValue(dst, rv reflect.Value) {
	if dst.Kind() == reflect.Pointer && rv.Type() != dst.Type() {
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(rv)
		dst.Set(p)
		return
	}
	dst.Set(rv)
}

// coerceString converts a form string to the kind the field expects. Values
// for other kinds are returned unchanged; a single value for a slice field
// becomes a one-element slice.
func coerceString(s string, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Bool:
		return strconv.ParseBool(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return []string{s}, nil
		}
	}
	return s, nil
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}
