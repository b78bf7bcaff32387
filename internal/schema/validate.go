package schema

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/spf13/cast"

	"github.com/hyperengineering/folio/internal/validation"
)

// Validate checks raw against the shape and returns the normalised record.
// Every failing field is reported; the error is a validation.ValidationErrors.
func (s Shape) Validate(raw map[string]any) (Record, error) {
	var c validation.Collector
	out := validateMembers("", s.Fields, raw, &c)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return Record(out), nil
}

func validateMembers(prefix string, fields []Field, raw map[string]any, c *validation.Collector) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		path := joinPath(prefix, f.Name)
		v, present := raw[f.Name]
		if !present {
			if f.Default != nil {
				out[f.Name] = f.Default
			} else if f.Required {
				c.Add(validation.Missing(path))
			}
			continue
		}
		if val, ok := validateValue(path, f, v, c); ok {
			out[f.Name] = val
		}
	}
	return out
}

// validateValue checks a present value. ok is false when the value was
// rejected; the reasons are in c.
func validateValue(path string, f Field, v any, c *validation.Collector) (any, bool) {
	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			c.Add(validation.WrongType(path, "string", v))
			return nil, false
		}
		return s, true

	case Number:
		n, ok := toFloat(v)
		if !ok {
			c.Add(validation.WrongType(path, "number", v))
			return nil, false
		}
		if err := validation.ValidateNumber(path, n, f.Integer); err != nil {
			c.Add(err)
			return nil, false
		}
		return n, true

	case Bool:
		b, ok := v.(bool)
		if !ok {
			c.Add(validation.WrongType(path, "boolean", v))
			return nil, false
		}
		return b, true

	case Date:
		t, err := CoerceDate(v)
		if err != nil {
			c.Add(&validation.ValidationError{Field: path, Message: err.Error()})
			return nil, false
		}
		return t, true

	case Enum:
		s, ok := v.(string)
		if !ok {
			c.Add(validation.WrongType(path, "string", v))
			return nil, false
		}
		if err := validation.ValidateEnum(path, s, f.Values); err != nil {
			c.Add(err)
			return nil, false
		}
		return s, true

	case URL:
		s, ok := v.(string)
		if !ok {
			c.Add(validation.WrongType(path, "string", v))
			return nil, false
		}
		if err := validation.ValidateURL(path, s); err != nil {
			c.Add(err)
			return nil, false
		}
		return s, true

	case Array:
		items, ok := toSlice(v)
		if !ok {
			c.Add(validation.WrongType(path, "array", v))
			return nil, false
		}
		if f.Elem == nil {
			return items, true
		}
		before := c.Len()
		out := make([]any, 0, len(items))
		for i, item := range items {
			if val, ok := validateValue(fmt.Sprintf("%s[%d]", path, i), *f.Elem, item, c); ok {
				out = append(out, val)
			}
		}
		if c.Len() > before {
			return nil, false
		}
		return out, true

	case Object:
		m, ok := toMap(v)
		if !ok {
			c.Add(validation.WrongType(path, "object", v))
			return nil, false
		}
		before := c.Len()
		out := validateMembers(path, f.Fields, m, c)
		if c.Len() > before {
			return nil, false
		}
		return out, true
	}

	c.Add(&validation.ValidationError{Field: path, Message: "unsupported field kind " + f.Kind.String()})
	return nil, false
}

// maxDateMillis bounds numeric dates to ±100,000,000 days around the epoch,
// the range of an ECMAScript Date.
const maxDateMillis = 8.64e15

// CoerceDate converts v to a calendar date in UTC.
// It accepts time.Time, date strings (ISO-8601 and the common layouts
// understood by cast), and numbers interpreted as Unix milliseconds.
// NaN, infinities and numbers outside ±maxDateMillis are invalid.
func CoerceDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, fmt.Errorf("invalid date")
		}
		return d.UTC(), nil
	case *time.Time:
		if d == nil {
			break
		}
		return CoerceDate(*d)
	case string:
		t, err := cast.ToTimeInDefaultLocationE(d, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", d)
		}
		return t.UTC(), nil
	case bool:
		return time.Time{}, fmt.Errorf("expected date, received boolean")
	}
	if n, ok := toFloat(v); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > maxDateMillis {
			return time.Time{}, fmt.Errorf("invalid date")
		}
		return time.UnixMilli(int64(n)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("expected date, received %T", v)
}

// toFloat converts any Go numeric value to float64. Strings and booleans are
// not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// toSlice accepts []any and any other slice type (e.g. []string built in Go).
func toSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toMap accepts string-keyed maps, including Record and maps decoded by
// YAML libraries that key nested mappings by interface{}.
func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
