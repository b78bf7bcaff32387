// Package schema describes front-matter shapes as plain data and validates
// raw field mappings against them.
//
// A schema is a list of Field descriptors. Validation is a single generic
// interpreter over those descriptors; no per-collection code is involved.
package schema

// Kind is the value type a field accepts.
type Kind uint8

// Field kinds.
const (
	String Kind = iota
	Number
	Bool
	Date
	Enum
	URL
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Date:
		return "date"
	case Enum:
		return "enum"
	case URL:
		return "url"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Field describes one named value in a record.
type Field struct {
	// Name is the front-matter key.
	Name string

	Kind Kind

	// Required fields must be present. Fields with a Default are never
	// reported missing.
	Required bool

	// Default is substituted when the field is absent.
	Default any

	// Values lists the accepted literals of an Enum field.
	Values []string

	// Integer restricts a Number field to whole numbers.
	Integer bool

	// Elem describes the elements of an Array field. Its Name is ignored.
	Elem *Field

	// Fields describes the members of an Object field.
	Fields []Field
}

// Optional reports whether the field may be absent.
func (f Field) Optional() bool {
	return !f.Required || f.Default != nil
}

// Shape is the top-level schema of a record.
type Shape struct {
	Fields []Field
}

// Field returns the top-level field descriptor with the given name.
func (s Shape) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the top-level field names in declaration order.
func (s Shape) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is a validated field mapping.
//
// Values are normalised: strings and enum literals are string, numbers are
// float64, dates are time.Time in UTC, arrays are []any and nested objects
// are map[string]any. Keys not declared by the schema are dropped.
type Record map[string]any
