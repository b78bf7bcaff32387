// Package content declares the site's content collections: where each
// collection's documents live and the front-matter shape they must satisfy.
package content

import (
	"fmt"
	"time"

	"github.com/hyperengineering/folio/internal/schema"
)

// Loader locates a collection's source documents. Pattern is matched against
// paths relative to Base; "**" matches any number of directories.
type Loader struct {
	Pattern string `json:"pattern"`
	Base    string `json:"base"`
}

// Ordering names the fields a collection is listed by: Order ascending with
// unset values last, then Date newest first.
type Ordering struct {
	Order string `json:"order,omitempty"`
	Date  string `json:"date,omitempty"`
}

// Collection is a named set of content documents sharing one schema.
type Collection struct {
	Name     string       `json:"name"`
	Loader   Loader       `json:"loader"`
	Schema   schema.Shape `json:"-"`
	Ordering Ordering     `json:"ordering"`

	// TagField is the string-array field used for tag filtering, if any.
	TagField string `json:"tag_field,omitempty"`
}

// Validate checks raw front-matter against the collection schema.
func (c Collection) Validate(raw map[string]any) (schema.Record, error) {
	rec, err := c.Schema.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return rec, nil
}

// SortKey extracts the ordering values of a validated record. order is nil
// when the collection has no order field or the record leaves it unset.
func (c Collection) SortKey(rec schema.Record) (order *float64, when time.Time) {
	if c.Ordering.Order != "" {
		if v, ok := rec[c.Ordering.Order].(float64); ok {
			order = &v
		}
	}
	switch v := rec[c.Ordering.Date].(type) {
	case time.Time:
		when = v
	case float64:
		when = time.Date(int(v), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return order, when
}

// Tags returns the record's tag values, or nil.
func (c Collection) Tags(rec schema.Record) []string {
	if c.TagField == "" {
		return nil
	}
	items, _ := rec[c.TagField].([]any)
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// Featured reports the record's featured flag.
func Featured(rec schema.Record) bool {
	b, _ := rec["featured"].(bool)
	return b
}

// Draft reports the record's draft flag.
func Draft(rec schema.Record) bool {
	b, _ := rec["draft"].(bool)
	return b
}

// registry is populated once at package initialisation and never mutated.
var (
	registry = []Collection{projects, decisions, journey, writing, uses, speaking, testimonials}
	byName   = func() map[string]Collection {
		m := make(map[string]Collection, len(registry))
		for _, c := range registry {
			if _, dup := m[c.Name]; dup {
				panic("collection declared twice: " + c.Name)
			}
			m[c.Name] = c
		}
		return m
	}()
)

// All returns every collection in declaration order.
func All() []Collection {
	out := make([]Collection, len(registry))
	copy(out, registry)
	return out
}

// Names returns the collection names in declaration order.
func Names() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the collection with the given name.
func Lookup(name string) (Collection, bool) {
	c, ok := byName[name]
	return c, ok
}

// MustLookup returns the collection with the given name.
// Panics if the name is not declared.
func MustLookup(name string) Collection {
	c, ok := Lookup(name)
	if !ok {
		panic("unknown collection: " + name)
	}
	return c
}
