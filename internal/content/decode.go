package content

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/hyperengineering/folio/internal/schema"
)

// Decode converts a validated record into the collection's Go type:
// Project, Decision, JourneyEntry, Post, UsesGroup, Talk or Testimonial.
func (c Collection) Decode(rec schema.Record) (any, error) {
	switch c.Name {
	case Projects:
		return DecodeAs[Project](rec)
	case Decisions:
		return DecodeAs[Decision](rec)
	case Journey:
		return DecodeAs[JourneyEntry](rec)
	case Writing:
		return DecodeAs[Post](rec)
	case Uses:
		return DecodeAs[UsesGroup](rec)
	case Speaking:
		return DecodeAs[Talk](rec)
	case Testimonials:
		return DecodeAs[Testimonial](rec)
	}
	return nil, fmt.Errorf("no decoder for collection %q", c.Name)
}

// DecodeAs decodes a validated record into T using the json field names.
func DecodeAs[T any](rec schema.Record) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(rec)); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}
