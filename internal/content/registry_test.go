package content

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hyperengineering/folio/internal/schema"
	"github.com/hyperengineering/folio/internal/validation"
)

var day = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

// fullRecords returns a fully populated, already-normalised record per
// collection, so that validation must return it unchanged.
func fullRecords() map[string]map[string]any {
	return map[string]map[string]any{
		Projects: {
			"title":          "Payments Platform",
			"role":           "Tech Lead",
			"year":           float64(2023),
			"duration":       "9 months",
			"teamSize":       float64(6),
			"outcomeSummary": "Cut settlement time in half",
			"overview":       "Rebuilt settlement.",
			"problem":        "Batch jobs were slow.",
			"constraints":    []any{"No downtime", "PCI scope"},
			"approach":       "Event-driven pipeline.",
			"keyDecisions": []any{
				map[string]any{"decision": "Use Kafka", "reasoning": "Replay", "alternatives": []any{"SQS"}},
			},
			"techStack": []any{"Go", "Kafka"},
			"impact": map[string]any{
				"metrics":     []any{map[string]any{"label": "Latency", "value": "-50%"}},
				"qualitative": "Happier finance team",
			},
			"learnings":        []any{"Measure first"},
			"featured":         true,
			"status":           "ongoing",
			"order":            float64(1),
			"relatedProjects":  []any{"ledger"},
			"relatedDecisions": []any{"use-kafka"},
		},
		Decisions: {
			"title":    "Use Kafka",
			"date":     day,
			"context":  "Need replay",
			"decision": "Kafka",
			"alternatives": []any{
				map[string]any{"option": "SQS", "pros": []any{"Managed"}, "cons": []any{"No replay"}},
			},
			"reasoning":        "Replay matters",
			"tags":             []any{"messaging"},
			"relatedProjects":  []any{"payments-platform"},
			"relatedDecisions": []any{},
		},
		Journey: {
			"date":        day,
			"title":       "First staff role",
			"type":        "milestone",
			"description": "Promoted.",
			"skills":      []any{"Leadership"},
		},
		Writing: {
			"title":       "On Queues",
			"description": "Why queues.",
			"publishDate": day,
			"updatedDate": day.AddDate(0, 1, 0),
			"tags":        []any{"go"},
			"draft":       true,
		},
		Uses: {
			"category": "tools",
			"items": []any{
				map[string]any{"name": "Neovim", "description": "Editor", "url": "https://neovim.io"},
			},
			"order": float64(2),
		},
		Speaking: {
			"title":       "Queues in Practice",
			"description": "A talk.",
			"event":       "GopherCon",
			"eventUrl":    "https://gophercon.com",
			"date":        day,
			"location":    "Online",
			"type":        "conference",
			"slides":      "https://example.com/slides",
			"video":       "https://example.com/video",
			"duration":    "45 min",
			"topics":      []any{"queues"},
			"featured":    true,
		},
		Testimonials: {
			"name":         "Sam Doe",
			"role":         "CTO",
			"company":      "Acme",
			"relationship": "Worked together at Acme",
			"quote":        "Great engineer.",
			"linkedin":     "https://www.linkedin.com/in/samdoe/",
			"featured":     true,
			"date":         day,
		},
	}
}

func cloneRaw(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestRegistry_Names(t *testing.T) {
	want := []string{"projects", "decisions", "journey", "writing", "uses", "speaking", "testimonials"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_LoaderPatterns(t *testing.T) {
	for _, c := range All() {
		if c.Loader.Pattern != "**/*.mdx" {
			t.Errorf("%s pattern = %q", c.Name, c.Loader.Pattern)
		}
		if c.Loader.Base != c.Name {
			t.Errorf("%s base = %q", c.Name, c.Loader.Base)
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("projects"); !ok {
		t.Error("Lookup(projects) ok = false")
	}
	if _, ok := Lookup("Projects"); ok {
		t.Error("Lookup(Projects) ok = true, names are case-sensitive")
	}
}

func TestMustLookup_PanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup(unknown) did not panic")
		}
	}()
	MustLookup("unknown")
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	if Names()[0] != Projects {
		t.Error("mutating All() result changed the registry")
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	for name, raw := range fullRecords() {
		t.Run(name, func(t *testing.T) {
			rec, err := MustLookup(name).Validate(cloneRaw(raw))
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if diff := cmp.Diff(schema.Record(raw), rec); diff != "" {
				t.Errorf("Validate() changed the record (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	for name, raw := range fullRecords() {
		c := MustLookup(name)
		for _, f := range c.Schema.Fields {
			if f.Optional() {
				continue
			}
			t.Run(name+"/"+f.Name, func(t *testing.T) {
				in := cloneRaw(raw)
				delete(in, f.Name)

				_, err := c.Validate(in)
				if !errors.Is(err, validation.ErrValidationFailed) {
					t.Fatalf("Validate() error = %v, want ErrValidationFailed", err)
				}
				fieldErrs, _ := validation.AsValidationErrors(err)
				if len(fieldErrs) != 1 || fieldErrs[0].Field != f.Name {
					t.Errorf("field errors = %v, want one naming %s", fieldErrs, f.Name)
				}
			})
		}
	}
}

func TestValidate_Defaults(t *testing.T) {
	tests := []struct {
		collection string
		field      string
		want       any
	}{
		{Projects, "featured", false},
		{Projects, "status", "completed"},
		{Writing, "draft", false},
		{Speaking, "featured", false},
		{Testimonials, "featured", false},
	}
	for _, tt := range tests {
		t.Run(tt.collection+"/"+tt.field, func(t *testing.T) {
			raw := cloneRaw(fullRecords()[tt.collection])
			explicit := raw[tt.field]
			delete(raw, tt.field)

			c := MustLookup(tt.collection)
			rec, err := c.Validate(raw)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if rec[tt.field] != tt.want {
				t.Errorf("%s = %v, want default %v", tt.field, rec[tt.field], tt.want)
			}

			raw[tt.field] = explicit
			rec, err = c.Validate(raw)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if rec[tt.field] != explicit {
				t.Errorf("%s = %v, want explicit %v", tt.field, rec[tt.field], explicit)
			}
		})
	}
}

func TestValidate_Enums(t *testing.T) {
	tests := []struct {
		collection string
		field      string
		values     []string
	}{
		{Projects, "status", ProjectStatuses},
		{Journey, "type", JourneyTypes},
		{Uses, "category", UsesCategories},
		{Speaking, "type", TalkTypes},
	}
	for _, tt := range tests {
		c := MustLookup(tt.collection)
		for _, v := range tt.values {
			raw := cloneRaw(fullRecords()[tt.collection])
			raw[tt.field] = v
			if _, err := c.Validate(raw); err != nil {
				t.Errorf("%s.%s=%q: Validate() error = %v", tt.collection, tt.field, v, err)
			}
		}

		raw := cloneRaw(fullRecords()[tt.collection])
		raw[tt.field] = "invented"
		_, err := c.Validate(raw)
		fieldErrs, ok := validation.AsValidationErrors(err)
		if !ok || len(fieldErrs) != 1 || fieldErrs[0].Field != tt.field {
			t.Errorf("%s.%s=invented: errors = %v, want one naming %s", tt.collection, tt.field, fieldErrs, tt.field)
		}
	}
}

func TestValidate_DateInputsEquivalent(t *testing.T) {
	c := MustLookup(Journey)
	inputs := []any{"2024-03-09", "2024-03-09T00:00:00Z", day, day.UnixMilli()}
	for _, in := range inputs {
		raw := cloneRaw(fullRecords()[Journey])
		raw["date"] = in
		rec, err := c.Validate(raw)
		if err != nil {
			t.Fatalf("date=%v: Validate() error = %v", in, err)
		}
		if got := rec["date"].(time.Time); !got.Equal(day) {
			t.Errorf("date=%v: got %v, want %v", in, got, day)
		}
	}
}

func TestValidate_URLFields(t *testing.T) {
	tests := []struct {
		collection string
		field      string
	}{
		{Speaking, "eventUrl"},
		{Speaking, "slides"},
		{Speaking, "video"},
		{Testimonials, "linkedin"},
	}
	for _, tt := range tests {
		c := MustLookup(tt.collection)

		raw := cloneRaw(fullRecords()[tt.collection])
		raw[tt.field] = "https://example.com"
		if _, err := c.Validate(raw); err != nil {
			t.Errorf("%s.%s: valid URL rejected: %v", tt.collection, tt.field, err)
		}

		raw[tt.field] = "not a url"
		_, err := c.Validate(raw)
		fieldErrs, _ := validation.AsValidationErrors(err)
		if len(fieldErrs) != 1 || fieldErrs[0].Field != tt.field {
			t.Errorf("%s.%s: errors = %v, want one naming %s", tt.collection, tt.field, fieldErrs, tt.field)
		}
	}
}

func TestValidate_UsesItemURL(t *testing.T) {
	raw := cloneRaw(fullRecords()[Uses])
	raw["items"] = []any{map[string]any{"name": "x", "description": "y", "url": "not a url"}}

	_, err := MustLookup(Uses).Validate(raw)
	fieldErrs, _ := validation.AsValidationErrors(err)
	if len(fieldErrs) != 1 || fieldErrs[0].Field != "items[0].url" {
		t.Errorf("errors = %v, want items[0].url", fieldErrs)
	}
}

func TestValidate_KeyDecisionWithoutAlternatives(t *testing.T) {
	raw := cloneRaw(fullRecords()[Projects])
	raw["keyDecisions"] = []any{map[string]any{"decision": "Use X", "reasoning": "Because Y"}}

	rec, err := MustLookup(Projects).Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	kd := rec["keyDecisions"].([]any)[0].(map[string]any)
	if _, ok := kd["alternatives"]; ok {
		t.Errorf("alternatives present: %v", kd["alternatives"])
	}
}

func TestValidate_WritingDraftDefault(t *testing.T) {
	rec, err := MustLookup(Writing).Validate(map[string]any{
		"title":       "Hello",
		"description": "First post",
		"publishDate": "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec["draft"] != false {
		t.Errorf("draft = %v, want false", rec["draft"])
	}
}

func TestValidate_ProjectYearMustBeWhole(t *testing.T) {
	raw := cloneRaw(fullRecords()[Projects])
	raw["year"] = 2023.5

	_, err := MustLookup(Projects).Validate(raw)
	fieldErrs, _ := validation.AsValidationErrors(err)
	if len(fieldErrs) != 1 || fieldErrs[0].Field != "year" {
		t.Errorf("errors = %v, want year", fieldErrs)
	}
}

func TestValidate_RelatedSlugsAreFreeForm(t *testing.T) {
	raw := cloneRaw(fullRecords()[Projects])
	raw["relatedProjects"] = []any{"does-not-exist"}
	if _, err := MustLookup(Projects).Validate(raw); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestSortKey(t *testing.T) {
	rec, err := MustLookup(Projects).Validate(fullRecords()[Projects])
	if err != nil {
		t.Fatal(err)
	}
	order, when := MustLookup(Projects).SortKey(rec)
	if order == nil || *order != 1 {
		t.Errorf("order = %v, want 1", order)
	}
	if when.Year() != 2023 {
		t.Errorf("when = %v, want 2023", when)
	}

	_, when = MustLookup(Writing).SortKey(schema.Record{"publishDate": day})
	if !when.Equal(day) {
		t.Errorf("writing when = %v, want %v", when, day)
	}
}

func TestTags(t *testing.T) {
	got := MustLookup(Projects).Tags(schema.Record{"techStack": []any{"Go", "Kafka"}})
	if diff := cmp.Diff([]string{"Go", "Kafka"}, got); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
	if got := MustLookup(Testimonials).Tags(schema.Record{}); got != nil {
		t.Errorf("Tags() = %v, want nil", got)
	}
}
