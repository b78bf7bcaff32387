package content

import "github.com/hyperengineering/folio/internal/schema"

// Collection names.
const (
	Projects     = "projects"
	Decisions    = "decisions"
	Journey      = "journey"
	Writing      = "writing"
	Uses         = "uses"
	Speaking     = "speaking"
	Testimonials = "testimonials"
)

// Enum literals.
var (
	ProjectStatuses = []string{"completed", "ongoing", "archived"}
	JourneyTypes    = []string{"milestone", "learning", "transition"}
	UsesCategories  = []string{"tools", "stack", "environment"}
	TalkTypes       = []string{"conference", "meetup", "podcast", "workshop", "webinar"}
)

const mdxPattern = "**/*.mdx"

func str(name string) schema.Field {
	return schema.Field{Name: name, Kind: schema.String, Required: true}
}

func optStr(name string) schema.Field {
	return schema.Field{Name: name, Kind: schema.String}
}

func date(name string) schema.Field {
	return schema.Field{Name: name, Kind: schema.Date, Required: true}
}

func optURL(name string) schema.Field {
	return schema.Field{Name: name, Kind: schema.URL}
}

func strs(name string) schema.Field {
	return schema.Field{Name: name, Kind: schema.Array, Required: true, Elem: &schema.Field{Kind: schema.String}}
}

func optStrs(name string) schema.Field {
	f := strs(name)
	f.Required = false
	return f
}

func flag(name string) schema.Field {
	return schema.Field{Name: name, Kind: schema.Bool, Default: false}
}

func enum(name string, values []string) schema.Field {
	return schema.Field{Name: name, Kind: schema.Enum, Required: true, Values: values}
}

func objects(name string, required bool, members ...schema.Field) schema.Field {
	return schema.Field{
		Name:     name,
		Kind:     schema.Array,
		Required: required,
		Elem:     &schema.Field{Kind: schema.Object, Fields: members},
	}
}

func collection(name string, fields ...schema.Field) Collection {
	return Collection{
		Name:   name,
		Loader: Loader{Pattern: mdxPattern, Base: name},
		Schema: schema.Shape{Fields: fields},
	}
}

var projects = func() Collection {
	c := collection(Projects,
		str("title"),
		str("role"),
		schema.Field{Name: "year", Kind: schema.Number, Required: true, Integer: true},
		optStr("duration"),
		schema.Field{Name: "teamSize", Kind: schema.Number, Integer: true},
		str("outcomeSummary"),
		str("overview"),
		str("problem"),
		strs("constraints"),
		str("approach"),
		objects("keyDecisions", true,
			str("decision"),
			str("reasoning"),
			optStrs("alternatives"),
		),
		strs("techStack"),
		schema.Field{Name: "impact", Kind: schema.Object, Required: true, Fields: []schema.Field{
			objects("metrics", false, str("label"), str("value")),
			str("qualitative"),
		}},
		strs("learnings"),
		flag("featured"),
		schema.Field{Name: "status", Kind: schema.Enum, Values: ProjectStatuses, Default: "completed"},
		schema.Field{Name: "order", Kind: schema.Number},
		optStrs("relatedProjects"),
		optStrs("relatedDecisions"),
	)
	c.Ordering = Ordering{Order: "order", Date: "year"}
	c.TagField = "techStack"
	return c
}()

var decisions = func() Collection {
	c := collection(Decisions,
		str("title"),
		date("date"),
		str("context"),
		str("decision"),
		objects("alternatives", true,
			str("option"),
			optStrs("pros"),
			optStrs("cons"),
		),
		str("reasoning"),
		optStrs("tags"),
		optStrs("relatedProjects"),
		optStrs("relatedDecisions"),
	)
	c.Ordering = Ordering{Date: "date"}
	c.TagField = "tags"
	return c
}()

var journey = func() Collection {
	c := collection(Journey,
		date("date"),
		str("title"),
		enum("type", JourneyTypes),
		str("description"),
		optStrs("skills"),
	)
	c.Ordering = Ordering{Date: "date"}
	c.TagField = "skills"
	return c
}()

var writing = func() Collection {
	c := collection(Writing,
		str("title"),
		str("description"),
		date("publishDate"),
		schema.Field{Name: "updatedDate", Kind: schema.Date},
		optStrs("tags"),
		flag("draft"),
	)
	c.Ordering = Ordering{Date: "publishDate"}
	c.TagField = "tags"
	return c
}()

var uses = func() Collection {
	c := collection(Uses,
		enum("category", UsesCategories),
		objects("items", true,
			str("name"),
			str("description"),
			optURL("url"),
		),
		schema.Field{Name: "order", Kind: schema.Number, Required: true},
	)
	c.Ordering = Ordering{Order: "order"}
	return c
}()

var speaking = func() Collection {
	c := collection(Speaking,
		str("title"),
		str("description"),
		str("event"),
		optURL("eventUrl"),
		date("date"),
		str("location"),
		enum("type", TalkTypes),
		optURL("slides"),
		optURL("video"),
		optStr("duration"),
		optStrs("topics"),
		flag("featured"),
	)
	c.Ordering = Ordering{Date: "date"}
	c.TagField = "topics"
	return c
}()

var testimonials = func() Collection {
	c := collection(Testimonials,
		str("name"),
		str("role"),
		str("company"),
		str("relationship"),
		str("quote"),
		optURL("linkedin"),
		flag("featured"),
		date("date"),
	)
	c.Ordering = Ordering{Date: "date"}
	return c
}()
