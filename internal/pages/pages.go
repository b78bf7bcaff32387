// Package pages holds the SEO metadata of the site's static pages.
package pages

// ID identifies a static page.
type ID uint8

// Static pages. Adding an ID requires matching entries in names and table.
const (
	Home ID = iota
	Projects
	Decisions
	Journey
	Writing
	Speaking
	Uses
	Contact

	pageCount
)

var names = [pageCount]string{
	Home:      "home",
	Projects:  "projects",
	Decisions: "decisions",
	Journey:   "journey",
	Writing:   "writing",
	Speaking:  "speaking",
	Uses:      "uses",
	Contact:   "contact",
}

// PageMeta is the metadata rendered into a page's head and hero.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	// Heading is the displayed h1. Empty means the consumer shows Title.
	Heading string `json:"heading,omitempty"`

	// Intro is shown below the heading when set.
	Intro string `json:"intro,omitempty"`
}

// DisplayHeading returns Heading, falling back to Title.
func (m PageMeta) DisplayHeading() string {
	if m.Heading != "" {
		return m.Heading
	}
	return m.Title
}

var table = [...]PageMeta{
	Home: {
		Title:       "Home",
		Description: "Engineering leader specializing in system architecture, technical decision-making, and delivering measurable business impact.",
	},
	Projects: {
		Title:       "Projects - Case Studies",
		Description: "Detailed case studies showcasing problem-solving approach, technical decisions, and measurable impact across various engineering projects.",
		Heading:     "Projects",
		Intro:       "Case studies that demonstrate how I approach complex problems, make technical decisions, and deliver measurable impact. Each project tells the story of the challenge, the constraints, the decisions made, and the outcomes achieved.",
	},
	Decisions: {
		Title:       "Decisions - Architectural & Technical Choices",
		Description: "A log of architectural and technical decisions, documenting the context, alternatives considered, and reasoning behind key engineering choices.",
		Heading:     "Decisions",
		Intro:       "A transparent log of architectural and technical decisions I've made throughout my career. Each entry documents the context, alternatives considered, and the reasoning behind the choice.",
	},
	Journey: {
		Title:       "Journey - Career Growth & Learning Timeline",
		Description: "A chronological timeline of my professional journey, highlighting key milestones, learning moments, and career transitions that shaped my growth as an engineer.",
		Heading:     "Journey",
		Intro:       "A timeline of my professional growth and learning progression. This isn't a resume—it's a story of how I've evolved as an engineer, the pivotal moments that shaped my thinking, and the skills I've developed along the way.",
	},
	Writing: {
		Title:       "Writing - Technical Articles & Insights",
		Description: "Technical articles, insights, and lessons learned from building software systems and solving engineering challenges.",
		Heading:     "Writing",
		Intro:       "Technical articles, insights, and lessons learned from building software systems. I write about architecture decisions, engineering practices, and the challenges of delivering reliable software at scale.",
	},
	Speaking: {
		Title:       "Speaking - Talks & Presentations",
		Description: "Conference talks, meetup presentations, podcast appearances, and workshops on software engineering, architecture, and technical leadership.",
		Heading:     "Speaking",
		Intro:       "I regularly speak at conferences, meetups, and on podcasts about software architecture, engineering practices, and technical leadership. Here's a collection of my talks and presentations.",
	},
	Uses: {
		Title:       "Uses - Tools, Stack & Environment",
		Description: "A comprehensive list of the tools, technologies, and environment I use for development work.",
		Heading:     "Uses",
		Intro:       "A transparent look at the tools, technologies, and environment that power my development workflow. This page documents what I use and why, helping other engineers discover useful tools and understand my technical context.",
	},
	Contact: {
		Title:       "Contact - Get in Touch",
		Description: "Get in touch to discuss opportunities, collaborations, or technical challenges.",
		Heading:     "Let's Talk",
	},
}

// The table must have exactly one entry per ID.
var (
	_ [int(pageCount) - len(table)]struct{}
	_ [len(table) - int(pageCount)]struct{}
)

// String returns the page's identifier, e.g. "projects".
func (id ID) String() string {
	if id >= pageCount {
		return "unknown"
	}
	return names[id]
}

// Valid reports whether id is a declared page.
func (id ID) Valid() bool {
	return id < pageCount
}

// Parse maps an identifier such as "projects" to its ID.
func Parse(s string) (ID, bool) {
	for id, name := range names {
		if name == s {
			return ID(id), true
		}
	}
	return 0, false
}

// Lookup returns the metadata of a declared page.
// Panics if id is not a declared page.
func Lookup(id ID) PageMeta {
	if !id.Valid() {
		panic("pages: unknown page id")
	}
	return table[id]
}

// All returns every page ID in declaration order.
func All() []ID {
	ids := make([]ID, pageCount)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}
