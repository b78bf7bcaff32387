package content

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusCompleted ProjectStatus = "completed"
	StatusOngoing   ProjectStatus = "ongoing"
	StatusArchived  ProjectStatus = "archived"
)

// Project is a case study.
type Project struct {
	Title            string        `json:"title"`
	Role             string        `json:"role"`
	Year             int           `json:"year"`
	Duration         string        `json:"duration,omitempty"`
	TeamSize         *int          `json:"teamSize,omitempty"`
	OutcomeSummary   string        `json:"outcomeSummary"`
	Overview         string        `json:"overview"`
	Problem          string        `json:"problem"`
	Constraints      []string      `json:"constraints"`
	Approach         string        `json:"approach"`
	KeyDecisions     []KeyDecision `json:"keyDecisions"`
	TechStack        []string      `json:"techStack"`
	Impact           Impact        `json:"impact"`
	Learnings        []string      `json:"learnings"`
	Featured         bool          `json:"featured"`
	Status           ProjectStatus `json:"status"`
	Order            *float64      `json:"order,omitempty"`
	RelatedProjects  []string      `json:"relatedProjects,omitempty"`
	RelatedDecisions []string      `json:"relatedDecisions,omitempty"`
}

// KeyDecision is a technical decision taken within a project.
type KeyDecision struct {
	Decision     string   `json:"decision"`
	Reasoning    string   `json:"reasoning"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Impact summarises a project's results.
type Impact struct {
	Metrics     []Metric `json:"metrics,omitempty"`
	Qualitative string   `json:"qualitative"`
}

// Metric is a labelled quantitative result.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Decision is an architectural decision record.
type Decision struct {
	Title            string        `json:"title"`
	Date             time.Time     `json:"date"`
	Context          string        `json:"context"`
	Decision         string        `json:"decision"`
	Alternatives     []Alternative `json:"alternatives"`
	Reasoning        string        `json:"reasoning"`
	Tags             []string      `json:"tags,omitempty"`
	RelatedProjects  []string      `json:"relatedProjects,omitempty"`
	RelatedDecisions []string      `json:"relatedDecisions,omitempty"`
}

// Alternative is an option considered in a decision.
type Alternative struct {
	Option string   `json:"option"`
	Pros   []string `json:"pros,omitempty"`
	Cons   []string `json:"cons,omitempty"`
}

// JourneyType classifies a timeline entry.
type JourneyType string

const (
	JourneyMilestone  JourneyType = "milestone"
	JourneyLearning   JourneyType = "learning"
	JourneyTransition JourneyType = "transition"
)

// JourneyEntry is a point on the career timeline.
type JourneyEntry struct {
	Date        time.Time   `json:"date"`
	Title       string      `json:"title"`
	Type        JourneyType `json:"type"`
	Description string      `json:"description"`
	Skills      []string    `json:"skills,omitempty"`
}

// Post is an article in the writing collection.
type Post struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishDate time.Time  `json:"publishDate"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Draft       bool       `json:"draft"`
}

// UsesCategory groups uses entries.
type UsesCategory string

const (
	UsesTools       UsesCategory = "tools"
	UsesStack       UsesCategory = "stack"
	UsesEnvironment UsesCategory = "environment"
)

// UsesGroup is one category of tools and environment.
type UsesGroup struct {
	Category UsesCategory `json:"category"`
	Items    []UsesItem   `json:"items"`
	Order    float64      `json:"order"`
}

// UsesItem is a single tool or technology.
type UsesItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// TalkType classifies a speaking engagement.
type TalkType string

const (
	TalkConference TalkType = "conference"
	TalkMeetup     TalkType = "meetup"
	TalkPodcast    TalkType = "podcast"
	TalkWorkshop   TalkType = "workshop"
	TalkWebinar    TalkType = "webinar"
)

// Talk is a speaking engagement.
type Talk struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Event       string    `json:"event"`
	EventURL    string    `json:"eventUrl,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Type        TalkType  `json:"type"`
	Slides      string    `json:"slides,omitempty"`
	Video       string    `json:"video,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Featured    bool      `json:"featured"`
}

// Testimonial is an endorsement.
type Testimonial struct {
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Company      string    `json:"company"`
	Relationship string    `json:"relationship"`
	Quote        string    `json:"quote"`
	LinkedIn     string    `json:"linkedin,omitempty"`
	Featured     bool      `json:"featured"`
	Date         time.Time `json:"date"`
}
