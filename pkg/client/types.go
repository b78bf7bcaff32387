package client

import (
	"time"
)

// Config holds the client configuration
type Config struct {
	BaseURL string        // Folio service URL, e.g. http://localhost:8080
	APIKey  string        // API key for protected endpoints
	Timeout time.Duration // Request timeout (default: 30 seconds)
}

// Entry is a validated content document.
type Entry struct {
	Collection string         `json:"collection"`
	Slug       string         `json:"slug"`
	Path       string         `json:"path"`
	Data       map[string]any `json:"data"`
	Body       string         `json:"body,omitempty"`
}

// EntryDetail is an entry with its rendered body.
type EntryDetail struct {
	Entry
	HTML string `json:"html"`
}

// EntryList is one collection listing.
type EntryList struct {
	Collection string  `json:"collection"`
	Entries    []Entry `json:"entries"`
	Total      int     `json:"total"`
}

// ListParams filters a collection listing.
type ListParams struct {
	Tag      string // Only entries carrying this tag
	Featured bool   // Only featured entries
	Drafts   bool   // Include drafts
}

// Collection summarises a collection.
type Collection struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Base    string `json:"base"`
	Count   int64  `json:"count"`
}

// Page is the resolved metadata of a static page.
type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Heading     string `json:"heading"`
	Intro       string `json:"intro,omitempty"`
}

// Health is the service health status.
type Health struct {
	Status     string     `json:"status"`
	Version    string     `json:"version"`
	EntryCount int64      `json:"entry_count"`
	LastLoadID string     `json:"last_load_id,omitempty"`
	LastLoadAt *time.Time `json:"last_load_at,omitempty"`
}

// LoadFailure describes a document that could not be loaded.
type LoadFailure struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Error      string `json:"error"`
}

// ReloadResult reports the outcome of a content rescan. Applied is false
// when any document failed and the previous index was kept.
type ReloadResult struct {
	LoadID   string        `json:"load_id"`
	Loaded   int           `json:"loaded"`
	Failures []LoadFailure `json:"failures"`
	Applied  bool          `json:"applied"`
}

// Validated is a record as normalised by the collection schema.
type Validated struct {
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
}

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
