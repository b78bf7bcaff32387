package types

import (
	"encoding/json"
	"time"

	"github.com/hyperengineering/folio/internal/schema"
)

// Entry is a validated content document.
type Entry struct {
	Collection string        `json:"collection"`
	Slug       string        `json:"slug"`
	Path       string        `json:"path"`
	Data       schema.Record `json:"data"`
	Body       string        `json:"body,omitempty"`
}

// EntryDetail is an entry with its rendered body.
type EntryDetail struct {
	Entry
	HTML string `json:"html"`
}

// LoadFailure describes a document that could not be loaded.
type LoadFailure struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Error      string `json:"error"`
}

// CollectionInfo summarises a collection for listings.
type CollectionInfo struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Base    string `json:"base"`
	Count   int64  `json:"count"`
}

// ListResponse is the response of a collection listing.
type ListResponse struct {
	Collection string  `json:"collection"`
	Entries    []Entry `json:"entries"`
	Total      int     `json:"total"`
}

// IndexStats holds aggregate index statistics.
type IndexStats struct {
	Collections map[string]int64 `json:"collections"`
	TotalCount  int64            `json:"total_count"`
	LastLoadID  string           `json:"last_load_id,omitempty"`
	LastLoadAt  *time.Time       `json:"last_load_at,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string     `json:"status"`
	Version    string     `json:"version"`
	EntryCount int64      `json:"entry_count"`
	LastLoadID string     `json:"last_load_id,omitempty"`
	LastLoadAt *time.Time `json:"last_load_at,omitempty"`
}

// ReloadResponse reports the outcome of a content rescan.
type ReloadResponse struct {
	LoadID   string        `json:"load_id"`
	Loaded   int           `json:"loaded"`
	Failures []LoadFailure `json:"failures"`
	Applied  bool          `json:"applied"`
}

// PageResponse is a page's metadata with the display heading resolved.
type PageResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Heading     string `json:"heading"`
	Intro       string `json:"intro,omitempty"`
}

// ValidateResponse carries a record that passed its collection's schema,
// with defaults applied and unknown keys removed.
type ValidateResponse struct {
	Collection string        `json:"collection"`
	Data       schema.Record `json:"data"`
}

// MarshalJSON ensures nil slices in ListResponse marshal as [] not null.
func (r ListResponse) MarshalJSON() ([]byte, error) {
	if r.Entries == nil {
		r.Entries = []Entry{}
	}
	type Alias ListResponse
	return json.Marshal(Alias(r))
}

// MarshalJSON ensures nil map in IndexStats marshals as {} not null.
func (s IndexStats) MarshalJSON() ([]byte, error) {
	if s.Collections == nil {
		s.Collections = map[string]int64{}
	}
	type Alias IndexStats
	return json.Marshal(Alias(s))
}

// MarshalJSON ensures nil slices in ReloadResponse marshal as [] not null.
func (r ReloadResponse) MarshalJSON() ([]byte, error) {
	if r.Failures == nil {
		r.Failures = []LoadFailure{}
	}
	type Alias ReloadResponse
	return json.Marshal(Alias(r))
}
