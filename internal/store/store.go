package store

import (
	"context"
	"time"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/types"
)

// ListOptions filters a collection listing.
type ListOptions struct {
	// IncludeDrafts lists entries whose draft flag is set.
	IncludeDrafts bool

	// FeaturedOnly restricts the listing to featured entries.
	FeaturedOnly bool

	// Tag restricts the listing to entries carrying the tag in the
	// collection's tag field.
	Tag string
}

// Load identifies the content load an index was built from.
type Load struct {
	ID       string
	LoadedAt time.Time
	Failures int
}

// Store defines the interface contract for the content index.
// The index is derived from the content files and rebuilt on every load.
type Store interface {
	Replace(ctx context.Context, load Load, entries []types.Entry) error
	List(ctx context.Context, collection string, opts ListOptions) ([]types.Entry, error)
	Get(ctx context.Context, collection, slug string) (*types.Entry, error)
	Count(ctx context.Context, collection string) (int64, error)
	Stats(ctx context.Context) (*types.IndexStats, error)
	Close() error
}

// Entries returns every indexed entry, drafts included, grouped by
// collection in registry order, together with the current load ID.
func Entries(ctx context.Context, s Store) ([]types.Entry, string, error) {
	var all []types.Entry
	for _, name := range content.Names() {
		entries, err := s.List(ctx, name, ListOptions{IncludeDrafts: true})
		if err != nil {
			return nil, "", err
		}
		all = append(all, entries...)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, "", err
	}
	return all, stats.LastLoadID, nil
}
