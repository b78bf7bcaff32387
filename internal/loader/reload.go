package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hyperengineering/folio/internal/store"
	"github.com/hyperengineering/folio/internal/types"
)

// Reloader rescans the content tree and swaps the result into an index.
// Reloads are serialised. A load with any failure leaves the previous index
// in place.
type Reloader struct {
	mu     sync.Mutex
	loader *Loader
	store  store.Store
}

// NewReloader creates a Reloader that loads with l and writes to s.
func NewReloader(l *Loader, s store.Store) *Reloader {
	return &Reloader{loader: l, store: s}
}

// Reload loads every collection and applies the result if it is clean.
func (r *Reloader) Reload(ctx context.Context) (*types.ReloadResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, err := r.loader.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	resp := &types.ReloadResponse{
		LoadID:   report.ID,
		Loaded:   len(report.Entries),
		Failures: report.LoadFailures(),
	}

	if !report.OK() {
		for _, f := range report.Failures {
			slog.Warn("content document rejected",
				"component", "loader",
				"load_id", report.ID,
				"collection", f.Collection,
				"path", f.Path,
				"error", f.Err,
			)
		}
		slog.Warn("content reload not applied",
			"component", "loader",
			"action", "reload_rejected",
			"load_id", report.ID,
			"failures", len(report.Failures),
		)
		return resp, nil
	}

	load := store.Load{ID: report.ID, LoadedAt: report.LoadedAt}
	if err := r.store.Replace(ctx, load, report.Entries); err != nil {
		return nil, fmt.Errorf("replace index: %w", err)
	}
	resp.Applied = true

	slog.Info("content reloaded",
		"component", "loader",
		"action", "reload_applied",
		"load_id", report.ID,
		"entries", len(report.Entries),
	)
	return resp, nil
}
