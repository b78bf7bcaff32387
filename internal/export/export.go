// Package export writes the content index as static files.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/feed"
	"github.com/hyperengineering/folio/internal/pages"
	"github.com/hyperengineering/folio/internal/store"
	"github.com/hyperengineering/folio/internal/types"
)

// Output file names.
const (
	ContentFile = "content.json"
	PagesFile   = "pages.json"
	SitemapFile = "sitemap.xml"
	FeedFile    = "feed.xml"
)

const filePerms = 0o644

// Manifest is the layout of content.json: entries grouped by collection.
type Manifest struct {
	LoadID      string                   `json:"load_id,omitempty"`
	Collections map[string][]types.Entry `json:"collections"`
}

// Result lists the files written.
type Result struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

// Write renders entries into dir, replacing each output file atomically.
// Every collection appears in the manifest, empty ones as [].
func Write(dir, loadID string, site feed.Site, entries []types.Entry) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	manifest := Manifest{LoadID: loadID, Collections: make(map[string][]types.Entry)}
	for _, name := range content.Names() {
		manifest.Collections[name] = []types.Entry{}
	}
	for _, e := range entries {
		manifest.Collections[e.Collection] = append(manifest.Collections[e.Collection], e)
	}

	pageList := make([]types.PageResponse, 0, len(pages.All()))
	for _, id := range pages.All() {
		pageList = append(pageList, PageResponse(id))
	}

	var sitemap, rss bytes.Buffer
	if err := feed.WriteSitemap(&sitemap, site, entries); err != nil {
		return nil, fmt.Errorf("render sitemap: %w", err)
	}
	if err := feed.WriteRSS(&rss, site, entries); err != nil {
		return nil, fmt.Errorf("render feed: %w", err)
	}

	contentJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	pagesJSON, err := json.MarshalIndent(pageList, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode pages: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{ContentFile, contentJSON},
		{PagesFile, pagesJSON},
		{SitemapFile, sitemap.Bytes()},
		{FeedFile, rss.Bytes()},
	}
	result := &Result{Dir: dir}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := atomic.WriteFile(path, bytes.NewReader(f.data)); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		// atomic.WriteFile doesn't set permissions for new files
		if err := os.Chmod(path, filePerms); err != nil {
			return nil, fmt.Errorf("set permissions on %s: %w", f.name, err)
		}
		result.Files = append(result.Files, path)
	}
	return result, nil
}

// Exporter writes the current contents of an index.
type Exporter struct {
	store store.Store
	dir   string
	site  feed.Site
}

// NewExporter creates an Exporter that writes s into dir.
func NewExporter(s store.Store, dir string, site feed.Site) *Exporter {
	return &Exporter{store: s, dir: dir, site: site}
}

// Export reads every entry from the index and writes the output files.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	entries, loadID, err := store.Entries(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return Write(e.dir, loadID, e.site, entries)
}

// PageResponse resolves a page's metadata for output, applying the heading
// fallback.
func PageResponse(id pages.ID) types.PageResponse {
	m := pages.Lookup(id)
	return types.PageResponse{
		ID:          id.String(),
		Title:       m.Title,
		Description: m.Description,
		Heading:     m.DisplayHeading(),
		Intro:       m.Intro,
	}
}
