package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/export"
	"github.com/hyperengineering/folio/internal/feed"
	"github.com/hyperengineering/folio/internal/markdown"
	"github.com/hyperengineering/folio/internal/pages"
	"github.com/hyperengineering/folio/internal/store"
	"github.com/hyperengineering/folio/internal/types"
	"github.com/hyperengineering/folio/internal/validation"
)

// maxRecordBytes bounds the body of a validate request.
const maxRecordBytes = 1 << 20

// Reloader rescans the content tree into the index.
// Implemented by loader.Reloader.
type Reloader interface {
	Reload(ctx context.Context) (*types.ReloadResponse, error)
}

// Handler implements the API handlers
type Handler struct {
	store    store.Store
	reloader Reloader
	renderer *markdown.Renderer
	site     feed.Site
	apiKey   string
	version  string
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, rl Reloader, site feed.Site, apiKey, version string) *Handler {
	return &Handler{
		store:    s,
		reloader: rl,
		renderer: markdown.New(),
		site:     site,
		apiKey:   apiKey,
		version:  version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		slog.Error("health check failed", "error", err)
		WriteProblem(w, r, http.StatusServiceUnavailable, "Index unavailable")
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:     "healthy",
		Version:    h.version,
		EntryCount: stats.TotalCount,
		LastLoadID: stats.LastLoadID,
		LastLoadAt: stats.LastLoadAt,
	})
}

// Stats handles GET /api/v1/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListCollections handles GET /api/v1/collections
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		slog.Error("list collections failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	all := content.All()
	infos := make([]types.CollectionInfo, 0, len(all))
	for _, c := range all {
		infos = append(infos, types.CollectionInfo{
			Name:    c.Name,
			Pattern: c.Loader.Pattern,
			Base:    c.Loader.Base,
			Count:   stats.Collections[c.Name],
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

// ListEntries handles GET /api/v1/collections/{collection}/entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	c := MustCollectionFromContext(r.Context())

	featured, err := boolQuery(r, "featured")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	drafts, err := boolQuery(r, "drafts")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.store.List(r.Context(), c.Name, store.ListOptions{
		IncludeDrafts: drafts,
		FeaturedOnly:  featured,
		Tag:           r.URL.Query().Get("tag"),
	})
	if err != nil {
		slog.Error("list entries failed", "error", err, "collection", c.Name)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.ListResponse{
		Collection: c.Name,
		Entries:    entries,
		Total:      len(entries),
	})
}

// GetEntry handles GET /api/v1/collections/{collection}/entries/*
// Slugs may contain slashes. Draft entries are hidden unless ?drafts=true.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	c := MustCollectionFromContext(r.Context())
	slug := chi.URLParam(r, "*")
	if slug == "" {
		WriteProblem(w, r, http.StatusBadRequest, "Slug is required")
		return
	}
	drafts, err := boolQuery(r, "drafts")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.store.Get(r.Context(), c.Name, slug)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	if content.Draft(entry.Data) && !drafts {
		MapStoreError(w, r, store.ErrNotFound)
		return
	}

	html, err := h.renderer.Render(entry.Body)
	if err != nil {
		slog.Error("render failed", "error", err, "collection", c.Name, "slug", slug)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, types.EntryDetail{Entry: *entry, HTML: html})
}

// ValidateRecord handles POST /api/v1/collections/{collection}/validate
// It checks a JSON record against the collection schema without storing it.
func (h *Handler) ValidateRecord(w http.ResponseWriter, r *http.Request) {
	c := MustCollectionFromContext(r.Context())

	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRecordBytes)).Decode(&raw); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if raw == nil {
		WriteProblem(w, r, http.StatusBadRequest, "Record must be a JSON object")
		return
	}

	rec, err := c.Validate(raw)
	if err != nil {
		if errs, ok := validation.AsValidationErrors(err); ok {
			WriteProblemWithErrors(w, r, "Record does not match the "+c.Name+" schema", errs)
			return
		}
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, types.ValidateResponse{Collection: c.Name, Data: rec})
}

// ListPages handles GET /api/v1/pages
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	ids := pages.All()
	resp := make([]types.PageResponse, 0, len(ids))
	for _, id := range ids {
		resp = append(resp, export.PageResponse(id))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPage handles GET /api/v1/pages/{id}
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pages.Parse(chi.URLParam(r, "id"))
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown page")
		return
	}
	writeJSON(w, http.StatusOK, export.PageResponse(id))
}

// Reload handles POST /api/v1/reload
// A load with failures is reported but not applied.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reloader.Reload(r.Context())
	if err != nil {
		slog.Error("reload failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	status := http.StatusOK
	if !resp.Applied {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// Sitemap handles GET /sitemap.xml
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	h.writeXML(w, r, feed.WriteSitemap)
}

// Feed handles GET /feed.xml
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	h.writeXML(w, r, feed.WriteRSS)
}

func (h *Handler) writeXML(w http.ResponseWriter, r *http.Request, render func(io.Writer, feed.Site, []types.Entry) error) {
	entries, _, err := store.Entries(r.Context(), h.store)
	if err != nil {
		slog.Error("read index failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	// Render fully before writing so a failure can still produce a problem.
	var buf bytes.Buffer
	if err := render(&buf, h.site, entries); err != nil {
		slog.Error("render xml failed", "error", err, "path", r.URL.Path)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func boolQuery(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("query parameter %s must be a boolean", name)
	}
	return b, nil
}
