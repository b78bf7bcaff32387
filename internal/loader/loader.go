// Package loader discovers content documents on disk, splits their
// front-matter from the body and validates them against their collection.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/types"
)

// ErrDuplicateSlug indicates two documents of one collection share a slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Failure is a document that could not be loaded.
type Failure struct {
	Collection string
	Path       string
	Err        error
}

// Error implements the error interface.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error {
	return f.Err
}

// Report is the outcome of loading every collection.
type Report struct {
	ID       string
	LoadedAt time.Time
	Entries  []types.Entry
	Failures []Failure
}

// OK reports whether every document loaded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Err joins all failures, or returns nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// LoadFailures converts failures for API and CLI output.
func (r *Report) LoadFailures() []types.LoadFailure {
	out := make([]types.LoadFailure, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = types.LoadFailure{Collection: f.Collection, Path: f.Path, Error: f.Err.Error()}
	}
	return out
}

// Loader reads collections from a content root directory.
type Loader struct {
	root string
}

// New creates a loader over root. Each collection is read from
// root/<collection base>.
func New(root string) *Loader {
	return &Loader{root: root}
}

// Root returns the content root directory.
func (l *Loader) Root() string {
	return l.root
}

// Load reads and validates every document of one collection.
// A missing base directory yields an empty collection.
func (l *Loader) Load(ctx context.Context, c content.Collection) ([]types.Entry, []Failure, error) {
	base := filepath.Join(l.root, filepath.FromSlash(c.Loader.Base))

	var (
		entries  []types.Entry
		failures []Failure
		seen     = make(map[string]string)
	)
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if p == base && errors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ok, err := Match(c.Loader.Pattern, rel)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", c.Loader.Pattern, err)
		}
		if !ok {
			return nil
		}

		docPath := filepath.ToSlash(filepath.Join(c.Loader.Base, rel))
		entry, err := l.readEntry(c, p, rel)
		if err != nil {
			failures = append(failures, Failure{Collection: c.Name, Path: docPath, Err: err})
			return nil
		}
		entry.Path = docPath
		if prev, dup := seen[entry.Slug]; dup {
			failures = append(failures, Failure{
				Collection: c.Name,
				Path:       docPath,
				Err:        fmt.Errorf("%w %q: also used by %s", ErrDuplicateSlug, entry.Slug, prev),
			})
			return nil
		}
		seen[entry.Slug] = docPath
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", c.Name, err)
	}
	return entries, failures, nil
}

// LoadAll loads every registered collection into one report.
func (l *Loader) LoadAll(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:       ulid.Make().String(),
		LoadedAt: time.Now().UTC(),
	}
	for _, c := range content.All() {
		entries, failures, err := l.Load(ctx, c)
		if err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, entries...)
		report.Failures = append(report.Failures, failures...)
		slog.Debug("collection loaded",
			"component", "loader",
			"collection", c.Name,
			"entries", len(entries),
			"failures", len(failures),
		)
	}
	sort.SliceStable(report.Failures, func(i, j int) bool {
		return report.Failures[i].Path < report.Failures[j].Path
	})
	return report, nil
}

func (l *Loader) readEntry(c content.Collection, file, rel string) (types.Entry, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return types.Entry{}, fmt.Errorf("read: %w", err)
	}
	fm, body, err := ParseDocument(raw)
	if err != nil {
		return types.Entry{}, err
	}
	slug := SlugFromPath(rel)
	if s, ok := fm["slug"].(string); ok && s != "" {
		slug = s
	}
	if slug == "" {
		return types.Entry{}, fmt.Errorf("cannot derive slug from %q", rel)
	}
	rec, err := c.Validate(fm)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		Collection: c.Name,
		Slug:       slug,
		Data:       rec,
		Body:       string(body),
	}, nil
}

// ParseDocument splits a document into its YAML front-matter and body.
// A document without front-matter has an empty field mapping.
func ParseDocument(raw []byte) (map[string]any, []byte, error) {
	fm := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm, yamlFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("parse front-matter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, bytes.TrimLeft(body, "\r\n"), nil
}
