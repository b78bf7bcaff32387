// Package feed builds the sitemap and RSS feed of the site.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"time"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/pages"
	"github.com/hyperengineering/folio/internal/types"
)

// Site describes the published site.
type Site struct {
	URL         string
	Title       string
	Description string
}

// DetailCollections have one page per entry at /<collection>/<slug>/.
var DetailCollections = []string{content.Projects, content.Decisions, content.Writing}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	return u.String()
}

// PageURL returns the URL of a static page.
func PageURL(base string, id pages.ID) string {
	if id == pages.Home {
		return BuildURL(base)
	}
	return BuildURL(base, id.String())
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap listing every static page and the detail
// page of every published entry. Draft entries are skipped.
func WriteSitemap(w io.Writer, site Site, entries []types.Entry) error {
	urls := make([]sitemapURL, 0, len(entries)+len(pages.All()))
	for _, id := range pages.All() {
		urls = append(urls, sitemapURL{Loc: PageURL(site.URL, id)})
	}
	for _, e := range entries {
		if !hasDetailPage(e.Collection) || content.Draft(e.Data) {
			continue
		}
		u := sitemapURL{Loc: BuildURL(site.URL, e.Collection, e.Slug)}
		if t, ok := lastModified(e); ok {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return encode(w, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category,omitempty"`
}

// WriteRSS writes an RSS 2.0 feed of published writing entries, newest
// first. Entries of other collections are ignored.
func WriteRSS(w io.Writer, site Site, entries []types.Entry) error {
	type post struct {
		slug string
		content.Post
	}
	var posts []post
	for _, e := range entries {
		if e.Collection != content.Writing {
			continue
		}
		p, err := content.DecodeAs[content.Post](e.Data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", e.Slug, err)
		}
		if !p.Draft {
			posts = append(posts, post{slug: e.Slug, Post: p})
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishDate.After(posts[j].PublishDate)
	})

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(site.URL, content.Writing, p.slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     p.PublishDate.Format(time.RFC1123Z),
			GUID:        postURL,
			Categories:  p.Tags,
		})
	}
	return encode(w, rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Title,
			Link:        BuildURL(site.URL),
			Description: site.Description,
			Items:       items,
		},
	})
}

func hasDetailPage(collection string) bool {
	for _, c := range DetailCollections {
		if c == collection {
			return true
		}
	}
	return false
}

func lastModified(e types.Entry) (time.Time, bool) {
	for _, field := range []string{"updatedDate", "publishDate", "date"} {
		if t, ok := e.Data[field].(time.Time); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	return nil
}
