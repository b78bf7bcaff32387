package loader

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Slugify converts a string to a URL-friendly slug. Letters and digits of
// any script are kept; every other run of characters becomes one "-".
func Slugify(s string) string {
	s = lower.String(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r):
			b.WriteRune(r)
			prev = false
		case unicode.Is(unicode.Mn, r) && b.Len() > 0 && !prev:
			// combining marks stay attached to their base letter
			b.WriteRune(r)
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugFromPath derives an entry slug from a slash-separated path relative to
// the collection base: the extension is dropped, "index" documents take their
// directory's name and every segment is slugified.
//
//	"Hello World.mdx"        -> "hello-world"
//	"2024/launch/index.mdx"  -> "2024/launch"
func SlugFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segments := strings.Split(rel, "/")
	if len(segments) > 1 && strings.EqualFold(segments[len(segments)-1], "index") {
		segments = segments[:len(segments)-1]
	}
	out := segments[:0]
	for _, seg := range segments {
		if s := Slugify(seg); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
