// Package sanitize cleans user-supplied text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// maxPasses bounds the sanitize-then-decode loop for nested entity escaping.
const maxPasses = 4

// Text strips all markup from s and trims surrounding space. Entities are
// decoded so plain text round-trips unchanged; decoding repeats through the
// policy until stable, so escaped markup cannot turn into live tags. Input
// still changing after maxPasses is returned in its escaped form.
func Text(s string) string {
	if s == "" {
		return ""
	}
	cur := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(next)
		}
		cur = next
	}
	return strings.TrimSpace(strict.Sanitize(cur))
}

// HTML keeps safe formatting markup (links, emphasis, lists) and removes
// scripts, event handlers and other active content.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Strings applies Text to every element, dropping empties.
func Strings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Text(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
