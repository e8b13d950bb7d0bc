// Package htmlsanitize strips markup from free text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML tags and returns plain text. Entities produced by
// the policy are unescaped so "Tef & Maize" round-trips unchanged.
func Strip(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
