package blog

import (
	"regexp"
	"strings"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9 _-]+`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slug converts a title to a file-name-safe slug. It never returns an
// empty string; titles with no usable characters become "blog".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "blog"
	}
	return s
}
