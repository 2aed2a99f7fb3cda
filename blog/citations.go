package blog

import "strings"

// placeholderCitations are URL fragments models invent when they have no
// real source to cite.
var placeholderCitations = []string{
	"example.com",
	"research1",
	"research2",
	"research3",
	"source1",
	"source2",
}

// DetectPlaceholderCitations returns the placeholder patterns found in
// markdown, matched case-insensitively.
func DetectPlaceholderCitations(markdown string) []string {
	lower := strings.ToLower(markdown)
	var found []string
	for _, p := range placeholderCitations {
		if strings.Contains(lower, p) {
			found = append(found, p)
		}
	}
	return found
}
