package blog

import (
	"fmt"
	"strings"
)

// MaxImages and MinImages bound the image plan.
const (
	MinImages = 2
	MaxImages = 3
)

// NormalizeImagePlan enforces the image count bounds. More than MaxImages
// are truncated and the dropped placeholders removed from the markdown.
// Fewer than MinImages are accepted with a warning. An empty markdown
// falls back to merged.
func NormalizeImagePlan(plan GlobalImagePlan, merged string) (GlobalImagePlan, []string) {
	var warnings []string

	if strings.TrimSpace(plan.MarkdownWithPlaceholders) == "" {
		plan.MarkdownWithPlaceholders = merged
	}

	switch n := len(plan.Images); {
	case n == 0:
		warnings = append(warnings, "no images planned; continuing without images")
		plan.MarkdownWithPlaceholders = merged
	case n < MinImages:
		warnings = append(warnings, fmt.Sprintf("only %d image planned; expected %d-%d", n, MinImages, MaxImages))
	case n > MaxImages:
		for _, dropped := range plan.Images[MaxImages:] {
			plan.MarkdownWithPlaceholders = removePlaceholder(plan.MarkdownWithPlaceholders, dropped.Placeholder)
		}
		warnings = append(warnings, fmt.Sprintf("%d images planned; keeping the first %d", n, MaxImages))
		plan.Images = plan.Images[:MaxImages]
	}

	images := make([]ImageSpec, len(plan.Images))
	for i, spec := range plan.Images {
		spec.Normalize()
		images[i] = spec
	}
	plan.Images = images
	return plan, warnings
}

// removePlaceholder deletes a placeholder along with the blank line it
// usually sits on.
func removePlaceholder(markdown, placeholder string) string {
	if placeholder == "" {
		return markdown
	}
	markdown = strings.ReplaceAll(markdown, "\n\n"+placeholder+"\n", "\n")
	return strings.ReplaceAll(markdown, placeholder, "")
}
