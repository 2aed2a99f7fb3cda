package blog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMissingPlan is returned when sections are merged before a plan exists.
var ErrMissingPlan = errors.New("blog: merge requires a plan")

// Merge orders sections by task ID and joins them under the plan title.
// The result is independent of the order sections were contributed in.
func Merge(plan *Plan, sections []Section) (string, error) {
	if plan == nil {
		return "", ErrMissingPlan
	}

	ordered := slices.Clone(sections)
	slices.SortStableFunc(ordered, func(a, b Section) int {
		return a.TaskID - b.TaskID
	})

	parts := make([]string, len(ordered))
	for i, s := range ordered {
		parts[i] = s.Markdown
	}
	body := strings.TrimSpace(strings.Join(parts, "\n\n"))
	return fmt.Sprintf("# %s\n\n%s\n", plan.BlogTitle, body), nil
}
