package blog

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for as-of dates and publish dates.
const DateLayout = "2006-01-02"

// DedupeByURL keeps one item per URL, dropping items without one. When URLs
// repeat, the last occurrence wins and takes the position of the first.
func DedupeByURL(items []EvidenceItem) []EvidenceItem {
	index := make(map[string]int, len(items))
	out := make([]EvidenceItem, 0, len(items))
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		if i, ok := index[item.URL]; ok {
			out[i] = item
			continue
		}
		index[item.URL] = len(out)
		out = append(out, item)
	}
	return out
}

// ParseDate parses the date prefix (first ten characters) of an ISO
// timestamp.
func ParseDate(s string) (time.Time, bool) {
	if len(s) < len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FilterRecent keeps items published on or after asOf minus recencyDays.
// Items with a missing or unparseable date are dropped.
func FilterRecent(items []EvidenceItem, asOf time.Time, recencyDays int) []EvidenceItem {
	cutoff := asOf.AddDate(0, 0, -recencyDays)
	out := make([]EvidenceItem, 0, len(items))
	for _, item := range items {
		d, ok := ParseDate(item.PublishedAt)
		if !ok || d.Before(cutoff) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FormatEvidence renders at most limit items as "- title | url | date" lines.
func FormatEvidence(items []EvidenceItem, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	var b strings.Builder
	for i, e := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		date := e.PublishedAt
		if date == "" {
			date = "date:unknown"
		}
		fmt.Fprintf(&b, "- %s | %s | %s", e.Title, e.URL, date)
	}
	return b.String()
}
