package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/event"
	"github.com/spetersoncode/blogsmith/pipeline"
	"github.com/spetersoncode/blogsmith/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// formatEvent renders one progress line, or "" for events not shown.
func formatEvent(e event.Event) string {
	switch e.Type {
	case event.StepEnd:
		return stepStyle.Render("✓ "+e.StepName) + describe(e)
	case event.RouteSelected:
		return mutedStyle.Render("→ route: " + e.RouteName)
	case event.FanOutStart:
		return mutedStyle.Render(fmt.Sprintf("⇉ writing %d sections", e.Branches))
	case event.Warning:
		return warnStyle.Render("⚠ " + e.Message)
	case event.RunError:
		return errorStyle.Render(fmt.Sprintf("✗ run failed (%s)", e.Message))
	default:
		return ""
	}
}

// describe summarizes what a completed step produced.
func describe(e event.Event) string {
	u, ok := e.Delta.(*blog.Update)
	if !ok || u == nil {
		return ""
	}
	var detail string
	switch e.StepName {
	case pipeline.StepRouter:
		if u.Mode != nil {
			detail = fmt.Sprintf("mode=%s queries=%d", *u.Mode, len(u.Queries))
		}
	case pipeline.StepResearch:
		detail = fmt.Sprintf("%d evidence items", len(u.Evidence))
	case pipeline.StepOrchestrator:
		if u.Plan != nil {
			detail = fmt.Sprintf("%q, %d tasks", u.Plan.BlogTitle, len(u.Plan.Tasks))
		}
	case pipeline.StepWorker:
		if len(u.Sections) > 0 {
			detail = fmt.Sprintf("section %d", u.Sections[0].TaskID)
		}
	case pipeline.StepDecideImages:
		detail = fmt.Sprintf("%d images planned", len(u.ImageSpecs))
	case pipeline.StepPlaceImages:
		if u.OutputPath != nil {
			detail = "saved " + *u.OutputPath
		}
	}
	if detail == "" {
		return ""
	}
	return " " + mutedStyle.Render(detail)
}

// summary renders the final box for a completed run.
func summary(e event.Event) string {
	state, ok := e.State.(blog.State)
	if !ok {
		return ""
	}
	lines := []string{okStyle.Render("✓ " + blog.ExtractTitle(state.FinalMarkdown))}
	if state.OutputPath != "" {
		lines = append(lines, "saved to "+state.OutputPath)
	}
	lines = append(lines, fmt.Sprintf("%d sections · %d images · %d evidence items",
		len(state.Sections), len(state.ImageSpecs), len(state.Evidence)))
	if n := len(state.Warnings); n > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d warnings", n)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderPosts renders saved posts as an aligned list.
func renderPosts(posts []store.Post) string {
	if len(posts) == 0 {
		return mutedStyle.Render("no posts yet")
	}
	width := 0
	for _, p := range posts {
		width = max(width, len(p.Name))
	}
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			stepStyle.Render(fmt.Sprintf("%-*s", width, p.Name)),
			p.Title,
			mutedStyle.Render(p.ModTime.Format("2006-01-02 15:04"))))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
