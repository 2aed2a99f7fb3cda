package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/imagegen"
	"github.com/spetersoncode/blogsmith/workflow"
)

// Evidence limits for prompts.
const (
	plannerEvidenceLimit = 16
	workerEvidenceLimit  = 20
)

type delta = workflow.Delta[blog.State]

// WorkerInput is one worker's private copy of everything it needs.
type WorkerInput struct {
	Task        blog.Task
	Topic       string
	Mode        blog.Mode
	AsOf        string
	RecencyDays int
	Plan        blog.Plan
	Evidence    []blog.EvidenceItem
}

func (p *Pipeline) route(ctx context.Context, s blog.State) (delta, error) {
	var d blog.RouterDecision
	user := fmt.Sprintf("Topic: %s\nAs-of date: %s", s.Topic, s.AsOf)
	if err := p.llm.GenerateStructured(ctx, routerSystem, user, blog.RouterDecisionSchema, &d); err != nil {
		return nil, err
	}
	d.Normalize()

	p.logger.Info("route decided",
		"needs_research", d.NeedsResearch, "mode", d.Mode, "queries", len(d.Queries), "reason", d.Reason)

	queries := d.Queries
	if queries == nil {
		queries = []string{}
	}
	return &blog.Update{
		NeedsResearch: blog.Ptr(d.NeedsResearch),
		Mode:          blog.Ptr(d.Mode),
		Queries:       queries,
		RecencyDays:   blog.Ptr(d.Mode.RecencyDays()),
	}, nil
}

func (p *Pipeline) research(ctx context.Context, s blog.State) (delta, error) {
	if p.gatherer == nil {
		return &blog.Update{Evidence: []blog.EvidenceItem{}}, nil
	}
	evidence, warnings, err := p.gatherer.GatherEvidence(ctx, s.Queries, s.AsOf, s.RecencyDays, s.Mode)
	if err != nil {
		return nil, err
	}
	if evidence == nil {
		evidence = []blog.EvidenceItem{}
	}
	p.logger.Info("evidence gathered", "items", len(evidence))
	return &blog.Update{Evidence: evidence, Warnings: warnings}, nil
}

func (p *Pipeline) orchestrate(ctx context.Context, s blog.State) (delta, error) {
	evidence, err := json.Marshal(limit(s.Evidence, plannerEvidenceLimit))
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", s.Topic)
	fmt.Fprintf(&b, "Mode: %s\n", s.Mode)
	fmt.Fprintf(&b, "As-of: %s (recency_days=%d)\n", s.AsOf, s.RecencyDays)
	if s.Mode == blog.ModeOpenBook {
		b.WriteString("Force blog_kind=news_roundup\n")
	}
	fmt.Fprintf(&b, "\nEvidence:\n%s", evidence)

	var plan blog.Plan
	if err := p.llm.GenerateStructured(ctx, plannerSystem, b.String(), blog.PlanSchema, &plan); err != nil {
		return nil, err
	}
	plan.Normalize()
	if s.Mode == blog.ModeOpenBook {
		plan.BlogKind = blog.KindNewsRoundup
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	p.logger.Info("plan ready", "title", plan.BlogTitle, "kind", plan.BlogKind, "tasks", len(plan.Tasks))
	return &blog.Update{Plan: &plan}, nil
}

// fanout emits one input per planned task. Without a plan it emits
// nothing and the merge stage reports the missing plan.
func fanout(s blog.State) []WorkerInput {
	if s.Plan == nil {
		return nil
	}
	inputs := make([]WorkerInput, 0, len(s.Plan.Tasks))
	for _, task := range s.Plan.Tasks {
		inputs = append(inputs, WorkerInput{
			Task:        task,
			Topic:       s.Topic,
			Mode:        s.Mode,
			AsOf:        s.AsOf,
			RecencyDays: s.RecencyDays,
			Plan:        *s.Plan,
			Evidence:    append([]blog.EvidenceItem(nil), s.Evidence...),
		})
	}
	return inputs
}

func (p *Pipeline) work(ctx context.Context, in WorkerInput) (delta, error) {
	md, err := p.llm.GenerateText(ctx, workerSystem, workerPrompt(in))
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", in.Task.ID, err)
	}

	u := &blog.Update{Sections: []blog.Section{{TaskID: in.Task.ID, Markdown: md}}}
	if found := blog.DetectPlaceholderCitations(md); len(found) > 0 {
		p.logger.Warn("section may cite placeholder URLs",
			"task_id", in.Task.ID, "title", in.Task.Title, "patterns", found)
		u.Warnings = []string{fmt.Sprintf("section %q may contain placeholder citations: %s",
			in.Task.Title, strings.Join(found, ", "))}
	}
	return u, nil
}

func workerPrompt(in WorkerInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Blog title: %s\n", in.Plan.BlogTitle)
	fmt.Fprintf(&b, "Audience: %s\n", in.Plan.Audience)
	fmt.Fprintf(&b, "Tone: %s\n", in.Plan.Tone)
	fmt.Fprintf(&b, "Blog kind: %s\n", in.Plan.BlogKind)
	fmt.Fprintf(&b, "Constraints: %s\n", strings.Join(in.Plan.Constraints, "; "))
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Mode: %s\n", in.Mode)
	fmt.Fprintf(&b, "As-of: %s (recency_days=%d)\n\n", in.AsOf, in.RecencyDays)

	t := in.Task
	fmt.Fprintf(&b, "Section title: %s\n", t.Title)
	fmt.Fprintf(&b, "Goal: %s\n", t.Goal)
	fmt.Fprintf(&b, "Target words: %d\n", t.TargetWords)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(t.Tags, ", "))
	fmt.Fprintf(&b, "requires_research: %t\n", t.RequiresResearch)
	fmt.Fprintf(&b, "requires_citations: %t\n", t.RequiresCitations)
	fmt.Fprintf(&b, "requires_code: %t\n", t.RequiresCode)
	b.WriteString("Bullets:\n")
	for _, bullet := range t.Bullets {
		fmt.Fprintf(&b, "- %s\n", bullet)
	}
	fmt.Fprintf(&b, "\nEvidence (ONLY cite these URLs):\n%s\n", blog.FormatEvidence(in.Evidence, workerEvidenceLimit))
	return b.String()
}

func mergeContent(_ context.Context, s blog.State) (delta, error) {
	merged, err := blog.Merge(s.Plan, s.Sections)
	if err != nil {
		return nil, err
	}
	return &blog.Update{MergedMarkdown: &merged}, nil
}

func (p *Pipeline) decideImages(ctx context.Context, s blog.State) (delta, error) {
	if s.Plan == nil {
		return nil, blog.ErrMissingPlan
	}
	user := fmt.Sprintf("Blog kind: %s\nTopic: %s\nBlog title: %s\n\n"+
		"Insert 2-3 image placeholders at strategic locations and keep all original content.\n\n"+
		"Blog content:\n\n%s",
		s.Plan.BlogKind, s.Topic, s.Plan.BlogTitle, s.MergedMarkdown)

	var plan blog.GlobalImagePlan
	if err := p.llm.GenerateStructured(ctx, decideImagesSystem, user, blog.GlobalImagePlanSchema, &plan); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The post is complete without images; publish it unillustrated.
		p.logger.Warn("image planning failed", "error", err)
		merged := s.MergedMarkdown
		return &blog.Update{
			MarkdownWithPlaceholders: &merged,
			ImageSpecs:               []blog.ImageSpec{},
			Warnings:                 []string{fmt.Sprintf("image planning failed: %v", err)},
		}, nil
	}

	plan, warnings := blog.NormalizeImagePlan(plan, s.MergedMarkdown)
	for _, w := range warnings {
		p.logger.Warn("image plan adjusted", "detail", w)
	}
	p.logger.Info("images planned", "count", len(plan.Images))

	specs := plan.Images
	if specs == nil {
		specs = []blog.ImageSpec{}
	}
	return &blog.Update{
		MarkdownWithPlaceholders: &plan.MarkdownWithPlaceholders,
		ImageSpecs:               specs,
		Warnings:                 warnings,
	}, nil
}

func (p *Pipeline) placeImages(ctx context.Context, s blog.State) (delta, error) {
	if s.Plan == nil {
		return nil, blog.ErrMissingPlan
	}

	md := s.MarkdownWithPlaceholders
	if md == "" {
		md = s.MergedMarkdown
	}

	var warnings []string
	if len(s.ImageSpecs) > 0 {
		placed, err := p.applyImages(ctx, md, s.ImageSpecs)
		switch {
		case err == nil:
			md = placed
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			p.logger.Warn("image generation failed", "error", err)
			warnings = append(warnings, fmt.Sprintf("image generation failed: %v", err))
			md = imagegen.FailureBanner + md
		}
	}

	u := &blog.Update{FinalMarkdown: &md, Warnings: warnings}
	if p.store != nil {
		path, err := p.store.Save(ctx, blog.Slug(s.Plan.BlogTitle), md)
		if err != nil {
			return nil, fmt.Errorf("save post: %w", err)
		}
		p.logger.Info("post saved", "path", path)
		u.OutputPath = &path
	}
	return u, nil
}

func (p *Pipeline) applyImages(ctx context.Context, md string, specs []blog.ImageSpec) (string, error) {
	if p.images == nil {
		return md, imagegen.ErrNoProvider
	}
	return p.images.ApplyToDocument(ctx, md, specs)
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}
