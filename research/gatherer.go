package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/blog"
	"golang.org/x/sync/errgroup"
)

// Limits applied to every gathering.
const (
	MaxQueries      = 10
	ResultsPerQuery = 6
)

// searchConcurrency bounds simultaneous search requests.
const searchConcurrency = 4

const synthesisSystem = `You are a research synthesizer.

Given raw web search results, produce EvidenceItem objects.

Rules:
- Only include items with a non-empty url.
- Prefer relevant and authoritative sources.
- Normalize published_at to ISO YYYY-MM-DD if reliably inferable; otherwise null. Do not guess.
- Keep snippets short.
- Deduplicate by URL.`

// Synthesizer turns raw results into structured evidence.
type Synthesizer interface {
	GenerateStructured(ctx context.Context, system, user string, rs ai.ResponseSchema, out any) error
}

// GathererOption configures a Gatherer.
type GathererOption func(*Gatherer)

// WithLogger sets the logger for per-query failures.
func WithLogger(l *slog.Logger) GathererOption {
	return func(g *Gatherer) {
		g.logger = l
	}
}

// Gatherer collects evidence for a set of queries.
type Gatherer struct {
	searcher Searcher
	llm      Synthesizer
	logger   *slog.Logger
}

// NewGatherer creates a gatherer. A nil searcher gathers nothing.
func NewGatherer(searcher Searcher, llm Synthesizer, opts ...GathererOption) *Gatherer {
	g := &Gatherer{searcher: searcher, llm: llm, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GatherEvidence searches every query, synthesizes the results and returns
// deduplicated evidence. In open-book mode only items published within
// recencyDays of asOf survive.
//
// Missing search credentials and failed searches yield no evidence rather
// than an error. A failed synthesis yields no evidence plus a warning. The
// error is non-nil only when ctx ends or asOf is not a valid date.
func (g *Gatherer) GatherEvidence(ctx context.Context, queries []string, asOf string, recencyDays int, mode blog.Mode) ([]blog.EvidenceItem, []string, error) {
	asOfDate, err := time.Parse(blog.DateLayout, asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("research: invalid as-of date %q: %w", asOf, err)
	}
	if g.searcher == nil {
		return []blog.EvidenceItem{}, nil, nil
	}
	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}

	raw, err := g.search(ctx, queries)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return []blog.EvidenceItem{}, nil, nil
	}

	rawJSON, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	user := fmt.Sprintf("As-of date: %s\nRecency days: %d\n\nRaw results:\n%s", asOf, recencyDays, rawJSON)

	var pack blog.EvidencePack
	if err := g.llm.GenerateStructured(ctx, synthesisSystem, user, blog.EvidencePackSchema, &pack); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		g.logger.Warn("evidence synthesis failed", "error", err)
		return []blog.EvidenceItem{}, []string{fmt.Sprintf("evidence synthesis failed: %v", err)}, nil
	}

	evidence := blog.DedupeByURL(pack.Evidence)
	if mode == blog.ModeOpenBook {
		evidence = blog.FilterRecent(evidence, asOfDate, recencyDays)
	}
	return evidence, nil, nil
}

// search runs the queries concurrently and concatenates their results in
// query order.
func (g *Gatherer) search(ctx context.Context, queries []string) ([]SearchResult, error) {
	perQuery := make([][]SearchResult, len(queries))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(searchConcurrency)
	for i, q := range queries {
		eg.Go(func() error {
			results, err := g.searcher.Search(egCtx, q, ResultsPerQuery)
			switch {
			case err == nil:
				perQuery[i] = results
			case errors.Is(err, ErrNoSearchKey):
				// No credentials: contribute nothing.
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				g.logger.Warn("search failed", "query", q, "error", err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var raw []SearchResult
	for _, results := range perQuery {
		raw = append(raw, results...)
	}
	return raw, nil
}
