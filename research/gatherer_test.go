package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSearcher struct {
	mu      sync.Mutex
	queries []string
	fail    map[string]error
}

func (m *mockSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if err := m.fail[query]; err != nil {
		return nil, err
	}
	return []SearchResult{{Title: query, URL: "https://search/" + query}}, nil
}

type mockSynth struct {
	pack  blog.EvidencePack
	err   error
	calls int
	user  string
}

func (m *mockSynth) GenerateStructured(ctx context.Context, system, user string, rs ai.ResponseSchema, out any) error {
	m.calls++
	m.user = user
	if m.err != nil {
		return m.err
	}
	data, err := json.Marshal(m.pack)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func TestGatherEvidenceNoSearcher(t *testing.T) {
	synth := &mockSynth{}
	evidence, warnings, err := NewGatherer(nil, synth).
		GatherEvidence(context.Background(), []string{"q"}, "2026-01-15", 7, blog.ModeOpenBook)
	require.NoError(t, err)
	assert.Empty(t, evidence)
	assert.Empty(t, warnings)
	assert.Zero(t, synth.calls)
}

func TestGatherEvidenceNoKey(t *testing.T) {
	synth := &mockSynth{}
	evidence, _, err := NewGatherer(NewTavilySearcher(""), synth).
		GatherEvidence(context.Background(), []string{"q1", "q2"}, "2026-01-15", 45, blog.ModeHybrid)
	require.NoError(t, err)
	assert.Empty(t, evidence)
	assert.Zero(t, synth.calls, "no raw results means no synthesis call")
}

func TestGatherEvidenceTruncatesQueries(t *testing.T) {
	searcher := &mockSearcher{}
	synth := &mockSynth{}
	queries := make([]string, 14)
	for i := range queries {
		queries[i] = fmt.Sprintf("q%d", i)
	}

	_, _, err := NewGatherer(searcher, synth).
		GatherEvidence(context.Background(), queries, "2026-01-15", 3650, blog.ModeClosedBook)
	require.NoError(t, err)
	assert.Len(t, searcher.queries, MaxQueries)
	assert.NotContains(t, searcher.queries, "q10")
	assert.Contains(t, synth.user, "As-of date: 2026-01-15")
}

func TestGatherEvidenceSearchFailureIsolated(t *testing.T) {
	searcher := &mockSearcher{fail: map[string]error{"bad": errors.New("boom")}}
	synth := &mockSynth{pack: blog.EvidencePack{Evidence: []blog.EvidenceItem{{Title: "ok", URL: "https://ok"}}}}

	evidence, _, err := NewGatherer(searcher, synth).
		GatherEvidence(context.Background(), []string{"bad", "good"}, "2026-01-15", 45, blog.ModeHybrid)
	require.NoError(t, err)
	assert.Len(t, evidence, 1)
	assert.Contains(t, synth.user, "https://search/good")
	assert.NotContains(t, synth.user, "https://search/bad")
}

func TestGatherEvidenceSynthesisFailure(t *testing.T) {
	synth := &mockSynth{err: &ai.SchemaError{Schema: "evidence_pack", Err: errors.New("bad json")}}

	evidence, warnings, err := NewGatherer(&mockSearcher{}, synth).
		GatherEvidence(context.Background(), []string{"q"}, "2026-01-15", 45, blog.ModeHybrid)
	require.NoError(t, err)
	assert.Empty(t, evidence)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "evidence synthesis failed")
}

func TestGatherEvidenceDedupeAndRecency(t *testing.T) {
	synth := &mockSynth{pack: blog.EvidencePack{Evidence: []blog.EvidenceItem{
		{Title: "a-old", URL: "https://a", PublishedAt: "2026-01-01"},
		{Title: "b", URL: "https://b", PublishedAt: "2026-01-12"},
		{Title: "no-url", URL: "", PublishedAt: "2026-01-12"},
		{Title: "a-new", URL: "https://a", PublishedAt: "2026-01-14"},
		{Title: "undated", URL: "https://c"},
	}}}

	t.Run("open book filters", func(t *testing.T) {
		evidence, _, err := NewGatherer(&mockSearcher{}, synth).
			GatherEvidence(context.Background(), []string{"q"}, "2026-01-15", 7, blog.ModeOpenBook)
		require.NoError(t, err)
		var titles []string
		for _, e := range evidence {
			titles = append(titles, e.Title)
		}
		assert.Equal(t, []string{"a-new", "b"}, titles)
	})

	t.Run("hybrid keeps undated", func(t *testing.T) {
		evidence, _, err := NewGatherer(&mockSearcher{}, synth).
			GatherEvidence(context.Background(), []string{"q"}, "2026-01-15", 45, blog.ModeHybrid)
		require.NoError(t, err)
		assert.Len(t, evidence, 3)
	})
}

func TestGatherEvidenceInvalidAsOf(t *testing.T) {
	_, _, err := NewGatherer(&mockSearcher{}, &mockSynth{}).
		GatherEvidence(context.Background(), nil, "yesterday", 7, blog.ModeOpenBook)
	assert.Error(t, err)
}

func TestGatherEvidenceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	searcher := &mockSearcher{fail: map[string]error{"q": context.Canceled}}
	_, _, err := NewGatherer(searcher, &mockSynth{}).
		GatherEvidence(ctx, []string{"q"}, "2026-01-15", 7, blog.ModeOpenBook)
	assert.ErrorIs(t, err, context.Canceled)
}
