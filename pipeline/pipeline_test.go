package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/event"
	"github.com/spetersoncode/blogsmith/imagegen"
	"github.com/spetersoncode/blogsmith/research"
	"github.com/spetersoncode/blogsmith/store"
	"github.com/spetersoncode/blogsmith/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sectionTitle = regexp.MustCompile(`(?m)^Section title: (.+)$`)

// mockGateway answers structured calls by schema name and text calls by
// section title.
type mockGateway struct {
	mu            sync.Mutex
	structured    map[string]any
	structuredErr map[string]error
	sections      map[string]string
	delays        map[string]time.Duration
	textErr       error
	prompts       map[string][]string
}

func newGateway(decision blog.RouterDecision, plan blog.Plan, images blog.GlobalImagePlan) *mockGateway {
	return &mockGateway{
		structured: map[string]any{
			"router_decision":   decision,
			"plan":              plan,
			"global_image_plan": images,
		},
		structuredErr: map[string]error{},
		sections:      map[string]string{},
		delays:        map[string]time.Duration{},
		prompts:       map[string][]string{},
	}
}

func (m *mockGateway) record(key, user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts[key] = append(m.prompts[key], user)
}

func (m *mockGateway) calls(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts[key]...)
}

func (m *mockGateway) GenerateStructured(ctx context.Context, system, user string, rs ai.ResponseSchema, out any) error {
	m.record(rs.Name, user)
	if err := m.structuredErr[rs.Name]; err != nil {
		return err
	}
	v, ok := m.structured[rs.Name]
	if !ok {
		return errors.New("unexpected schema " + rs.Name)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (m *mockGateway) GenerateText(ctx context.Context, system, user string) (string, error) {
	m.record("worker", user)
	if m.textErr != nil {
		return "", m.textErr
	}
	title := ""
	if match := sectionTitle.FindStringSubmatch(user); match != nil {
		title = match[1]
	}
	if d := m.delays[title]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if md, ok := m.sections[title]; ok {
		return md, nil
	}
	return "## " + title + "\n\nBody of " + title + ".", nil
}

type countingGatherer struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGatherer) GatherEvidence(ctx context.Context, queries []string, asOf string, recencyDays int, mode blog.Mode) ([]blog.EvidenceItem, []string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return []blog.EvidenceItem{{Title: "t", URL: "https://real.dev/a"}}, nil, nil
}

type fakeSearcher struct{}

func (fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]research.SearchResult, error) {
	return []research.SearchResult{{Title: query, URL: "https://news.dev/" + strings.ReplaceAll(query, " ", "-")}}, nil
}

type mockImages struct {
	failPrompt string
}

func (m *mockImages) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	if prompt == m.failPrompt {
		return nil, errors.New("quota exceeded")
	}
	return &ai.ImageResponse{Images: []ai.GeneratedImage{{Data: []byte("png:" + prompt)}}}, nil
}

func closedBook() blog.RouterDecision {
	return blog.RouterDecision{Mode: blog.ModeClosedBook, Reason: "evergreen", Queries: []string{}}
}

func threeTaskPlan(title string, kind blog.Kind) blog.Plan {
	task := func(id int, name string) blog.Task {
		return blog.Task{ID: id, Title: name, Goal: "Explain " + name, Bullets: []string{"a", "b", "c"}, TargetWords: 200}
	}
	return blog.Plan{
		BlogTitle: title,
		Audience:  "engineers",
		Tone:      "practical",
		BlogKind:  kind,
		Tasks:     []blog.Task{task(1, "One"), task(2, "Two"), task(3, "Three")},
	}
}

func noImages() blog.GlobalImagePlan {
	return blog.GlobalImagePlan{Images: []blog.ImageSpec{}}
}

func collect(ch <-chan event.Event) []event.Event {
	var out []event.Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
}

func TestRunValidatesInput(t *testing.T) {
	p := New(newGateway(closedBook(), threeTaskPlan("T", blog.KindExplainer), noImages()))

	_, err := p.Run(context.Background(), Input{Topic: "   "})
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = p.Run(context.Background(), Input{Topic: "Go", AsOf: "June 10"})
	assert.ErrorIs(t, err, ErrInvalidAsOf)

	events := collect(p.Stream(context.Background(), Input{}))
	require.Len(t, events, 1)
	assert.Equal(t, event.RunError, events[0].Type)
	assert.ErrorIs(t, events[0].Error, ErrEmptyTopic)
}

func TestRunDefaultsAsOfToToday(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("T", blog.KindExplainer), noImages())
	p := New(gw, WithClock(fixedClock))

	result, err := p.Run(context.Background(), Input{Topic: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", result.State.AsOf)
	assert.Contains(t, gw.calls("router_decision")[0], "Topic: Go\nAs-of date: 2024-06-10")
}

func TestClosedBookSkipsResearch(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("Binary Search Trees", blog.KindExplainer), noImages())
	gatherer := &countingGatherer{}
	p := New(gw, WithGatherer(gatherer))

	events := collect(p.Stream(context.Background(), Input{Topic: "Binary search trees", AsOf: "2024-06-10"}))
	final := events[len(events)-1]
	require.Equal(t, event.RunEnd, final.Type, "run error: %v", final.Error)
	state := final.State.(blog.State)

	assert.Zero(t, gatherer.calls)
	assert.NotNil(t, state.Evidence)
	assert.Empty(t, state.Evidence)
	assert.Equal(t, blog.ModeClosedBook, state.Mode)
	assert.Equal(t, 3650, state.RecencyDays)

	assert.Contains(t, gw.calls("plan")[0], "Mode: closed_book")
	workerPrompts := gw.calls("worker")
	require.Len(t, workerPrompts, 3)
	for _, prompt := range workerPrompts {
		assert.Contains(t, prompt, "Mode: closed_book")
	}

	var routes, started []string
	for _, e := range events {
		switch e.Type {
		case event.RouteSelected:
			routes = append(routes, e.RouteName)
		case event.StepStart:
			started = append(started, e.StepName)
		}
	}
	assert.Equal(t, []string{StepOrchestrator}, routes)
	assert.NotContains(t, started, StepResearch)
}

func TestOpenBookFiltersEvidenceAndForcesKind(t *testing.T) {
	decision := blog.RouterDecision{
		NeedsResearch: true,
		Mode:          blog.ModeOpenBook,
		Reason:        "weekly news",
		Queries:       []string{"ai news this week"},
	}
	gw := newGateway(decision, threeTaskPlan("This Week in AI", blog.KindExplainer), noImages())
	gw.structured["evidence_pack"] = blog.EvidencePack{Evidence: []blog.EvidenceItem{
		{Title: "on cutoff", URL: "https://news.dev/a", PublishedAt: "2024-06-03"},
		{Title: "too old", URL: "https://news.dev/b", PublishedAt: "2024-06-02"},
		{Title: "undated", URL: "https://news.dev/c"},
		{Title: "timestamped", URL: "https://news.dev/d", PublishedAt: "2024-06-10T08:00:00Z"},
	}}

	p := New(gw, WithGatherer(research.NewGatherer(fakeSearcher{}, gw)))
	result, err := p.Run(context.Background(), Input{Topic: "This week in AI", AsOf: "2024-06-10"})
	require.NoError(t, err)

	state := result.State
	assert.Equal(t, 7, state.RecencyDays)
	var urls []string
	for _, e := range state.Evidence {
		urls = append(urls, e.URL)
	}
	assert.Equal(t, []string{"https://news.dev/a", "https://news.dev/d"}, urls)

	require.NotNil(t, state.Plan)
	assert.Equal(t, blog.KindNewsRoundup, state.Plan.BlogKind)
	assert.Contains(t, gw.calls("plan")[0], "Force blog_kind=news_roundup")
	for _, prompt := range gw.calls("worker") {
		assert.Contains(t, prompt, "Mode: open_book")
		assert.Contains(t, prompt, "- on cutoff | https://news.dev/a | 2024-06-03")
	}
}

func TestMergeOrdersByTaskID(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("Ordering", blog.KindExplainer), noImages())
	gw.delays["One"] = 40 * time.Millisecond
	gw.delays["Two"] = 80 * time.Millisecond

	events := collect(New(gw).Stream(context.Background(), Input{Topic: "ordering", AsOf: "2024-06-10"}))
	final := events[len(events)-1]
	require.Equal(t, event.RunEnd, final.Type)
	state := final.State.(blog.State)

	var arrival []int
	for _, e := range events {
		if e.Type == event.StepEnd && e.StepName == StepWorker {
			arrival = append(arrival, e.Delta.(*blog.Update).Sections[0].TaskID)
		}
	}
	assert.Equal(t, []int{3, 1, 2}, arrival)

	var accumulated []int
	for _, s := range state.Sections {
		accumulated = append(accumulated, s.TaskID)
	}
	assert.Equal(t, []int{3, 1, 2}, accumulated, "sections accumulate in arrival order")

	assert.Equal(t,
		"# Ordering\n\n## One\n\nBody of One.\n\n## Two\n\nBody of Two.\n\n## Three\n\nBody of Three.\n",
		state.MergedMarkdown)
	assert.Equal(t, state.MergedMarkdown, state.FinalMarkdown)
}

func TestZeroImagesStillSaves(t *testing.T) {
	base := t.TempDir()
	fs := store.New(filepath.Join(base, "outputs"), base)
	gw := newGateway(closedBook(), threeTaskPlan("No Pictures Here!", blog.KindExplainer), noImages())

	events := collect(New(gw, WithStore(fs), WithImages(imagegen.New(&mockImages{}, fs.ImagesDir()))).
		Stream(context.Background(), Input{Topic: "x", AsOf: "2024-06-10"}))
	final := events[len(events)-1]
	require.Equal(t, event.RunEnd, final.Type)
	state := final.State.(blog.State)

	assert.NotContains(t, state.FinalMarkdown, "![")
	assert.Equal(t, state.MergedMarkdown, state.FinalMarkdown)
	require.NotEmpty(t, state.Warnings)
	assert.Contains(t, state.Warnings[0], "no images planned")

	var warned bool
	for _, e := range events {
		if e.Type == event.Warning && strings.Contains(e.Message, "no images planned") {
			warned = true
		}
	}
	assert.True(t, warned)

	assert.Equal(t, filepath.Join(base, "outputs", "no_pictures_here.md"), state.OutputPath)
	for _, p := range []string{state.OutputPath, filepath.Join(base, "no_pictures_here.md")} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, state.FinalMarkdown, string(data))
	}
}

func TestImagePlanningFailureStillSaves(t *testing.T) {
	base := t.TempDir()
	fs := store.New(filepath.Join(base, "outputs"), base)
	gw := newGateway(closedBook(), threeTaskPlan("Plain Post", blog.KindExplainer), noImages())
	gw.structuredErr["global_image_plan"] = &ai.SchemaError{Schema: "global_image_plan", Err: errors.New("missing images")}
	images := &mockImages{}

	result, err := New(gw, WithStore(fs), WithImages(imagegen.New(images, fs.ImagesDir()))).
		Run(context.Background(), Input{Topic: "x", AsOf: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, workflow.TerminationComplete, result.Termination)

	state := result.State
	assert.Equal(t, state.MergedMarkdown, state.FinalMarkdown)
	assert.Empty(t, state.ImageSpecs)
	require.Len(t, state.Warnings, 1)
	assert.Contains(t, state.Warnings[0], "image planning failed")
	assert.Contains(t, state.Warnings[0], "global_image_plan")

	assert.Equal(t, filepath.Join(base, "outputs", "plain_post.md"), state.OutputPath)
	data, err := os.ReadFile(state.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, state.FinalMarkdown, string(data))
}

func imagePlan(merged string) blog.GlobalImagePlan {
	spec := func(n, prompt string) blog.ImageSpec {
		return blog.ImageSpec{
			Placeholder: "[[IMAGE_" + n + "]]",
			Filename:    "img" + n + ".png",
			Alt:         "alt " + n,
			Caption:     "caption " + n,
			Prompt:      prompt,
		}
	}
	return blog.GlobalImagePlan{
		MarkdownWithPlaceholders: merged + "\n[[IMAGE_1]]\n\n[[IMAGE_2]]\n\n[[IMAGE_3]]\n",
		Images:                   []blog.ImageSpec{spec("1", "good one"), spec("2", "bad"), spec("3", "good three")},
	}
}

func TestOneImageFailureIsIsolated(t *testing.T) {
	base := t.TempDir()
	fs := store.New(filepath.Join(base, "outputs"), "")
	gw := newGateway(closedBook(), threeTaskPlan("Pictures", blog.KindExplainer), imagePlan("# Pictures"))
	renderer := imagegen.New(&mockImages{failPrompt: "bad"}, fs.ImagesDir())

	result, err := New(gw, WithStore(fs), WithImages(renderer)).
		Run(context.Background(), Input{Topic: "pictures", AsOf: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, workflow.TerminationComplete, result.Termination)

	final := result.State.FinalMarkdown
	assert.Equal(t, 2, strings.Count(final, "!["))
	assert.Contains(t, final, "![alt 1](images/img1.png)\n*caption 1*")
	assert.Contains(t, final, "![alt 3](images/img3.png)\n*caption 3*")
	assert.Equal(t, 1, strings.Count(final, "[IMAGE GENERATION FAILED]"))
	assert.NotContains(t, final, "[[IMAGE_")

	_, err = os.Stat(filepath.Join(fs.ImagesDir(), "img1.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(fs.ImagesDir(), "img2.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestNoImagePlacerPrependsBanner(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("Pictures", blog.KindExplainer), imagePlan("# Pictures"))

	result, err := New(gw).Run(context.Background(), Input{Topic: "pictures", AsOf: "2024-06-10"})
	require.NoError(t, err)

	final := result.State.FinalMarkdown
	assert.True(t, strings.HasPrefix(final, imagegen.FailureBanner))
	assert.Contains(t, final, "[[IMAGE_1]]")
	assert.Contains(t, strings.Join(result.State.Warnings, "\n"), "image generation failed")
	assert.Empty(t, result.State.OutputPath)
}

func TestRouterSchemaFailureIsFatal(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("T", blog.KindExplainer), noImages())
	gw.structuredErr["router_decision"] = &ai.SchemaError{Schema: "router_decision", Err: errors.New("missing mode")}
	gatherer := &countingGatherer{}

	result, err := New(gw, WithGatherer(gatherer)).Run(context.Background(), Input{Topic: "x", AsOf: "2024-06-10"})
	require.Error(t, err)
	assert.Equal(t, workflow.TerminationError, result.Termination)

	var schemaErr *ai.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepRouter, stepErr.StepName)

	assert.Zero(t, gatherer.calls)
	assert.Empty(t, gw.calls("plan"))
	assert.Empty(t, result.State.FinalMarkdown)
}

func TestDuplicateTaskIDsAreFatal(t *testing.T) {
	plan := threeTaskPlan("T", blog.KindExplainer)
	plan.Tasks[2].ID = 1
	gw := newGateway(closedBook(), plan, noImages())

	_, err := New(gw).Run(context.Background(), Input{Topic: "x", AsOf: "2024-06-10"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate task id 1")
	assert.Empty(t, gw.calls("worker"))
}

func TestWorkerFailureIsFatal(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("T", blog.KindExplainer), noImages())
	gw.textErr = ai.NewPermanentError("bad request", 400, nil)

	_, err := New(gw).Run(context.Background(), Input{Topic: "x", AsOf: "2024-06-10"})
	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepWorker, stepErr.StepName)
	assert.Empty(t, gw.calls("global_image_plan"))
}

func TestPlaceholderCitationsAreAdvisory(t *testing.T) {
	gw := newGateway(closedBook(), threeTaskPlan("T", blog.KindExplainer), noImages())
	gw.sections["Two"] = "## Two\n\nSee [Source](https://Example.com/post)."

	result, err := New(gw).Run(context.Background(), Input{Topic: "x", AsOf: "2024-06-10"})
	require.NoError(t, err)
	assert.Contains(t, result.State.FinalMarkdown, "https://Example.com/post")
	assert.Contains(t, strings.Join(result.State.Warnings, "\n"), `section "Two" may contain placeholder citations: example.com`)
}

func TestFanoutCopiesEvidence(t *testing.T) {
	plan := threeTaskPlan("T", blog.KindExplainer)
	state := blog.State{
		Topic:    "x",
		Plan:     &plan,
		Evidence: []blog.EvidenceItem{{URL: "https://a"}},
	}
	inputs := fanout(state)
	require.Len(t, inputs, 3)

	inputs[0].Evidence[0].URL = "mutated"
	assert.Equal(t, "https://a", state.Evidence[0].URL)
	assert.Equal(t, "https://a", inputs[1].Evidence[0].URL)
	assert.Equal(t, 2, inputs[1].Task.ID)

	assert.Nil(t, fanout(blog.State{}))
}
