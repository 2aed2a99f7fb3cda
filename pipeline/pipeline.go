package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/event"
	"github.com/spetersoncode/blogsmith/workflow"
)

// Name is the workflow name reported in run events.
const Name = "blog_writer"

// Step names, as reported in step events.
const (
	StepRouter       = "router"
	StepRouteNext    = "route_next"
	StepResearch     = "research"
	StepOrchestrator = "orchestrator"
	StepWorker       = "worker"
	StepMerge        = "merge_content"
	StepDecideImages = "decide_images"
	StepPlaceImages  = "generate_and_place_images"
)

var (
	// ErrEmptyTopic is returned when a run is started without a topic.
	ErrEmptyTopic = errors.New("pipeline: topic is required")

	// ErrInvalidAsOf is returned when the as-of date is not YYYY-MM-DD.
	ErrInvalidAsOf = errors.New("pipeline: as-of date must be YYYY-MM-DD")
)

// Gateway is the language model boundary every LLM stage calls.
// *client.Client implements it.
type Gateway interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
	GenerateStructured(ctx context.Context, system, user string, rs ai.ResponseSchema, out any) error
}

// EvidenceGatherer collects research evidence. *research.Gatherer
// implements it.
type EvidenceGatherer interface {
	GatherEvidence(ctx context.Context, queries []string, asOf string, recencyDays int, mode blog.Mode) ([]blog.EvidenceItem, []string, error)
}

// ImagePlacer renders images into a document. *imagegen.Renderer
// implements it.
type ImagePlacer interface {
	ApplyToDocument(ctx context.Context, markdown string, specs []blog.ImageSpec) (string, error)
}

// ArtifactStore persists the finished post. *store.FS implements it.
type ArtifactStore interface {
	Save(ctx context.Context, name, markdown string) (string, error)
}

// Input starts a run.
type Input struct {
	Topic string `json:"topic"`
	// AsOf is the reference date, YYYY-MM-DD. Empty means today.
	AsOf string `json:"as_of,omitempty"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGatherer sets the research gatherer. Without one, research yields
// no evidence.
func WithGatherer(g EvidenceGatherer) Option {
	return func(p *Pipeline) {
		p.gatherer = g
	}
}

// WithImages sets the image placer. Without one, planned images are
// reported as a failed image stage and their placeholders stay in place.
func WithImages(i ImagePlacer) Option {
	return func(p *Pipeline) {
		p.images = i
	}
}

// WithStore sets where finished posts are saved. Without one, posts are
// returned but not written anywhere.
func WithStore(s ArtifactStore) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithWorkflowOptions sets timeouts and concurrency for every run.
func WithWorkflowOptions(opts ...workflow.Option) Option {
	return func(p *Pipeline) {
		p.wfOpts = append(p.wfOpts, opts...)
	}
}

// WithClock overrides the clock used for the default as-of date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline writes blog posts.
type Pipeline struct {
	llm      Gateway
	gatherer EvidenceGatherer
	images   ImagePlacer
	store    ArtifactStore
	logger   *slog.Logger
	wfOpts   []workflow.Option
	now      func() time.Time

	wf *workflow.Workflow[blog.State]
}

// New creates a pipeline over the given gateway.
func New(llm Gateway, opts ...Option) *Pipeline {
	p := &Pipeline{
		llm:    llm,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wf = workflow.New(Name, p.graph(), p.wfOpts...)
	return p
}

// graph builds the stage DAG.
func (p *Pipeline) graph() workflow.Step[blog.State] {
	return workflow.NewChain[blog.State]("blog",
		workflow.NewStep(StepRouter, p.route),
		workflow.NewRouter(StepRouteNext,
			workflow.Route[blog.State]{
				Name:      StepResearch,
				Condition: func(s blog.State) bool { return s.NeedsResearch },
				Step:      workflow.NewStep(StepResearch, p.research),
			},
			workflow.Route[blog.State]{Name: StepOrchestrator},
		),
		workflow.NewStep(StepOrchestrator, p.orchestrate),
		workflow.NewFanOut(StepWorker, fanout, p.work),
		workflow.NewStep(StepMerge, mergeContent),
		workflow.NewStep(StepDecideImages, p.decideImages),
		workflow.NewStep(StepPlaceImages, p.placeImages),
	)
}

// Run writes a post and blocks until it is saved or the run fails.
func (p *Pipeline) Run(ctx context.Context, in Input, opts ...workflow.Option) (*workflow.Result[blog.State], error) {
	initial, err := p.initialState(in)
	if err != nil {
		return nil, err
	}
	return p.wf.Run(ctx, initial, opts...)
}

// Stream writes a post in the background and returns its events. An
// invalid input yields a single run_error event.
func (p *Pipeline) Stream(ctx context.Context, in Input, opts ...workflow.Option) <-chan event.Event {
	initial, err := p.initialState(in)
	if err != nil {
		ch := make(chan event.Event, 1)
		ch <- event.Event{Type: event.RunError, StepName: Name, Error: err, Message: string(workflow.TerminationError), Timestamp: time.Now()}
		close(ch)
		return ch
	}
	return p.wf.RunStream(ctx, initial, opts...)
}

func (p *Pipeline) initialState(in Input) (blog.State, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return blog.State{}, ErrEmptyTopic
	}
	asOf := strings.TrimSpace(in.AsOf)
	if asOf == "" {
		asOf = p.now().Format(blog.DateLayout)
	} else if _, err := time.Parse(blog.DateLayout, asOf); err != nil {
		return blog.State{}, fmt.Errorf("%w: %q", ErrInvalidAsOf, in.AsOf)
	}
	return blog.State{
		Topic:    topic,
		Mode:     blog.ModeClosedBook,
		AsOf:     asOf,
		Evidence: []blog.EvidenceItem{},
		Sections: []blog.Section{},
	}, nil
}
