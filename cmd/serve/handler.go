package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/google/uuid"

	"github.com/spetersoncode/blogsmith/agui"
	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/event"
	"github.com/spetersoncode/blogsmith/pipeline"
	"github.com/spetersoncode/blogsmith/store"
	"github.com/spetersoncode/blogsmith/workflow"
)

// Streamer starts a pipeline run and returns its event stream.
type Streamer interface {
	Stream(ctx context.Context, in pipeline.Input, opts ...workflow.Option) <-chan event.Event
}

// PostLister lists saved posts.
type PostLister interface {
	List(ctx context.Context) ([]store.Post, error)
}

// Handler serves the HTTP API.
type Handler struct {
	pipeline Streamer
	posts    PostLister
	runs     *store.Runs
	logger   *slog.Logger
}

// NewHandler creates a handler.
func NewHandler(p Streamer, posts PostLister, runs *store.Runs, logger *slog.Logger) *Handler {
	return &Handler{pipeline: p, posts: posts, runs: runs, logger: logger}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/run", http.HandlerFunc(h.run))
	mux.HandleFunc("GET /api/runs", h.listRuns)
	mux.HandleFunc("GET /api/posts", h.listPosts)
	mux.HandleFunc("GET /health", healthHandler)
	return corsMiddleware(mux)
}

// run starts a pipeline run and streams its events as SSE.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	prepared, err := input.Prepare()
	if err != nil {
		h.logger.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if prepared.RunID == "" {
		prepared.RunID = uuid.NewString()
	}

	log := h.logger.With("run_id", prepared.RunID, "thread_id", prepared.ThreadID)

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	log.Info("run started", "topic", prepared.Topic, "as_of", prepared.AsOf)

	rec := store.RunRecord{
		RunID:     prepared.RunID,
		Topic:     prepared.Topic,
		Status:    "running",
		StartedAt: start,
	}
	h.runs.Put(rec)

	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	events := h.pipeline.Stream(r.Context(), prepared.Input())
	out := mapper.MapStream(h.record(events, rec))

	var count int
	for ev := range out {
		count++
		if err := writeSSE(w, flusher, ev); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", ev.Type())
			// The run stops with the request context; drain so it can finish.
			for range out {
			}
			break
		}
	}

	log.Info("run finished", "events", count, "duration", time.Since(start))
}

// record forwards in unchanged while keeping the run registry current.
func (h *Handler) record(in <-chan event.Event, rec store.RunRecord) <-chan event.Event {
	out := make(chan event.Event, event.BufferSize)
	go func() {
		defer close(out)
		for e := range in {
			switch e.Type {
			case event.RunEnd:
				rec.Status = string(workflow.TerminationComplete)
				if state, ok := e.State.(blog.State); ok {
					rec.OutputPath = state.OutputPath
					rec.Title = blog.ExtractTitle(state.FinalMarkdown)
					rec.Warnings = state.Warnings
				}
				rec.CompletedAt = time.Now()
				h.runs.Put(rec)
			case event.RunError:
				rec.Status = e.Message
				if rec.Status == "" {
					rec.Status = string(workflow.TerminationError)
				}
				if e.Error != nil {
					rec.Error = e.Error.Error()
				}
				rec.CompletedAt = time.Now()
				h.runs.Put(rec)
			}
			out <- e
		}
	}()
	return out
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runs.List())
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.logger.Error("list posts failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// writeSSE writes one AG-UI event in SSE framing.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	flusher.Flush()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
