// Command serve exposes the blog pipeline over HTTP. Runs stream as AG-UI
// events over Server-Sent Events, so any AG-UI frontend can drive it.
//
// Endpoints:
//
//	POST /api/run    start a run; body is an AG-UI RunAgentInput with
//	                 state {"topic": "...", "as_of": "YYYY-MM-DD"}
//	GET  /api/runs   recent runs, newest first
//	GET  /api/posts  saved posts, newest first
//	GET  /health     liveness
//
// Configuration comes from .env, blogsmith.yaml and the environment; see
// internal/config. BLOGSMITH_PORT sets the listen port (default 8000).
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spetersoncode/blogsmith/internal/app"
	"github.com/spetersoncode/blogsmith/internal/config"
	"github.com/spetersoncode/blogsmith/store"
)

// runHistory is how many runs GET /api/runs remembers.
const runHistory = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger := app.NewLogger(cfg)
	a := app.New(cfg, logger)

	h := NewHandler(a.Pipeline, a.Store, store.NewRuns(runHistory), logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE streams for the whole run
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting",
		"addr", server.Addr,
		"provider", cfg.Provider,
		"outputs", cfg.OutputDir,
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("server stopped")
}
