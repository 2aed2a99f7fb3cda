// Command blogsmith writes illustrated technical blog posts from the
// command line.
//
// Usage:
//
//	blogsmith run -topic "Binary search trees" [-as-of 2024-06-10]
//	blogsmith list
//	blogsmith bundle [-o post.zip] <name>
//	blogsmith html <name>
//
// Configuration comes from .env, blogsmith.yaml and the environment; see
// internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spetersoncode/blogsmith/event"
	"github.com/spetersoncode/blogsmith/internal/app"
	"github.com/spetersoncode/blogsmith/internal/config"
	"github.com/spetersoncode/blogsmith/pipeline"
	"github.com/spetersoncode/blogsmith/store"
)

const usage = `usage: blogsmith <command> [flags]

commands:
  run     write a post:            blogsmith run -topic "..." [-as-of YYYY-MM-DD]
  list    list saved posts
  bundle  zip a post with images:  blogsmith bundle [-o file.zip] <name>
  html    export a post as HTML:   blogsmith html <name>
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("no command given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	a := app.New(cfg, app.NewLogger(cfg))

	switch cmd, rest := args[0], args[1:]; cmd {
	case "run":
		return runPost(ctx, a, rest, out)
	case "list":
		return listPosts(ctx, a.Store, out)
	case "bundle":
		return bundlePost(ctx, a.Store, rest, out)
	case "html":
		return exportHTML(ctx, a.Store, rest, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runPost(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	topic := fs.String("topic", "", "what the post is about")
	asOf := fs.String("as-of", "", "reference date, YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *topic == "" && fs.NArg() > 0 {
		*topic = strings.Join(fs.Args(), " ")
	}

	fmt.Fprintln(out, titleStyle.Render("blogsmith · "+*topic))

	var runErr error
	for e := range a.Pipeline.Stream(ctx, pipeline.Input{Topic: *topic, AsOf: *asOf}) {
		if line := formatEvent(e); line != "" {
			fmt.Fprintln(out, line)
		}
		if e.Type == event.RunError {
			runErr = e.Error
		}
		if e.Type == event.RunEnd {
			fmt.Fprintln(out, summary(e))
		}
	}
	return runErr
}

func listPosts(ctx context.Context, fs *store.FS, out io.Writer) error {
	posts, err := fs.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderPosts(posts))
	return nil
}

func bundlePost(ctx context.Context, fs *store.FS, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("bundle", flag.ContinueOnError)
	output := flags.String("o", "", "zip file to write (default <name>.zip)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("bundle needs exactly one post name")
	}
	name := strings.TrimSuffix(flags.Arg(0), ".md")
	if *output == "" {
		*output = name + ".zip"
	}

	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := fs.Bundle(ctx, f, name); err != nil {
		f.Close()
		os.Remove(*output)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(out, okStyle.Render("✓ bundled "+*output))
	return nil
}

func exportHTML(ctx context.Context, fs *store.FS, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("html needs exactly one post name")
	}
	path, err := fs.ExportHTML(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, okStyle.Render("✓ wrote "+path))
	return nil
}
