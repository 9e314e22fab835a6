package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/notegraph/internal/mcpserver"
	"github.com/starford/notegraph/internal/output"
)

// oneShot syncs the vault, loads the corpus and hands it to fn. Logs go to
// stderr so stdout carries only the command output.
func oneShot(opts []Option, fn func(app *application, rt *runtime) error) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config, os.Stderr)
	slog.SetDefault(logger)

	rt, err := bootstrap(app.config, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(app, rt)
}

// RunStats prints the environment statistics of query.
func RunStats(ctx context.Context, query string, opts ...Option) error {
	return oneShot(opts, func(app *application, rt *runtime) error {
		st := rt.svc.Statistics(ctx, query, app.defaultMode())
		if err := output.WriteStatistics(app.stdout, st); err != nil {
			return fmt.Errorf("write statistics: %w", err)
		}
		return nil
	})
}

// RunFilter prints the notes matching query, best match first.
func RunFilter(ctx context.Context, query string, opts ...Option) error {
	return oneShot(opts, func(app *application, rt *runtime) error {
		matches := rt.svc.Query(ctx, query, app.defaultMode())
		if err := output.WriteMatches(app.stdout, matches); err != nil {
			return fmt.Errorf("write matches: %w", err)
		}
		return nil
	})
}

// RunTags prints the tag hierarchy of the notes matching query.
func RunTags(ctx context.Context, query string, opts ...Option) error {
	return oneShot(opts, func(app *application, rt *runtime) error {
		tags := rt.svc.Tags(ctx, query, app.defaultMode())
		if _, err := fmt.Fprint(app.stdout, output.RenderTags("tags", tags)); err != nil {
			return fmt.Errorf("write tags: %w", err)
		}
		return nil
	})
}

// RunMCP serves the MCP tools over stdin/stdout until the client
// disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	return oneShot(opts, func(app *application, rt *runtime) error {
		slog.Info("MCP server starting", slog.Int("notes", len(rt.corpus.Snapshot())))
		return mcpserver.New(rt.svc, app.defaultMode()).ServeStdio()
	})
}
