package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notegraph/internal"
	"github.com/starford/notegraph/internal/filter"
	pkgconfig "github.com/starford/notegraph/pkg/config"
)

// options loads the config named by --config and translates the query
// flags into application options. Without a config file the defaults apply.
func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{internal.WithConfig(cfg)}
	if cmd.Bool("any") {
		opts = append(opts, internal.WithMode(filter.ModeAny))
	}
	return opts, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// queryAction adapts a one-shot command to the CLI. Positional arguments
// are joined into the query.
func queryAction(run func(context.Context, string, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		opts, err := options(cmd)
		if err != nil {
			return err
		}
		return run(ctx, strings.Join(cmd.Args().Slice(), " "), opts...)
	}
}

func anyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "any",
		Usage: "Match notes satisfying any tag/link predicate instead of all",
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "notegraph",
		Usage:  "Filter a Markdown vault by tags, links and fuzzy titles, and measure the link environment of the result",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and vault watcher",
				Flags:  []cli.Flag{anyFlag()},
				Action: serve,
			},
			{
				Name:      "filter",
				Usage:     "Print the notes matching a query",
				ArgsUsage: "[QUERY...]",
				Flags:     []cli.Flag{anyFlag()},
				Action:    queryAction(internal.RunFilter),
			},
			{
				Name:      "stats",
				Usage:     "Print environment statistics of the notes matching a query",
				ArgsUsage: "[QUERY...]",
				Flags:     []cli.Flag{anyFlag()},
				Action:    queryAction(internal.RunStats),
			},
			{
				Name:      "tags",
				Usage:     "Print the tag hierarchy of the notes matching a query",
				ArgsUsage: "[QUERY...]",
				Flags:     []cli.Flag{anyFlag()},
				Action:    queryAction(internal.RunTags),
			},
			{
				Name:  "mcp",
				Usage: "Serve MCP tools over stdio",
				Flags: []cli.Flag{anyFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.RunMCP(ctx, opts...)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
