package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/cnosuke/tag-audit/analyzer"
	"github.com/cnosuke/tag-audit/collector"
	"github.com/cnosuke/tag-audit/config"
	"github.com/cnosuke/tag-audit/estimator"
	"github.com/cnosuke/tag-audit/fetcher"
	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/logger"
	"github.com/cnosuke/tag-audit/scoring"
	"github.com/cnosuke/tag-audit/server"
)

var (
	Version  = "0.0.1"
	Revision = "xxx"
)

const (
	AppName = "tag-audit"
	Usage   = "Audit the marketing tags of a web page and estimate a server-side tagging setup"
)

func main() {
	app := &cli.App{
		Name:    AppName,
		Usage:   Usage,
		Version: fmt.Sprintf("%s (%s)", Version, Revision),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yml",
				Usage:   "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API and static front end",
				Action: func(c *cli.Context) error {
					return run(c, func(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer) error {
						return server.New(cfg.Server, a).Run(ctx)
					})
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve the analyze_site tool over MCP stdio",
				Action: func(c *cli.Context) error {
					return run(c, func(ctx context.Context, _ *config.Config, a *analyzer.Analyzer) error {
						return server.RunMCP(ctx, a, AppName, Version, Revision)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context, serve func(context.Context, *config.Config, *analyzer.Analyzer) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return ierrors.Wrap(err, "failed to load configuration")
	}

	cleanup, err := logger.Init(cfg.Log)
	if err != nil {
		return ierrors.Wrap(err, "failed to initialize logger")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, newAnalyzer(cfg)); err != nil {
		zap.S().Errorw("server stopped with error", "error", err)
		return err
	}
	return nil
}

func newAnalyzer(cfg *config.Config) *analyzer.Analyzer {
	f := fetcher.NewHTTPFetcher(&fetcher.Config{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
	c := collector.New(collector.Config{PublicSuffix: cfg.Classify.PublicSuffix})
	e := estimator.New(&estimator.Config{
		Timeout:      cfg.Probe.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxResources: cfg.Probe.MaxResources,
		MaxWorkers:   cfg.Probe.MaxWorkers,
	})
	return analyzer.New(f, c, e, scoring.DefaultTables())
}
