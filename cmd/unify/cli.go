package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/config"
	"github.com/fwdslsh/toolkit/llmstxt"
	"github.com/fwdslsh/toolkit/unify"
	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"
)

// Dependencies holds the shared context for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Build BuildCmd `cmd:"" help:"Render the site into the output directory"`
	Serve ServeCmd `cmd:"" help:"Serve the built site for local development"`
	Watch WatchCmd `cmd:"" help:"Rebuild whenever source files change"`
	Init  InitCmd  `cmd:"" help:"Scaffold a new site in the current directory"`
}

// siteConfig loads the site's unify.yaml and resolves the flag overrides
// shared by build, serve, and watch.
func siteConfig(source, output, baseURL string) (config.Unify, string, string, error) {
	cfg, err := config.LoadUnify(filepath.Join(source, config.UnifyFile))
	if err != nil {
		return cfg, "", "", err
	}

	if output == "" {
		output = cfg.Output
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(source, output)
	}
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	return cfg, output, baseURL, nil
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Source       string `arg:"" optional:"" default:"." help:"Site source directory"`
	Output       string `short:"o" help:"Output directory (defaults to the configured output)"`
	BaseURL      string `help:"Base URL for sitemap.xml generation"`
	NoCheckLinks bool   `help:"Skip internal link verification"`
	Llms         bool   `name:"llms" help:"Generate llms.txt from the source Markdown"`
}

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	cfg, output, baseURL, err := siteConfig(c.Source, c.Output, c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	builder := &unify.Builder{
		Source:     c.Source,
		Output:     output,
		BaseURL:    baseURL,
		Include:    cfg.Assets.Include,
		Exclude:    cfg.Assets.Exclude,
		CheckLinks: cfg.CheckLinks && !c.NoCheckLinks,
		Logger:     deps.Logger,
	}

	result, err := builder.Build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", warning)
	}
	fmt.Fprintf(deps.Stdout, "Built %d pages and %d assets to %s (%d unchanged)\n",
		result.Pages, result.Assets, output, result.Unchanged)

	if c.Llms {
		if err := writeLlms(cfg, c.Source, output); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s and %s\n", llmstxt.IndexFile, llmstxt.FullFile)
	}

	return nil
}

// writeLlms scans the source tree's Markdown and writes the llms.txt pair
// into the output directory.
func writeLlms(cfg config.Unify, source, output string) error {
	docs, err := llmstxt.Scan(source)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return toolkit.Errorf(toolkit.ENOTFOUND, "No Markdown documents found in %s.", source)
	}

	title := cfg.Title
	if title == "" {
		title = filepath.Base(source)
	}

	index := llmstxt.RenderIndex(title, "", docs)
	if err := renameio.WriteFile(filepath.Join(output, llmstxt.IndexFile), []byte(index), 0644); err != nil {
		return err
	}

	full := llmstxt.RenderFull(title, "", docs)
	return renameio.WriteFile(filepath.Join(output, llmstxt.FullFile), []byte(full), 0644)
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Source  string `arg:"" optional:"" default:"." help:"Site source directory"`
	Output  string `short:"o" help:"Output directory (defaults to the configured output)"`
	BaseURL string `help:"Base URL for sitemap.xml generation"`
	Port    int    `short:"p" help:"Listen port (defaults to the configured port)"`
	Watch   bool   `short:"w" help:"Rebuild on source changes while serving"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg, output, baseURL, err := siteConfig(c.Source, c.Output, c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	port := c.Port
	if port == 0 {
		port = cfg.Port
	}

	builder := &unify.Builder{
		Source:     c.Source,
		Output:     output,
		BaseURL:    baseURL,
		Include:    cfg.Assets.Include,
		Exclude:    cfg.Assets.Exclude,
		CheckLinks: cfg.CheckLinks,
		Logger:     deps.Logger,
	}
	if _, err := builder.Build(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	server := &unify.Server{
		Dir:    output,
		Addr:   fmt.Sprintf(":%d", port),
		Logger: deps.Logger,
	}

	fmt.Fprintf(deps.Stdout, "Serving %s on http://localhost:%d\n", output, port)

	if !c.Watch {
		return server.ListenAndServe(deps.Ctx)
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return runWatch(ctx, builder, deps)
	})
	return g.Wait()
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Source  string `arg:"" optional:"" default:"." help:"Site source directory"`
	Output  string `short:"o" help:"Output directory (defaults to the configured output)"`
	BaseURL string `help:"Base URL for sitemap.xml generation"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(deps *Dependencies) error {
	cfg, output, baseURL, err := siteConfig(c.Source, c.Output, c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	builder := &unify.Builder{
		Source:     c.Source,
		Output:     output,
		BaseURL:    baseURL,
		Include:    cfg.Assets.Include,
		Exclude:    cfg.Assets.Exclude,
		CheckLinks: cfg.CheckLinks,
		Logger:     deps.Logger,
	}
	if _, err := builder.Build(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Watching %s\n", c.Source)
	return runWatch(deps.Ctx, builder, deps)
}

// runWatch rebuilds on changes until the context is canceled. Build errors
// are reported and watching continues; the next save gets another chance.
func runWatch(ctx context.Context, builder *unify.Builder, deps *Dependencies) error {
	watcher := &unify.Watcher{
		Dir:    builder.Source,
		Ignore: []string{filepath.Base(builder.Output)},
		OnChange: func() {
			result, err := builder.Build(ctx)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
				return
			}
			fmt.Fprintf(deps.Stdout, "Rebuilt %d pages and %d assets (%d unchanged)\n",
				result.Pages, result.Assets, result.Unchanged)
		},
	}
	return watcher.Run(ctx)
}

// InitCmd is the "init" subcommand.
type InitCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Directory to scaffold into"`
}

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	if err := unify.Scaffold(c.Dir); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scaffolded a new site in %s\n", c.Dir)
	fmt.Fprintln(deps.Stdout, "Run 'unify serve --watch' to start developing.")
	return nil
}
