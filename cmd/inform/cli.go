package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/crawl"
	"github.com/fwdslsh/toolkit/fs"
	"github.com/fwdslsh/toolkit/llmstxt"
)

// Dependencies holds the wired services the crawl command runs against.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Crawler *crawl.Crawler
	Crawls  toolkit.CrawlLog
	Store   *fs.FileStore
	Filter  *toolkit.URLFilter
}

// CLI defines the command-line interface structure for Kong.
// inform is a single-command tool: the URL to crawl is the only argument.
type CLI struct {
	URL string `arg:"" help:"Documentation site URL to crawl"`

	OutputDir   string        `short:"o" default:"${output_dir}" help:"Directory to write Markdown files into"`
	MaxPages    int           `default:"${max_pages}" help:"Maximum number of pages per crawl"`
	Concurrency int           `short:"c" default:"${concurrency}" help:"Concurrent fetch limit"`
	Delay       time.Duration `default:"${delay}" help:"Minimum delay between requests to the same domain"`
	Timeout     time.Duration `default:"${timeout}" help:"Per-request fetch timeout"`
	Include     []string      `help:"Only crawl URLs matching these regexes (repeatable)"`
	Exclude     []string      `help:"Skip URLs matching these regexes (repeatable)"`
	Extractor   string        `default:"${extractor}" enum:"trafilatura,readability" help:"Content extraction engine"`
	Browser     bool          `help:"Force browser-based fetching"`
	Refresh     bool          `help:"Recrawl pages even when cached content is unchanged"`
	Llms        bool          `name:"llms" help:"Generate llms.txt and llms-full.txt after the crawl"`
	DryRun      bool          `help:"List discovered URLs without crawling"`
	Config      string        `default:"${config}" help:"Config file path"`
	Cache       string        `default:"${cache}" help:"Crawl cache database path"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}

// Run executes the crawl.
func (c *CLI) Run(deps *Dependencies) error {
	if c.DryRun {
		urls, err := deps.Crawler.Sitemaps.DiscoverURLs(deps.Ctx, c.URL, deps.Filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
			return err
		}
		if len(urls) == 0 {
			urls, err = deps.Crawler.DiscoverURLs(deps.Ctx, c.URL, deps.Filter)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
				return err
			}
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		fmt.Fprintf(deps.Stdout, "%d URLs discovered\n", len(urls))
		return nil
	}

	session := &toolkit.Crawl{
		SourceURL: c.URL,
		OutputDir: deps.Store.Dir(),
	}
	if err := deps.Crawls.CreateCrawl(deps.Ctx, session); err != nil {
		// The crawl log is bookkeeping; a failed insert never blocks a crawl.
		deps.Logger.Debug("crawl log insert failed", "err", err)
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			if c.Verbose {
				fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n",
					event.Completed, event.Total, crawl.TruncateURL(event.URL, 70))
			}
		case crawl.ProgressSkipped:
			deps.Logger.Debug("unchanged, skipped", "url", event.URL)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 70), event.Error)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, deps.Filter, progress)
	if err != nil {
		if abortErr := deps.Store.Abort(); abortErr != nil {
			deps.Logger.Debug("abort failed", "err", abortErr)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	if result.Saved == 0 && result.Skipped == 0 && result.Failed == 0 {
		if err := deps.Store.Abort(); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, "No URLs discovered.")
		return nil
	}

	if err := deps.Store.Commit(); err != nil {
		return fmt.Errorf("committing output: %w", err)
	}

	if _, err := deps.Crawls.FinishCrawl(deps.Ctx, session.ID, toolkit.CrawlUpdate{
		Saved:      result.Saved,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		Bytes:      result.Bytes,
		FinishedAt: time.Now(),
	}); err != nil {
		deps.Logger.Debug("crawl log update failed", "err", err)
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages to %s (%s, %s)\n",
		result.Saved, deps.Store.Dir(), crawl.FormatBytes(result.Bytes), crawl.FormatTokens(result.Tokens))
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d unchanged pages\n", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "Failed %d pages\n", result.Failed)
	}

	if c.Llms {
		if err := llmstxt.Write(deps.Store.Dir(), llmstxt.Options{}); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s and %s\n", llmstxt.IndexFile, llmstxt.FullFile)
	}

	return nil
}
