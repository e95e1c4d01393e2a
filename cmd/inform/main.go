package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/config"
	"github.com/fwdslsh/toolkit/crawl"
	"github.com/fwdslsh/toolkit/fs"
	"github.com/fwdslsh/toolkit/goquery"
	"github.com/fwdslsh/toolkit/htmltomarkdown"
	informhttp "github.com/fwdslsh/toolkit/http"
	"github.com/fwdslsh/toolkit/readability"
	"github.com/fwdslsh/toolkit/rod"
	toolkitslog "github.com/fwdslsh/toolkit/slog"
	"github.com/fwdslsh/toolkit/sqlite"
	"github.com/fwdslsh/toolkit/trafilatura"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the crawl cache.
	DB *sqlite.DB

	// NewBrowserFetcher creates the browser-backed fetcher. Overridable
	// for end-to-end tests that run without Chrome.
	NewBrowserFetcher func(timeout time.Duration) (toolkit.Fetcher, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewBrowserFetcher: func(timeout time.Duration) (toolkit.Fetcher, error) {
			return rod.NewFetcher(rod.WithFetchTimeout(timeout))
		},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// The config file seeds flag defaults, so it must be located before
	// Kong parses.
	cfg, err := config.LoadInform(configPathFromArgs(args))
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("inform"),
		kong.Description("Crawl a documentation site into local Markdown files."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"output_dir":  cfg.OutputDir,
			"max_pages":   strconv.Itoa(cfg.MaxPages),
			"concurrency": strconv.Itoa(cfg.Concurrency),
			"delay":       time.Duration(cfg.Delay).String(),
			"timeout":     time.Duration(cfg.Timeout).String(),
			"extractor":   cfg.Extractor,
			"config":      config.InformFile,
			"cache":       defaultCachePath(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL specified. Run 'inform --help' for usage")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Booleans from the config file act as defaults for flags left unset.
	cli.Browser = cli.Browser || cfg.Browser
	cli.Llms = cli.Llms || cfg.LLMS

	// Validate URL patterns before touching the network or the database.
	filter, err := toolkit.CompileURLFilter(
		append(append([]string{}, cfg.Include...), cli.Include...),
		append(append([]string{}, cfg.Exclude...), cli.Exclude...),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}
	deps.Filter = filter

	logger := toolkitslog.NewLogger(stderr, cli.Verbose)
	deps.Logger = logger

	m.DB = sqlite.NewDB(cli.Cache)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set --cache or INFORM_CACHE to use a different cache path")
		return fmt.Errorf("failed to open crawl cache at %q: %w", cli.Cache, err)
	}
	pageCache := sqlite.NewPageCacheService(m.DB)
	deps.Crawls = sqlite.NewCrawlLogService(m.DB)

	var extractor toolkit.Extractor
	switch cli.Extractor {
	case config.ExtractorReadability:
		extractor = readability.NewExtractor()
	default:
		extractor = trafilatura.NewExtractor()
	}

	detector := goquery.NewDetector()
	linkSelectors := goquery.NewRegistry(detector, goquery.NewGenericSelector())
	registerFrameworkSelectors(linkSelectors)

	httpFetcher := informhttp.NewFetcher(informhttp.WithTimeout(cli.Timeout))
	fetcher, err := m.chooseFetcher(ctx, cli, httpFetcher, detector, extractor, deps)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	outDir, err := filepath.Abs(cli.OutputDir)
	if err != nil {
		return err
	}
	deps.Store = fs.NewFileStore(filepath.Dir(outDir), filepath.Base(outDir))

	deps.Crawler = &crawl.Crawler{
		Sitemaps:      toolkitslog.NewLoggingSitemapService(informhttp.NewSitemapService(nil), logger),
		Fetcher:       toolkitslog.NewLoggingFetcher(fetcher, logger),
		Extractor:     extractor,
		Converter:     htmltomarkdown.NewConverter(),
		Store:         deps.Store,
		Cache:         pageCache,
		TokenCounter:  &toolkit.TokenEstimator{},
		LinkSelectors: toolkitslog.NewLoggingRegistry(linkSelectors, detector, logger),
		RateLimiter:   crawl.NewDomainLimiterFromDelay(cli.Delay),
		Concurrency:   cli.Concurrency,
		MaxPages:      cli.MaxPages,
		Refresh:       cli.Refresh,
	}

	return kongCtx.Run(deps)
}

// chooseFetcher decides between plain HTTP and a headless browser. The
// --browser flag forces the browser; otherwise a probe of the source URL
// picks whichever yields usable content. Dry runs always use HTTP since
// link discovery does not need rendering.
func (m *Main) chooseFetcher(ctx context.Context, cli *CLI, httpFetcher toolkit.Fetcher, detector toolkit.Prober, extractor toolkit.Extractor, deps *Dependencies) (toolkit.Fetcher, error) {
	if cli.DryRun {
		return httpFetcher, nil
	}

	if cli.Browser {
		browserFetcher, err := m.NewBrowserFetcher(cli.Timeout)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return browserFetcher, nil
	}

	browserFetcher, err := m.NewBrowserFetcher(cli.Timeout)
	if err != nil {
		deps.Logger.Debug("browser unavailable, using HTTP fetcher", "err", err)
		return httpFetcher, nil
	}

	chosen := crawl.ChooseFetcher(ctx, cli.URL, httpFetcher, browserFetcher, detector, extractor)
	if chosen == httpFetcher {
		_ = browserFetcher.Close()
	}
	return chosen, nil
}

// configPathFromArgs extracts the --config value ahead of full parsing.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return config.InformFile
}

func defaultCachePath() string {
	if path := os.Getenv("INFORM_CACHE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "inform.db"
	}
	dir := filepath.Join(home, ".inform")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}

// registerFrameworkSelectors registers all framework-specific link selectors with the registry.
func registerFrameworkSelectors(registry toolkit.LinkSelectorRegistry) {
	for _, framework := range []toolkit.Framework{
		toolkit.FrameworkDocusaurus,
		toolkit.FrameworkMkDocs,
		toolkit.FrameworkSphinx,
		toolkit.FrameworkVuePress,
		toolkit.FrameworkVitePress,
		toolkit.FrameworkGitBook,
		toolkit.FrameworkNextra,
	} {
		registry.Register(framework, goquery.NewFrameworkSelector(framework))
	}
}
