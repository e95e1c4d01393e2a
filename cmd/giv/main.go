package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/anthropic"
	"github.com/fwdslsh/toolkit/config"
	"github.com/fwdslsh/toolkit/gemini"
	"github.com/fwdslsh/toolkit/git"
	"github.com/fwdslsh/toolkit/giv"
	"github.com/fwdslsh/toolkit/openai"
	openaisdk "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Dir is the repository the git commands run in. Defaults to the
	// current working directory.
	Dir string

	// NewGenerator creates the configured provider. Overridable for
	// end-to-end tests that run without API keys.
	NewGenerator func(ctx context.Context, cfg config.Giv) (toolkit.Generator, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Dir:          ".",
		NewGenerator: newGenerator,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	configPath := configPathFromArgs(args)
	cfg, err := config.LoadGiv(configPath)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:        ctx,
		Stdout:     stdout,
		Stderr:     stderr,
		Config:     cfg,
		ConfigPath: configPath,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("giv"),
		kong.Description("Generate commit messages, changelogs, and release notes from git history."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'giv --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cmd := commandName(kongCtx)
	switch cmd {
	case "message", "changelog", "release-notes", "summary":
		deps.Service = &giv.Service{
			History:     git.NewHistoryService(m.Dir),
			Tokens:      &toolkit.TokenEstimator{},
			TokenBudget: cfg.TokenBudget,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}
	}

	// Only generation commands pay the provider setup cost. A plain
	// changelog render works offline.
	if cmd == "message" || cmd == "release-notes" || cmd == "summary" ||
		(cmd == "changelog" && cli.Changelog.AI) {
		generator, err := m.NewGenerator(ctx, cfg)
		if err != nil {
			if toolkit.ErrorCode(err) == toolkit.EUNAVAILABLE {
				fmt.Fprintf(stderr, "Hint: %s\n", toolkit.ErrorMessage(err))
			}
			return err
		}
		deps.Service.Generator = generator
	}

	return kongCtx.Run(deps)
}

// newGenerator builds the provider named in the config. The API key comes
// from the provider's environment variable, or api_key_env when set.
func newGenerator(ctx context.Context, cfg config.Giv) (toolkit.Generator, error) {
	keyVar := cfg.APIKeyVar()
	apiKey := os.Getenv(keyVar)
	if apiKey == "" {
		return nil, toolkit.Errorf(toolkit.EUNAVAILABLE,
			"%s is not set. Export your %s API key to use generation commands.", keyVar, cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewGenerator(openaisdk.NewClient(apiKey), cfg.Model), nil
	case config.ProviderAnthropic:
		client := anthropicsdk.NewClient(option.WithAPIKey(apiKey))
		return anthropic.NewGenerator(client, cfg.Model), nil
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewGenerator(client, cfg.Model), nil
	}
}

// commandName returns the first segment of the resolved command path,
// e.g. "changelog" for "changelog" and "config" for "config set <key> <value>".
func commandName(kongCtx *kong.Context) string {
	fields := strings.Fields(kongCtx.Command())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
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
	return config.GivFile
}
