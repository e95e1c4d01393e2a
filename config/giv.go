package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/fwdslsh/toolkit"
	"github.com/google/renameio/v2"
)

// GivFile is the giv configuration file name, looked up in the repository
// root.
const GivFile = ".giv.yaml"

// Providers giv can generate with.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Giv configures the giv CLI.
type Giv struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
	TokenBudget int     `yaml:"token_budget"`
}

// DefaultGiv returns the defaults used when .giv.yaml is absent.
func DefaultGiv() Giv {
	return Giv{
		Provider:    ProviderGemini,
		Temperature: 0.3,
	}
}

// LoadGiv loads path over the defaults. GIV_PROVIDER and GIV_MODEL
// override file values.
func LoadGiv(path string) (Giv, error) {
	cfg := DefaultGiv()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}

	envString("GIV_PROVIDER", &cfg.Provider)
	envString("GIV_MODEL", &cfg.Model)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveGiv writes the configuration to path atomically.
func SaveGiv(path string, cfg Giv) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return save(path, cfg)
}

// Validate checks field values, returning EINVALID with field context.
func (c Giv) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return toolkit.Errorf(toolkit.EINVALID, "provider: unknown provider %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return toolkit.Errorf(toolkit.EINVALID, "temperature: must be between 0 and 2")
	}
	if c.TokenBudget < 0 {
		return toolkit.Errorf(toolkit.EINVALID, "token_budget: must not be negative")
	}
	return nil
}

// APIKeyVar returns the environment variable holding the provider's API
// key, honoring an api_key_env override.
func (c Giv) APIKeyVar() string {
	if c.APIKeyEnv != "" {
		return c.APIKeyEnv
	}
	switch c.Provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Get returns the value of a configuration key.
func (c Giv) Get(key string) (string, error) {
	switch key {
	case "provider":
		return c.Provider, nil
	case "model":
		return c.Model, nil
	case "api_key_env":
		return c.APIKeyEnv, nil
	case "temperature":
		return strconv.FormatFloat(float64(c.Temperature), 'g', -1, 32), nil
	case "token_budget":
		return strconv.Itoa(c.TokenBudget), nil
	}
	return "", toolkit.Errorf(toolkit.EINVALID, "Unknown config key %q.", key)
}

// Set updates a configuration key from its string form.
func (c *Giv) Set(key, value string) error {
	switch key {
	case "provider":
		c.Provider = value
	case "model":
		c.Model = value
	case "api_key_env":
		c.APIKeyEnv = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return toolkit.Errorf(toolkit.EINVALID, "temperature: not a number: %q", value)
		}
		c.Temperature = float32(f)
	case "token_budget":
		n, err := strconv.Atoi(value)
		if err != nil {
			return toolkit.Errorf(toolkit.EINVALID, "token_budget: not a number: %q", value)
		}
		c.TokenBudget = n
	default:
		return toolkit.Errorf(toolkit.EINVALID, "Unknown config key %q.", key)
	}
	return c.Validate()
}

// List returns all keys and their current values, sorted by key.
func (c Giv) List() []string {
	keys := []string{"provider", "model", "api_key_env", "temperature", "token_budget"}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, key := range keys {
		value, _ := c.Get(key)
		entries = append(entries, fmt.Sprintf("%s=%s", key, value))
	}
	return entries
}

const givStarter = `# giv configuration.

# LLM provider: gemini, openai, or anthropic.
provider: gemini

# Model override. Empty uses the provider's default.
# model: gemini-2.5-flash

# Environment variable holding the API key. Empty uses the provider's
# conventional variable (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY).
# api_key_env: MY_API_KEY

# Sampling temperature, 0 to 2.
temperature: 0.3

# Token budget before large diffs are summarized in chunks.
# token_budget: 24000
`

// InitGiv writes a commented starter .giv.yaml. An existing file is an
// ECONFLICT unless force is set.
func InitGiv(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return toolkit.Errorf(toolkit.ECONFLICT, "%s already exists. Use --force to overwrite.", path)
		}
	}
	return renameio.WriteFile(path, []byte(givStarter), 0644)
}
