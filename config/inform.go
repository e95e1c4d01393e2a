package config

import (
	"regexp"
	"time"

	"github.com/fwdslsh/toolkit"
)

// InformFile is the inform configuration file name.
const InformFile = ".inform.yaml"

// Extractor engines inform can use.
const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Inform configures the inform crawler. Flags win over these values.
type Inform struct {
	OutputDir   string   `yaml:"output_dir"`
	MaxPages    int      `yaml:"max_pages"`
	Concurrency int      `yaml:"concurrency"`
	Delay       Duration `yaml:"delay"`
	Timeout     Duration `yaml:"timeout"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Extractor   string   `yaml:"extractor"`
	Browser     bool     `yaml:"browser"`
	LLMS        bool     `yaml:"llms"`
}

// DefaultInform returns the defaults used when .inform.yaml is absent.
func DefaultInform() Inform {
	return Inform{
		OutputDir:   "output",
		MaxPages:    1000,
		Concurrency: 10,
		Delay:       Duration(time.Second),
		Timeout:     Duration(30 * time.Second),
		Extractor:   ExtractorTrafilatura,
	}
}

// LoadInform loads path over the defaults. INFORM_OUTPUT_DIR overrides
// the file value.
func LoadInform(path string) (Inform, error) {
	cfg := DefaultInform()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}

	envString("INFORM_OUTPUT_DIR", &cfg.OutputDir)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values, returning EINVALID with field context.
// Include and exclude patterns must be valid regular expressions.
func (c Inform) Validate() error {
	if c.MaxPages <= 0 {
		return toolkit.Errorf(toolkit.EINVALID, "max_pages: must be positive")
	}
	if c.Concurrency <= 0 {
		return toolkit.Errorf(toolkit.EINVALID, "concurrency: must be positive")
	}
	if c.Delay < 0 {
		return toolkit.Errorf(toolkit.EINVALID, "delay: must not be negative")
	}
	switch c.Extractor {
	case ExtractorTrafilatura, ExtractorReadability:
	default:
		return toolkit.Errorf(toolkit.EINVALID, "extractor: unknown extractor %q", c.Extractor)
	}
	for _, pattern := range c.Include {
		if _, err := regexp.Compile(pattern); err != nil {
			return toolkit.Errorf(toolkit.EINVALID, "include: invalid pattern %q", pattern)
		}
	}
	for _, pattern := range c.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			return toolkit.Errorf(toolkit.EINVALID, "exclude: invalid pattern %q", pattern)
		}
	}
	return nil
}
