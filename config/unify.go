package config

import (
	"github.com/fwdslsh/toolkit"
)

// UnifyFile is the unify site configuration file name, expected in the
// site root rather than hidden.
const UnifyFile = "unify.yaml"

// Unify configures the unify static site generator.
type Unify struct {
	Title      string      `yaml:"title"`
	BaseURL    string      `yaml:"base_url"`
	Output     string      `yaml:"output"`
	Port       int         `yaml:"port"`
	CheckLinks bool        `yaml:"check_links"`
	Assets     UnifyAssets `yaml:"assets"`
}

// UnifyAssets selects which non-page files are copied into the output.
type UnifyAssets struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// DefaultUnify returns the defaults used when unify.yaml is absent.
func DefaultUnify() Unify {
	return Unify{
		Output:     "dist",
		Port:       3000,
		CheckLinks: true,
	}
}

// LoadUnify loads path over the defaults. UNIFY_BASE_URL overrides the
// file value.
func LoadUnify(path string) (Unify, error) {
	cfg := DefaultUnify()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}

	envString("UNIFY_BASE_URL", &cfg.BaseURL)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values, returning EINVALID with field context.
func (c Unify) Validate() error {
	if c.Output == "" {
		return toolkit.Errorf(toolkit.EINVALID, "output: must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return toolkit.Errorf(toolkit.EINVALID, "port: must be between 1 and 65535")
	}
	return nil
}
