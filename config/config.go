// Package config loads the YAML configuration files of the toolkit CLIs:
// .giv.yaml, .inform.yaml, and unify.yaml. Missing files yield defaults,
// unknown keys are rejected, and environment variables override file
// values.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/fwdslsh/toolkit"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that marshals as a string like "1500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return toolkit.Errorf(toolkit.EINVALID, "invalid duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// load decodes path into v, leaving v untouched when the file does not
// exist. Unknown keys are an EINVALID error naming the file.
func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return toolkit.Errorf(toolkit.EINVALID, "Invalid config %s: %s", path, err)
	}
	return nil
}

// save writes v to path as YAML, atomically.
func save(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0644)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
