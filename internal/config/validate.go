// CUE schema validation code
package config

import (
	_ "embed"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

// MaxTickSeconds is the slowest tick period accepted, one day.
const MaxTickSeconds = 86400

//go:embed schema.cue
var schemaSource []byte

// Validate checks cfg against the embedded #Config CUE definition.
func Validate(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := ValidateYAML(data); err != nil {
		return err
	}
	if cfg.TickSeconds > MaxTickSeconds {
		return fmt.Errorf("validation failed: tick_seconds must not exceed %d", MaxTickSeconds)
	}
	if len(cfg.FaultCodes) == 0 {
		return errors.New("validation failed: fault_codes must not be empty")
	}
	return nil
}

// ValidateYAML validates a YAML document against the embedded schema.
func ValidateYAML(data []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schemaSource)
	if schemaVal.Err() != nil {
		return fmt.Errorf("compile CUE schema: %w", schemaVal.Err())
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Config"))

	file, err := cueyaml.Extract("config.yaml", data)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)

	// Merge values with schema
	final := def.Unify(configVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
