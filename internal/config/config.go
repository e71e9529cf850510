// YAML config loader with environment overrides and CUE validation
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"electrolyzer-sim/internal/telemetry"
)

// Facility describes the simulated facility.
type Facility struct {
	ID          int     `yaml:"id"`
	Type        string  `yaml:"type"`
	PressureBar float64 `yaml:"pressure_bar"`
	PurityPct   float64 `yaml:"purity_pct"`
}

// Config is the root configuration of the publisher.
type Config struct {
	Facility         Facility `yaml:"facility"`
	TickSeconds      float64  `yaml:"tick_seconds"`
	Kappa            float64  `yaml:"kappa"`
	Origins          []string `yaml:"origins"`
	FaultCodes       []string `yaml:"fault_codes"`
	SubscriberBuffer int      `yaml:"subscriber_buffer"`
	ListenAddr       string   `yaml:"listen_addr"`
}

// Environment variables overriding file values.
const (
	EnvTickSeconds  = "TICK_SECONDS"
	EnvKappa        = "KAPPA"
	EnvOrigins      = "ORIGINS"
	EnvFaultCodes   = "FAULT_CODES"
	EnvListenAddr   = "LISTEN_ADDR"
	EnvFacilityID   = "FACILITY_ID"
	EnvFacilityType = "FACILITY_TYPE"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Facility: Facility{
			ID:          telemetry.DefaultFacility.ID,
			Type:        telemetry.DefaultFacility.Type,
			PressureBar: telemetry.DefaultFacility.PressureBar,
			PurityPct:   telemetry.DefaultFacility.PurityPct,
		},
		TickSeconds:      2.0,
		Kappa:            telemetry.DefaultKappa,
		Origins:          []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		FaultCodes:       append([]string(nil), telemetry.DefaultFaultCodes...),
		SubscriberBuffer: 256,
		ListenAddr:       ":5000",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, then validates the result against the CUE schema.
// A missing file is not an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case optional && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTickSeconds); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTickSeconds, err)
		}
		c.TickSeconds = f
	}
	if v, ok := lookup(EnvKappa); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvKappa, err)
		}
		c.Kappa = f
	}
	if v, ok := lookup(EnvOrigins); ok {
		c.Origins = splitList(v)
	}
	if v, ok := lookup(EnvFaultCodes); ok {
		c.FaultCodes = splitList(v)
	}
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		c.ListenAddr = v
	}
	if v, ok := lookup(EnvFacilityID); ok {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFacilityID, err)
		}
		c.Facility.ID = id
	}
	if v, ok := lookup(EnvFacilityType); ok && v != "" {
		c.Facility.Type = v
	}
	return nil
}

// splitList parses a comma separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Spec converts the facility section into the simulator's descriptor.
func (c *Config) Spec() telemetry.FacilitySpec {
	return telemetry.FacilitySpec{
		ID:          c.Facility.ID,
		Type:        c.Facility.Type,
		PressureBar: c.Facility.PressureBar,
		PurityPct:   c.Facility.PurityPct,
	}
}

// TickInterval returns the tick period as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds * float64(time.Second))
}
