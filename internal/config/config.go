// Package config loads runtime tuning knobs for the scheduler, GC, and
// tracer from an argon.yaml file, overridable by environment variables
// (ARGON_*) so a deployment can tune without editing the file.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the set of knobs spec §5 names as tunable: VCore count, the
// OST ceiling, the fiber-pool size, GC behavior, and whether the tracer
// starts enabled.
type Config struct {
	VCores        int      `yaml:"vcores"`
	MaxOST        int      `yaml:"max_ost"`
	FiberPoolSize int      `yaml:"fiber_pool_size"`
	GC            string   `yaml:"gc"` // "auto" | "off"
	Trace         bool     `yaml:"trace"`
	TraceFilters  []string `yaml:"trace_filters"`
}

// Default returns the zero-tuned configuration (0 VCores/MaxOST means
// "let the scheduler derive it from GOMAXPROCS", matching spec §5's
// "absent configuration falls back to the host's detected parallelism").
func Default() *Config {
	return &Config{
		VCores:        0,
		MaxOST:        0,
		FiberPoolSize: 256,
		GC:            "auto",
		Trace:         false,
	}
}

// Load reads path (if it exists — a missing file is not an error, it
// just means "use defaults") and then applies ARGON_* environment
// overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ARGON_VCORES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.VCores = n
		}
	}
	if v := os.Getenv("ARGON_MAX_OST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxOST = n
		}
	}
	if v := os.Getenv("ARGON_FIBER_POOL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FiberPoolSize = n
		}
	}
	if v := os.Getenv("ARGON_GC"); v != "" {
		cfg.GC = v
	}
	if v := os.Getenv("ARGON_TRACE"); v != "" {
		cfg.Trace = v == "1" || strings.EqualFold(v, "true")
	}
}
