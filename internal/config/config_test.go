package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argon.yaml")
	content := "vcores: 4\nmax_ost: 16\ngc: off\ntrace: true\ntrace_filters:\n  - \"sched.*\"\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 4, cfg.VCores)
	assert.Equal(t, 16, cfg.MaxOST)
	assert.Equal(t, "off", cfg.GC)
	assert.True(t, cfg.Trace)
	assert.Equal(t, []string{"sched.*"}, cfg.TraceFilters)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argon.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("vcores: 4\n"), 0o644))

	t.Setenv("ARGON_VCORES", "8")
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 8, cfg.VCores)
}

func TestEnvTraceParsing(t *testing.T) {
	t.Setenv("ARGON_TRACE", "true")
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.True(t, cfg.Trace)
}
