package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/sidewinder/internal/config"
)

func TestDecodeFillsDefaults(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader("format: json\n"))
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 1, cfg.Context())
	assert.False(t, cfg.FailOnWarning)
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecodeKeepsExplicitZeroContext(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader("context_lines: 0\nfail_on_warning: true\nlog_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Context())
	assert.True(t, cfg.FailOnWarning)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "colour: true\n", "field colour not found"},
		{"unknown format", "format: xml\n", `unknown format "xml"`},
		{"unknown level", "log_level: loud\n", `unknown log_level "loud"`},
		{"negative context", "context_lines: -2\n", "context_lines must not be negative"},
		{"wrong type", "fail_on_warning: [1]\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\ncontext_lines: 3\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.FormatYAML, cfg.Format)
	assert.Equal(t, 3, cfg.Context())

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestLoadWithoutDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
