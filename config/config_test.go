package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// load parses args the way the postview command does, reading the config file at path.
func load(t *testing.T, path string, args ...string) (*Config, error) {
	t.Helper()
	var cfg Config
	parser, err := kong.New(&cfg, Options(path)...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "localhost:8080", cfg.Listen)
	assert.True(t, filepath.IsAbs(cfg.Dir), "dir is resolved to an absolute path: %q", cfg.Dir)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:3000
timeout: 5s
listen: ":9000"
`)
	cfg, err := load(t, path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, ":9000", cfg.Listen)
}

func TestLoad_DashedKeys(t *testing.T) {
	cfg, err := load(t, writeConfig(t, "base-url: http://example.test\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", cfg.BaseURL)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "listen: \":9000\"\ntimeout: 5s\n")
	cfg, err := load(t, path, "--listen", ":7000")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := load(t, writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Listen)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		args []string
	}{
		{"corrupt yaml", "listen: [", nil},
		{"bad scheme", "base_url: ftp://example.test\n", nil},
		{"zero timeout", "", []string{"--timeout", "0s"}},
		{"bad duration", "timeout: soon\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, writeConfig(t, tt.body), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{BaseURL: "https://jsonplaceholder.typicode.com", Timeout: time.Second}
	assert.NoError(t, cfg.Validate())

	cfg.BaseURL = "::"
	assert.Error(t, cfg.Validate())
}
