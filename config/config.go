// Package config holds the settings of the postview command and loads them
// from flags and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing file is not an error.
const DefaultPath = "~/.config/postview/config.yaml"

// Config represents the postview settings. Flags win over the config file.
type Config struct {
	BaseURL string        `yaml:"base_url" kong:"name='base-url',help='Placeholder service base URL',default='https://jsonplaceholder.typicode.com'"`
	Timeout time.Duration `yaml:"timeout" kong:"help='Overall deadline for fetching and rendering',default='30s'"`
	Listen  string        `yaml:"listen" kong:"help='Address the page is served on',default='localhost:8080'"`
	Dir     string        `yaml:"dir" kong:"help='Directory holding main.wasm and wasm_exec.js',default='.',type='path'"`
}

// Validate reports settings that cannot work. kong calls it after parsing.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base-url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base-url %q: scheme must be http or https", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// Options returns the kong options that read the config file at the given
// paths, DefaultPath when none are given.
func Options(paths ...string) []kong.Option {
	if len(paths) == 0 {
		paths = []string{DefaultPath}
	}
	return []kong.Option{kong.Configuration(Loader, paths...)}
}

// Loader is a kong.ConfigurationLoader for YAML files. Keys may use
// underscores or dashes: base_url and base-url both set --base-url.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			if v, ok := values[name]; ok {
				return v, nil
			}
		}
		return nil, nil
	}
	return f, nil
}
