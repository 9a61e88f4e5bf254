// Package config loads the registry configuration from YAML or TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"ndef-formatter/internal/diagnostic"
	"ndef-formatter/registry"
)

const CurrentVersion = "1"

// Config is the on-disk registry configuration.
type Config struct {
	Version       string            `yaml:"version"                  toml:"version"`
	PreferredList string            `yaml:"preferred_list,omitempty" toml:"preferred_list,omitempty"`
	IdentityRoot  string            `yaml:"identity_root,omitempty"  toml:"identity_root,omitempty"`
	Aliases       map[string]string `yaml:"aliases,omitempty"        toml:"aliases,omitempty"`
	LogLevel      string            `yaml:"log_level,omitempty"      toml:"log_level,omitempty"`
}

// LoadFile loads a configuration file, choosing the decoder by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return Parse(data)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// ParseTOML parses TOML data into a Config.
func ParseTOML(data []byte) (*Config, error) {
	var cfg Config

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	cfg.PreferredList = strings.ToLower(strings.TrimSpace(cfg.PreferredList))
	if cfg.PreferredList == "" {
		cfg.PreferredList = registry.ListShapeSlice.String()
	}

	cfg.IdentityRoot = strings.TrimSpace(cfg.IdentityRoot)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.InfoLevel.String()
	}
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteFile writes a Config as YAML to the given path.
func WriteFile(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Level returns the configured log level, info when unset or unknown.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return level
}

// Validate checks the configuration against the names registered in r.
func (c *Config) Validate(r *registry.Registry) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if c.Version != CurrentVersion {
		diags.AddWarning("version", fmt.Sprintf("unknown config version %q, reading as %s", c.Version, CurrentVersion), "", "version")
	}

	if _, err := registry.ParseListShape(c.PreferredList); err != nil {
		diags.AddError("preferred_list", err.Error(), "", "preferred_list", "slice", "growable")
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		diags.AddWarning("log_level", fmt.Sprintf("unknown log level %q, using info", c.LogLevel), "", "log_level")
	}

	names := r.Names()
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}

	if c.IdentityRoot != "" && !r.HasRoot(c.IdentityRoot) {
		diags.AddError("identity_root", "identity root is neither declared nor registered",
			c.IdentityRoot, "identity_root", suggest(c.IdentityRoot, names)...)
	}

	aliases := make([]string, 0, len(c.Aliases))
	for alias := range c.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		target := c.Aliases[alias]
		key := "aliases." + alias

		if _, ok := known[target]; !ok {
			diags.AddError("alias_target", "alias target is not registered", target, key, suggest(target, names)...)
		}

		if _, ok := known[alias]; ok {
			diags.AddError("alias_collision", "alias collides with a registered name", alias, key)
		}
	}

	return diags
}

// Apply validates the configuration and binds it to r, which must not be sealed yet.
func (c *Config) Apply(r *registry.Registry) error {
	diags := c.Validate(r)
	if err := diags.Err(); err != nil {
		return err
	}

	shape, err := registry.ParseListShape(c.PreferredList)
	if err != nil {
		return err
	}

	if err := r.SetPreferredList(shape); err != nil {
		return err
	}

	if c.IdentityRoot != "" {
		if err := r.SetIdentityRoot(c.IdentityRoot); err != nil {
			return err
		}
	}

	aliases := make([]string, 0, len(c.Aliases))
	for alias := range c.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		if err := r.Alias(alias, c.Aliases[alias]); err != nil {
			return fmt.Errorf("failed to bind alias %s: %w", alias, err)
		}
	}

	return nil
}

// suggest returns registered names sharing a case-insensitive prefix with name.
func suggest(name string, names []string) []string {
	if len(name) < 2 {
		return nil
	}

	prefix := strings.ToLower(name[:2])

	var out []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), prefix) {
			out = append(out, n)
		}
		if len(out) == 3 {
			break
		}
	}

	return out
}
