// Package config provides configuration management for bsp.
package config

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied to empty fields.
const (
	DefaultTheme     = "bootstrap"
	DefaultExtension = ".bpr"
)

// Config holds the bsp configuration.
type Config struct {
	Theme          string            `yaml:"theme,omitempty"`
	Templates      string            `yaml:"templates,omitempty"`
	Extensions     []string          `yaml:"extensions,omitempty"`
	ForceRewrite   bool              `yaml:"force_rewrite,omitempty"`
	CopyUnparsable bool              `yaml:"copy_unparsable,omitempty"`
	Workers        int               `yaml:"workers,omitempty"`
	Strict         bool              `yaml:"strict,omitempty"`
	Aliases        map[string]string `yaml:"aliases,omitempty"`
	Images         map[string]string `yaml:"images,omitempty"`
}

// ApplyDefaults fills empty fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{DefaultExtension}
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks that every set field holds a usable value.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		if ext == ".md" {
			return errors.New("extension .md is reserved for markdown pages")
		}
	}
	for name := range c.Aliases {
		if name == "" || strings.ContainsAny(name, "[]") {
			return fmt.Errorf("alias name %q must be non-empty and free of brackets", name)
		}
	}
	for name, url := range c.Images {
		if name == "" || url == "" {
			return fmt.Errorf("image %q must have a name and a url", name)
		}
	}
	return nil
}

// HasExtension reports whether path ends with one of the markup extensions.
func (c *Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Merge overrides c with every field set in o. Alias and image maps are merged key by key.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Theme != "" {
		c.Theme = o.Theme
	}
	if o.Templates != "" {
		c.Templates = o.Templates
	}
	if len(o.Extensions) > 0 {
		c.Extensions = o.Extensions
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	c.ForceRewrite = c.ForceRewrite || o.ForceRewrite
	c.CopyUnparsable = c.CopyUnparsable || o.CopyUnparsable
	c.Strict = c.Strict || o.Strict
	c.Aliases = mergeMaps(c.Aliases, o.Aliases)
	c.Images = mergeMaps(c.Images, o.Images)
}

func mergeMaps(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: BSP_* → BOOTSTRAPARSE_* → existing config value
func (c *Config) LoadFromEnv() {
	if theme := getEnvWithFallback("BSP_THEME", "BOOTSTRAPARSE_THEME"); theme != "" {
		c.Theme = theme
	}
	if templates := getEnvWithFallback("BSP_TEMPLATES", "BOOTSTRAPARSE_TEMPLATES"); templates != "" {
		c.Templates = templates
	}
	if exts := getEnvWithFallback("BSP_EXTENSIONS", "BOOTSTRAPARSE_EXTENSIONS"); exts != "" {
		c.Extensions = nil
		for _, ext := range strings.Split(exts, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				c.Extensions = append(c.Extensions, ext)
			}
		}
	}
	if workers := getEnvWithFallback("BSP_WORKERS", "BOOTSTRAPARSE_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			log.Printf("WARN: ignoring BSP_WORKERS=%q: %v", workers, err)
		} else {
			c.Workers = n
		}
	}
	loadBool(&c.ForceRewrite, "BSP_FORCE_REWRITE", "BOOTSTRAPARSE_FORCE_REWRITE")
	loadBool(&c.CopyUnparsable, "BSP_COPY_UNPARSABLE", "BOOTSTRAPARSE_COPY_UNPARSABLE")
	loadBool(&c.Strict, "BSP_STRICT", "BOOTSTRAPARSE_STRICT")
}

func loadBool(dst *bool, primary, fallback string) {
	v := getEnvWithFallback(primary, fallback)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: ignoring %s=%q: %v", primary, v, err)
		return
	}
	*dst = b
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bsp", "config.yml")
	}

	// Fall back to ~/.config/bsp/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".bsp", "config.yml")
	}

	return filepath.Join(home, ".config", "bsp", "config.yml")
}

// SiteConfigPath returns the path of the configuration a site carries in its own tree.
func SiteConfigPath(origin string) string {
	return filepath.Join(origin, "configs", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// LoadForSite layers the user configuration, the site configuration found under origin
// (when present) and the environment, then applies defaults.
func LoadForSite(userPath, origin string) (*Config, error) {
	cfg, err := Load(userPath)
	if err != nil {
		cfg = &Config{}
	}

	sitePath := SiteConfigPath(origin)
	if _, statErr := os.Stat(sitePath); statErr == nil {
		site, err := Load(sitePath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(site)
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
