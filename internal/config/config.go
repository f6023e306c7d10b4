// Package config loads auditlog runtime settings.
//
// Settings come from built-in defaults, then an optional YAML file, then
// AUDITLOG_* environment variables. The merged result is checked against
// an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ImageConfig controls how attached photos are rewritten.
type ImageConfig struct {
	MaxWidth int `yaml:"maxWidth" json:"maxWidth"`
	Quality  int `yaml:"quality" json:"quality"`
}

// Config defines runtime settings for auditlog.
type Config struct {
	Database        string      `yaml:"database" json:"database"`
	ExportDir       string      `yaml:"exportDir" json:"exportDir"`
	ShareDir        string      `yaml:"shareDir" json:"shareDir"`
	ImageDir        string      `yaml:"imageDir" json:"imageDir"`
	RequirePriority bool        `yaml:"requirePriority" json:"requirePriority"`
	Image           ImageConfig `yaml:"image" json:"image"`
	LogLevel        string      `yaml:"logLevel" json:"logLevel"`
	LogFormat       string      `yaml:"logFormat" json:"logFormat"`
}

// Default returns the built-in settings, rooted at ~/.auditlog.
func Default() *Config {
	base := baseDir()
	return &Config{
		Database:  filepath.Join(base, "auditlog.db"),
		ExportDir: os.TempDir(),
		ImageDir:  filepath.Join(base, "images"),
		Image: ImageConfig{
			MaxWidth: 800,
			Quality:  70,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the configuration. An empty path loads DefaultPath() and
// tolerates it being absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file; defaults apply
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AUDITLOG_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("AUDITLOG_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("AUDITLOG_SHARE_DIR"); v != "" {
		cfg.ShareDir = v
	}
	if v := os.Getenv("AUDITLOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("AUDITLOG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
}

// Validate checks cfg against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultPath returns the default location for the config file.
func DefaultPath() string {
	if path := os.Getenv("AUDITLOG_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auditlog"
	}
	return filepath.Join(home, ".auditlog")
}
