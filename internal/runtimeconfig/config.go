// Package runtimeconfig holds the compiler settings and their consistency
// checks.
package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrFormatVersionRequired     = errors.New("messageml config: format version is required")
	ErrTokenStrategyUnknown      = errors.New("messageml config: token strategy is invalid")
	ErrTokenSeedRequired         = errors.New("messageml config: deterministic tokens require a seed")
	ErrEmojiTableUnknown         = errors.New("messageml config: emoji table is invalid")
	ErrLoggingProviderRequired   = errors.New("messageml config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown    = errors.New("messageml config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("messageml config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("messageml config: logging format is invalid")
	ErrPreviewExtensionsDisabled = errors.New("messageml config: preview extensions require the preview feature")
)

// Token strategies.
const (
	TokensRandom        = "random"
	TokensDeterministic = "deterministic"
)

// Emoji tables.
const (
	EmojiGitHub = "github"
	EmojiNone   = "none"
)

type Config struct {
	Format    FormatConfig    `yaml:"format"`
	Entities  EntitiesConfig  `yaml:"entities"`
	Templates TemplatesConfig `yaml:"templates"`
	Tokens    TokensConfig    `yaml:"tokens"`
	Emoji     EmojiConfig     `yaml:"emoji"`
	Preview   PreviewConfig   `yaml:"preview"`
	Logging   LoggingConfig   `yaml:"logging"`
	Features  Features        `yaml:"features"`
}

type FormatConfig struct {
	// Version is written to data-version when a request carries none.
	Version string `yaml:"version"`
}

type EntitiesConfig struct {
	// TolerateUnreferenced keeps envelope entries no node refers to.
	TolerateUnreferenced bool `yaml:"tolerate_unreferenced"`
	ValidateSchema       bool `yaml:"validate_schema"`
}

type TemplatesConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TokensConfig struct {
	Strategy string `yaml:"strategy"`
	Seed     string `yaml:"seed"`
}

type EmojiConfig struct {
	Table   string            `yaml:"table"`
	Aliases map[string]string `yaml:"aliases"`
}

type PreviewConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

type Features struct {
	Logger          bool `yaml:"logger"`
	Instrumentation bool `yaml:"instrumentation"`
	Preview         bool `yaml:"preview"`
}

func DefaultConfig() Config {
	return Config{
		Format: FormatConfig{Version: "2.0"},
		Entities: EntitiesConfig{
			TolerateUnreferenced: true,
			ValidateSchema:       true,
		},
		Templates: TemplatesConfig{Enabled: true},
		Tokens:    TokensConfig{Strategy: TokensRandom},
		Emoji:     EmojiConfig{Table: EmojiGitHub},
		Preview: PreviewConfig{
			SafeMode: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Instrumentation: true,
			Preview:         true,
		},
	}
}

// LoadFile overlays the YAML document at path onto DefaultConfig and
// validates the result.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("messageml config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("messageml config: decode %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Format.Version) == "" {
		return ErrFormatVersionRequired
	}

	switch normalize(cfg.Tokens.Strategy) {
	case "", TokensRandom:
	case TokensDeterministic:
		if strings.TrimSpace(cfg.Tokens.Seed) == "" {
			return ErrTokenSeedRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrTokenStrategyUnknown, cfg.Tokens.Strategy)
	}

	switch normalize(cfg.Emoji.Table) {
	case "", EmojiGitHub, EmojiNone:
	default:
		return fmt.Errorf("%w: %s", ErrEmojiTableUnknown, cfg.Emoji.Table)
	}

	if !cfg.Features.Preview && len(cfg.Preview.Extensions) > 0 {
		return ErrPreviewExtensionsDisabled
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "console" && provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := normalize(cfg.Logging.Level); level != "" && !oneOf(level, "trace", "debug", "info", "warn", "warning", "error", "fatal") {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := normalize(cfg.Logging.Format); provider == "gologger" && format != "" && !oneOf(format, "json", "console", "pretty") {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func oneOf(value string, options ...string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return false
}
