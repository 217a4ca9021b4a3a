// Package config defines all configuration structures for GeneHighlighter.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// RecognizerConfig selects and tunes the entity recognizer.
type RecognizerConfig struct {
	// Model is an opaque recognizer id forwarded to the sidecar. The value
	// "lexicon" selects the built-in dictionary recognizer instead.
	Model       string        `mapstructure:"model"`
	Endpoint    string        `mapstructure:"endpoint"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LexiconPath string        `mapstructure:"lexicon_path"`
	// Serialize wraps the recognizer in a mutex for non-reentrant backends.
	Serialize bool `mapstructure:"serialize"`
}

// FilterConfig holds the entity filter parameters.
type FilterConfig struct {
	Threshold float64  `mapstructure:"threshold"`
	MinLength int      `mapstructure:"min_length"`
	StopList  []string `mapstructure:"stop_list"`
}

// NormalizerConfig toggles the individual normalization rules.
type NormalizerConfig struct {
	StripMarkup    bool `mapstructure:"strip_markup"`
	DecodeEntities bool `mapstructure:"decode_entities"`
	ExpandGreek    bool `mapstructure:"expand_greek"`
	ExpandSymbols  bool `mapstructure:"expand_symbols"`
	FoldWidth      bool `mapstructure:"fold_width"`
}

// PipelineConfig holds engine execution parameters.
type PipelineConfig struct {
	Workers int  `mapstructure:"workers"`
	Strict  bool `mapstructure:"strict"`
	// Rescorer names the confidence recalculation applied after overlap
	// resolution. Only "none" is built in.
	Rescorer string `mapstructure:"rescorer"`
}

// PaletteEntry maps one entity label to its fill color and legend text.
// Kept as a list rather than a map because viper lower-cases map keys.
type PaletteEntry struct {
	Label       string `mapstructure:"label"`
	Color       string `mapstructure:"color"`
	Description string `mapstructure:"description"`
}

// OutputConfig controls the written workbook.
type OutputConfig struct {
	Suffix        string `mapstructure:"suffix"`
	CommentAuthor string `mapstructure:"comment_author"`
}

// CacheConfig holds the Redis recognizer-cache parameters.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// StorageConfig holds MinIO / S3-compatible object-storage parameters used for
// s3:// input and output locations.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MetricsConfig holds Prometheus parameters.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	// Textfile, when set, receives the run's metrics in text exposition format.
	Textfile string `mapstructure:"textfile"`
}

// ServerConfig holds HTTP server tunables for `genehl serve`.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Filter     FilterConfig     `mapstructure:"filter"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Palette    []PaletteEntry   `mapstructure:"palette"`
	Output     OutputConfig     `mapstructure:"output"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Server     ServerConfig     `mapstructure:"server"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate performs semantic validation of the fully-populated Config and
// returns the first error encountered.
func (c *Config) Validate() error {
	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Recognizer
	if c.Recognizer.Model == "" {
		return fmt.Errorf("config: recognizer.model is required")
	}
	if c.Recognizer.Model != ModelLexicon && c.Recognizer.Endpoint == "" {
		return fmt.Errorf("config: recognizer.endpoint is required for model %q", c.Recognizer.Model)
	}
	if c.Recognizer.Timeout <= 0 {
		return fmt.Errorf("config: recognizer.timeout must be > 0, got %s", c.Recognizer.Timeout)
	}

	// Filter
	if c.Filter.Threshold < 0 || c.Filter.Threshold > 1 {
		return fmt.Errorf("config: filter.threshold %.3f is out of range [0, 1]", c.Filter.Threshold)
	}
	if c.Filter.MinLength < 1 {
		return fmt.Errorf("config: filter.min_length must be ≥ 1, got %d", c.Filter.MinLength)
	}

	// Pipeline
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("config: pipeline.workers must be ≥ 1, got %d", c.Pipeline.Workers)
	}
	switch c.Pipeline.Rescorer {
	case RescorerNone:
	default:
		return fmt.Errorf("config: pipeline.rescorer %q is invalid; expected none", c.Pipeline.Rescorer)
	}

	// Palette
	if len(c.Palette) == 0 {
		return fmt.Errorf("config: palette must contain at least one label")
	}
	seen := make(map[string]struct{}, len(c.Palette))
	for i, p := range c.Palette {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			return fmt.Errorf("config: palette[%d].label is required", i)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("config: palette label %q is duplicated", label)
		}
		seen[label] = struct{}{}
		if !hexColor.MatchString(p.Color) {
			return fmt.Errorf("config: palette[%s].color %q is not a 6-digit hex RGB value", label, p.Color)
		}
	}

	// Cache
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("config: cache.addr is required when the cache is enabled")
	}
	if c.Cache.DB < 0 {
		return fmt.Errorf("config: cache.db must be ≥ 0, got %d", c.Cache.DB)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	return nil
}

//Personal.AI order the ending
