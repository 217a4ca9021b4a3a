// Package config provides configuration loading, defaults, and validation for
// GeneHighlighter.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "GENEHL"

// newViper builds a Viper instance with YAML file type, GENEHL_ env prefix,
// automatic env binding, and a "." → "_" key replacer so that nested keys like
// "filter.threshold" resolve to "GENEHL_FILTER_THRESHOLD".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every scalar key so AutomaticEnv can see it during
// Unmarshal, and seeds the defaults whose zero value is a valid setting.
func registerKeys(v *viper.Viper) {
	v.SetDefault("filter.threshold", DefaultFilterThreshold)

	n := DefaultNormalizer()
	v.SetDefault("normalizer.strip_markup", n.StripMarkup)
	v.SetDefault("normalizer.decode_entities", n.DecodeEntities)
	v.SetDefault("normalizer.expand_greek", n.ExpandGreek)
	v.SetDefault("normalizer.expand_symbols", n.ExpandSymbols)
	v.SetDefault("normalizer.fold_width", n.FoldWidth)

	for _, key := range []string{
		"log.level", "log.format",
		"recognizer.model", "recognizer.endpoint", "recognizer.timeout",
		"recognizer.lexicon_path", "recognizer.serialize",
		"filter.min_length",
		"pipeline.workers", "pipeline.strict", "pipeline.rescorer",
		"output.suffix", "output.comment_author",
		"cache.enabled", "cache.addr", "cache.password", "cache.db", "cache.ttl", "cache.key_prefix",
		"storage.endpoint", "storage.access_key", "storage.secret_key", "storage.region", "storage.use_ssl",
		"metrics.namespace", "metrics.textfile",
		"server.port", "server.mode",
	} {
		_ = v.BindEnv(key)
	}
}

// Override adjusts a Config after defaults are applied and before it is
// validated. The CLI uses it to apply flag values.
type Override func(*Config)

// Load reads the YAML file at configPath (optional; "" means environment only),
// merges any GENEHL_* environment overrides, applies defaults for unset fields,
// runs overrides in order and validates the result.
func Load(configPath string, overrides ...Override) (*Config, error) {
	v := newViper()
	if configPath == "" {
		return unmarshalAndFinalize(v, overrides)
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v, overrides)
}

// LoadFromEnv builds a Config entirely from GENEHL_* environment variables.
//
//	GENEHL_<SECTION>_<FIELD>   e.g.  GENEHL_RECOGNIZER_ENDPOINT, GENEHL_CACHE_ADDR
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults and overrides, and validates the result.
func unmarshalAndFinalize(v *viper.Viper, overrides []Override) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)
	for _, o := range overrides {
		o(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file is modified on disk. Invalid revisions are reported to
// onError (which may be nil) and never reach onChange. overrides are applied to
// every revision. Watch is non-blocking; viper runs the fsnotify loop in its
// own goroutine.
func Watch(configPath string, onChange func(*Config), onError func(error), overrides ...Override) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v, overrides)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is a convenience wrapper around Load that panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
