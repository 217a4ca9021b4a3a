// Package config provides configuration loading, defaults, and validation for
// GeneHighlighter.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ModelLexicon selects the built-in dictionary recognizer.
	ModelLexicon = "lexicon"
	// RescorerNone keeps recognizer confidences unchanged.
	RescorerNone = "none"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultRecognizerModel   = "en_ner_bionlp13cg_md"
	DefaultRecognizerTimeout = 30 * time.Second

	DefaultFilterThreshold = 0.7
	DefaultFilterMinLength = 2

	DefaultPipelineWorkers = 4

	DefaultOutputSuffix  = "_highlighted"
	DefaultCommentAuthor = "genehl"

	DefaultCacheAddr      = "localhost:6379"
	DefaultCacheTTL       = 24 * time.Hour
	DefaultCacheKeyPrefix = "genehl:"

	DefaultStorageEndpoint = "localhost:9000"

	DefaultMetricsNamespace = "genehl"

	DefaultServerPort = 8080
	DefaultServerMode = "release"
)

// DefaultPalette is the label set and colors of the highlighter. GENE is an
// alias used by recognizers that emit the short label.
func DefaultPalette() []PaletteEntry {
	return []PaletteEntry{
		{Label: "GENE_OR_GENE_PRODUCT", Color: "FFFF00", Description: "Gene/Gene Product"},
		{Label: "PROTEIN", Color: "90EE90", Description: "Protein"},
		{Label: "CHEMICAL", Color: "FFA07A", Description: "Chemical"},
		{Label: "DISEASE", Color: "FFB6C1", Description: "Disease"},
		{Label: "GENE", Color: "FFFF00", Description: "Gene"},
	}
}

// DefaultStopList holds short tokens that recognizers routinely tag but that
// carry no meaning on their own.
func DefaultStopList() []string {
	return []string{"protein", "gene", "cell", "cells", "cancer", "patients", "disease"}
}

// DefaultNormalizer enables every normalization rule.
func DefaultNormalizer() NormalizerConfig {
	return NormalizerConfig{
		StripMarkup:    true,
		DecodeEntities: true,
		ExpandGreek:    true,
		ExpandSymbols:  true,
		FoldWidth:      true,
	}
}

// Default returns a fully-defaulted, valid Config. Boolean toggles that default
// to true and the filter threshold are set here and through viper defaults in
// the loader, because ApplyDefaults cannot tell an explicit false or 0 from an
// unset field.
func Default() *Config {
	cfg := &Config{
		Normalizer: DefaultNormalizer(),
		Filter:     FilterConfig{Threshold: DefaultFilterThreshold},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set by the caller are left unchanged so explicit configuration wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Recognizer ────────────────────────────────────────────────────────────
	if cfg.Recognizer.Model == "" {
		cfg.Recognizer.Model = DefaultRecognizerModel
	}
	if cfg.Recognizer.Timeout == 0 {
		cfg.Recognizer.Timeout = DefaultRecognizerTimeout
	}

	// ── Filter ────────────────────────────────────────────────────────────────
	// Threshold is seeded by Default and the loader; 0 accepts unscored entities.
	if cfg.Filter.MinLength == 0 {
		cfg.Filter.MinLength = DefaultFilterMinLength
	}
	if cfg.Filter.StopList == nil {
		cfg.Filter.StopList = DefaultStopList()
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = DefaultPipelineWorkers
	}
	if cfg.Pipeline.Rescorer == "" {
		cfg.Pipeline.Rescorer = RescorerNone
	}

	// ── Palette ───────────────────────────────────────────────────────────────
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultPalette()
	}

	// ── Output ────────────────────────────────────────────────────────────────
	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = DefaultOutputSuffix
	}
	if cfg.Output.CommentAuthor == "" {
		cfg.Output.CommentAuthor = DefaultCommentAuthor
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.Endpoint == "" {
		cfg.Storage.Endpoint = DefaultStorageEndpoint
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
}

//Personal.AI order the ending
