package highlighting

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GeneHighlighter/internal/config"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/internal/testutil"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

func TestPaletteFromConfig(t *testing.T) {
	p := PaletteFromConfig(config.DefaultPalette())
	sw, err := p.Lookup("DISEASE")
	require.NoError(t, err)
	assert.Equal(t, "FFB6C1", sw.Color)
	assert.Equal(t, "Disease", sw.Description)
	assert.False(t, p.Has("VIRUS"))
}

func TestEngineConfigFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Filter.Threshold = 0.85
	cfg.Pipeline.Workers = 2
	cfg.Pipeline.Strict = true
	cfg.Normalizer.ExpandGreek = false

	ec, err := EngineConfigFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.85, ec.Threshold)
	assert.Equal(t, 2, ec.Workers)
	assert.True(t, ec.Strict)
	assert.False(t, ec.Normalizer.ExpandGreek)
	assert.True(t, ec.Normalizer.StripMarkup)
	assert.Equal(t, cfg.Recognizer.Timeout, ec.Timeout)

	cfg.Pipeline.Rescorer = "boosted"
	_, err = EngineConfigFromConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestNewEngine_UsesConfiguredFilter(t *testing.T) {
	text := "EGFR binds erlotinib"
	rec := testutil.NewFakeRecognizer("fake").
		On(text,
			highlight.RawEntity{Text: "EGFR", Label: "GENE_OR_GENE_PRODUCT", Span: highlight.Span{Start: 0, End: 4}, Confidence: 0.95},
			highlight.RawEntity{Text: "erlotinib", Label: "CHEMICAL", Span: highlight.Span{Start: 11, End: 20}, Confidence: 0.75},
		)
	cfg := testConfig()
	cfg.Filter.Threshold = 0.9

	engine, err := NewEngine(cfg, rec, nil, nil)
	require.NoError(t, err)
	res, err := engine.Run(context.Background(), []highlight.TextUnit{{Cell: highlight.CellRef{Sheet: "Sheet1", Column: "Abstract", Axis: "B2", Row: 2, Col: 2}, Text: text}})
	require.NoError(t, err)

	require.Len(t, res.Entities, 1)
	assert.Equal(t, "EGFR", res.Entities[0].Text)
	assert.Equal(t, 1, res.Summary.FilteredOut)
	assert.Equal(t, 1, rec.Calls(text))
}

func TestNewRecognizer_NoCache(t *testing.T) {
	stack, err := NewRecognizer(context.Background(), testConfig(), nil, nil)
	require.NoError(t, err)
	defer stack.Close()

	assert.Equal(t, "lexicon", stack.Recognizer.Name())
	assert.Nil(t, stack.Cache)
}

func TestNewRecognizer_WithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, nil)
	require.NoError(t, err)
	metrics := prometheus.NewPipelineMetrics(collector)

	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Addr = mr.Addr()

	stack, err := NewRecognizer(context.Background(), cfg, nil, metrics)
	require.NoError(t, err)
	defer stack.Close()
	require.NotNil(t, stack.Cache)

	text := "BRCA1 mutations are associated with p53 pathway disruption in breast cancer."
	first, err := stack.Recognizer.Recognize(context.Background(), text)
	require.NoError(t, err)
	second, err := stack.Recognizer.Recognize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var cached []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "genehl:ner:lexicon:") {
			cached = append(cached, k)
		}
	}
	assert.Len(t, cached, 1)
	assert.Equal(t, 1.0, counterValue(t, collector, "test_cache_hits_total", "cache", "redis"))
	assert.Equal(t, 1.0, counterValue(t, collector, "test_cache_misses_total", "cache", "redis"))
}

func TestNewRecognizer_UnreachableCache(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Addr = addr
	logger := testutil.NewMockLogger()

	stack, err := NewRecognizer(context.Background(), cfg, logger, nil)
	require.NoError(t, err)
	defer stack.Close()

	assert.Nil(t, stack.Cache)
	assert.Equal(t, "lexicon", stack.Recognizer.Name())
	assert.True(t, logger.HasMessage("warn", "recognizer cache unavailable, continuing without it"))
}

func TestNewObjectStore(t *testing.T) {
	store, err := NewObjectStore(config.Default().Storage, nil)
	require.NoError(t, err)
	assert.NotNil(t, store)

	_, err = NewObjectStore(config.StorageConfig{}, nil)
	require.Error(t, err)
}

//Personal.AI order the ending
