package highlighting

import (
	"context"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/config"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/database/redis"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/storage/minio"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/recognizer"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// PaletteFromConfig converts configured palette entries.
func PaletteFromConfig(entries []config.PaletteEntry) *highlight.Palette {
	swatches := make(map[string]highlight.Swatch, len(entries))
	for _, e := range entries {
		swatches[e.Label] = highlight.Swatch{Color: e.Color, Description: e.Description}
	}
	return highlight.NewPalette(swatches)
}

// EngineConfigFromConfig maps the filter, normalizer and pipeline sections.
func EngineConfigFromConfig(cfg *config.Config) (highlight.EngineConfig, error) {
	rescorer, err := highlight.RescorerByName(cfg.Pipeline.Rescorer)
	if err != nil {
		return highlight.EngineConfig{}, errors.Wrap(err, errors.CodeInvalidParam, "invalid rescorer")
	}
	return highlight.EngineConfig{
		Normalizer: highlight.NormalizerOptions{
			StripMarkup:    cfg.Normalizer.StripMarkup,
			DecodeEntities: cfg.Normalizer.DecodeEntities,
			ExpandGreek:    cfg.Normalizer.ExpandGreek,
			ExpandSymbols:  cfg.Normalizer.ExpandSymbols,
			FoldWidth:      cfg.Normalizer.FoldWidth,
		},
		Threshold: cfg.Filter.Threshold,
		MinLength: cfg.Filter.MinLength,
		StopList:  cfg.Filter.StopList,
		Rescorer:  rescorer,
		Workers:   cfg.Pipeline.Workers,
		Timeout:   cfg.Recognizer.Timeout,
		Strict:    cfg.Pipeline.Strict,
	}, nil
}

// NewEngine builds the highlight engine for cfg. metrics may be nil.
func NewEngine(cfg *config.Config, rec highlight.Recognizer, logger logging.Logger, metrics *prometheus.PipelineMetrics) (*highlight.Engine, error) {
	ec, err := EngineConfigFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	var m highlight.Metrics
	if metrics != nil {
		m = metrics
	}
	return highlight.NewEngine(ec, rec, PaletteFromConfig(cfg.Palette), logger, m)
}

// RecognizerStack is the recognizer built from configuration together with
// the resources it holds.
type RecognizerStack struct {
	Recognizer highlight.Recognizer
	// Cache is nil when caching is disabled or Redis was unreachable.
	Cache  redis.Cache
	client *redis.Client
}

// Close releases the cache connection.
func (s *RecognizerStack) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// NewRecognizer builds the configured recognizer, instrumented with metrics
// when given and fronted by the Redis cache when enabled. An unreachable cache
// is logged and skipped.
func NewRecognizer(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.PipelineMetrics) (*RecognizerStack, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	rec, err := recognizer.FromConfig(cfg.Recognizer, logger)
	if err != nil {
		return nil, err
	}
	if metrics != nil {
		rec = recognizer.Observed(rec, func(name string, err error, elapsed time.Duration) {
			prometheus.RecordRecognizerCall(metrics, name, err, elapsed)
		})
	}
	if !cfg.Cache.Enabled {
		return &RecognizerStack{Recognizer: rec}, nil
	}

	client, err := redis.NewClient(&redis.RedisConfig{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	}, logger)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("recognizer cache unavailable, continuing without it")
		return &RecognizerStack{Recognizer: rec}, nil
	}
	cache := redis.NewRedisCache(client, logger,
		redis.WithPrefix(cfg.Cache.KeyPrefix),
		redis.WithDefaultTTL(cfg.Cache.TTL),
	)
	var opts []recognizer.CachingOption
	if metrics != nil {
		opts = append(opts, recognizer.WithCacheObserver(func(hit bool) {
			prometheus.RecordCacheAccess(metrics, "redis", hit)
		}))
	}
	return &RecognizerStack{
		Recognizer: recognizer.NewCachingRecognizer(rec, cache, cfg.Cache.TTL, opts...),
		Cache:      cache,
		client:     client,
	}, nil
}

// NewObjectStore returns the S3 store for cfg.
func NewObjectStore(cfg config.StorageConfig, logger logging.Logger) (minio.ObjectStore, error) {
	client, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKey,
		SecretAccessKey: cfg.SecretKey,
		Region:          cfg.Region,
		UseSSL:          cfg.UseSSL,
		CreateBuckets:   true,
	}, logger)
	if err != nil {
		return nil, err
	}
	return minio.NewMinIORepository(client, logger), nil
}

//Personal.AI order the ending
