package recognizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/database/redis"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
)

// CachingRecognizer memoizes the results of inner per (recognizer name, text).
// Concurrent misses for the same text reach inner once.
type CachingRecognizer struct {
	inner Recognizer
	cache redis.Cache
	ttl   time.Duration
	onHit func(hit bool)
}

// CachingOption customizes a CachingRecognizer.
type CachingOption func(*CachingRecognizer)

// WithCacheObserver is called once per Recognize with whether inner was
// skipped.
func WithCacheObserver(fn func(hit bool)) CachingOption {
	return func(c *CachingRecognizer) { c.onHit = fn }
}

// NewCachingRecognizer wraps inner. A zero ttl uses the cache's default.
func NewCachingRecognizer(inner Recognizer, cache redis.Cache, ttl time.Duration, opts ...CachingOption) *CachingRecognizer {
	c := &CachingRecognizer{inner: inner, cache: cache, ttl: ttl, onHit: func(bool) {}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachingRecognizer) Name() string { return c.inner.Name() }

// Recognize serves text from the cache or calls inner and stores the result.
// Cache failures degrade to a direct call; errors from inner are returned
// unchanged and never cached.
func (c *CachingRecognizer) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	loaded := false
	var entities []highlight.RawEntity
	err := c.cache.GetOrSet(ctx, CacheKey(c.inner.Name(), text), &entities, c.ttl, func(ctx context.Context) (interface{}, error) {
		loaded = true
		ents, err := c.inner.Recognize(ctx, text)
		if err != nil {
			return nil, err
		}
		if ents == nil {
			ents = []highlight.RawEntity{}
		}
		return ents, nil
	})
	if err != nil {
		return nil, err
	}
	c.onHit(!loaded)
	return entities, nil
}

// CacheKey is the cache key of one (recognizer, text) pair.
func CacheKey(name, text string) string {
	sum := sha256.Sum256([]byte(name + "\x00" + text))
	return "ner:" + name + ":" + hex.EncodeToString(sum[:])
}

//Personal.AI order the ending
