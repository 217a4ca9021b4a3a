package recognizer

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GeneHighlighter/internal/config"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/database/redis"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
)

// countingRecognizer records concurrency and call counts.
type countingRecognizer struct {
	calls    int32
	inFlight int32
	maxSeen  int32
	delay    time.Duration
	err      error
}

func (c *countingRecognizer) Name() string { return "counting" }

func (c *countingRecognizer) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	atomic.AddInt32(&c.calls, 1)
	n := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)
	for {
		max := atomic.LoadInt32(&c.maxSeen)
		if n <= max || atomic.CompareAndSwapInt32(&c.maxSeen, max, n) {
			break
		}
	}
	time.Sleep(c.delay)
	if c.err != nil {
		return nil, c.err
	}
	return []highlight.RawEntity{{Text: text, Label: LabelGene, Span: highlight.Span{Start: 0, End: len([]rune(text))}, Confidence: 0.9}}, nil
}

func TestSerialized_OneCallAtATime(t *testing.T) {
	inner := &countingRecognizer{delay: 5 * time.Millisecond}
	r := Serialized(inner)
	assert.Equal(t, "counting", r.Name())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Recognize(context.Background(), "KRAS")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(8), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.maxSeen))
}

func TestSerialized_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &countingRecognizer{}
	_, err := Serialized(inner).Recognize(ctx, "KRAS")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&inner.calls))
}

func TestObserved(t *testing.T) {
	inner := &countingRecognizer{err: stderrors.New("down")}
	var name string
	var seen error
	r := Observed(inner, func(n string, err error, elapsed time.Duration) {
		name, seen = n, err
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})
	_, err := r.Recognize(context.Background(), "KRAS")
	assert.Error(t, err)
	assert.Equal(t, "counting", name)
	assert.Equal(t, err, seen)

	assert.Same(t, inner, Observed(inner, nil))
}

func newTestCache(t *testing.T) (redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&redis.RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewRedisCache(client, nil, redis.WithPrefix("t:")), mr
}

func TestCachingRecognizer_HitAfterMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	inner := &countingRecognizer{}
	var hits, misses int
	r := NewCachingRecognizer(inner, cache, time.Hour, WithCacheObserver(func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	}))

	first, err := r.Recognize(context.Background(), "TP53")
	require.NoError(t, err)
	second, err := r.Recognize(context.Background(), "TP53")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.True(t, mr.Exists("t:"+CacheKey("counting", "TP53")))
}

func TestCachingRecognizer_DistinctTexts(t *testing.T) {
	cache, _ := newTestCache(t)
	inner := &countingRecognizer{}
	r := NewCachingRecognizer(inner, cache, 0)

	_, err := r.Recognize(context.Background(), "TP53")
	require.NoError(t, err)
	_, err = r.Recognize(context.Background(), "TP53 ")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCachingRecognizer_ErrorsAreNotCached(t *testing.T) {
	cache, mr := newTestCache(t)
	inner := &countingRecognizer{err: context.DeadlineExceeded}
	r := NewCachingRecognizer(inner, cache, time.Hour)

	_, err := r.Recognize(context.Background(), "EGFR")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, mr.Exists("t:"+CacheKey("counting", "EGFR")))

	_, err = r.Recognize(context.Background(), "EGFR")
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCachingRecognizer_CacheDownFallsBack(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()
	inner := &countingRecognizer{}

	ents, err := NewCachingRecognizer(inner, cache, time.Hour).Recognize(context.Background(), "MYC")
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "MYC", ents[0].Text)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("lexicon", "BRCA1"), CacheKey("lexicon", "BRCA1"))
	assert.NotEqual(t, CacheKey("lexicon", "BRCA1"), CacheKey("http", "BRCA1"))
	assert.Contains(t, CacheKey("lexicon", "BRCA1"), "ner:lexicon:")
}

func TestFromConfig(t *testing.T) {
	r, err := FromConfig(config.RecognizerConfig{Model: config.ModelLexicon}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LexiconRecognizer{}, r)

	r, err = FromConfig(config.RecognizerConfig{Model: "en_ner_bc5cdr_md", Endpoint: "http://ner:8000", Serialize: true}, nil)
	require.NoError(t, err)
	assert.IsType(t, &serialized{}, r)
	assert.Equal(t, "en_ner_bc5cdr_md", r.Name())

	_, err = FromConfig(config.RecognizerConfig{Model: "en_ner_bc5cdr_md"}, nil)
	assert.Error(t, err)

	_, err = FromConfig(config.RecognizerConfig{Model: config.ModelLexicon, LexiconPath: "/nonexistent/lexicon.yaml"}, nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
