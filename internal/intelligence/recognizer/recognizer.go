// Package recognizer provides the entity recognizers the highlight engine can
// be wired with: a remote scispaCy-style HTTP service, an offline lexicon
// recognizer, and decorators for caching, serialization and telemetry.
//
// Every recognizer receives normalized text and returns entities in
// normalized rune coordinates.
package recognizer

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
)

// Recognizer is highlight.Recognizer, restated for callers that only import
// this package.
type Recognizer = highlight.Recognizer

// ObserveFunc receives the outcome of every recognizer call.
type ObserveFunc func(name string, err error, elapsed time.Duration)

type observed struct {
	inner   Recognizer
	observe ObserveFunc
}

// Observed reports every call of inner to observe.
func Observed(inner Recognizer, observe ObserveFunc) Recognizer {
	if observe == nil {
		return inner
	}
	return &observed{inner: inner, observe: observe}
}

func (o *observed) Name() string { return o.inner.Name() }

func (o *observed) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	start := time.Now()
	ents, err := o.inner.Recognize(ctx, text)
	o.observe(o.inner.Name(), err, time.Since(start))
	return ents, err
}

type serialized struct {
	mu    sync.Mutex
	inner Recognizer
}

// Serialized allows only one Recognize call at a time on inner, for
// recognizers that are not safe for concurrent use.
func Serialized(inner Recognizer) Recognizer {
	return &serialized{inner: inner}
}

func (s *serialized) Name() string { return s.inner.Name() }

func (s *serialized) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Recognize(ctx, text)
}

//Personal.AI order the ending
