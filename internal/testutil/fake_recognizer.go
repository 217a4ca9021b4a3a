package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
)

// FakeRecognizer returns scripted entities. Texts without a script yield no
// entities. It is safe for concurrent use.
type FakeRecognizer struct {
	name string

	mu      sync.Mutex
	scripts map[string][]highlight.RawEntity
	errs    map[string]error
	delay   time.Duration
	calls   map[string]int
}

// NewFakeRecognizer creates a FakeRecognizer reporting name.
func NewFakeRecognizer(name string) *FakeRecognizer {
	return &FakeRecognizer{
		name:    name,
		scripts: make(map[string][]highlight.RawEntity),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// On scripts the entities returned for text.
func (f *FakeRecognizer) On(text string, entities ...highlight.RawEntity) *FakeRecognizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[text] = entities
	return f
}

// OnMention scripts one entity per mention, located by its first occurrence
// in text.
func (f *FakeRecognizer) OnMention(text, label string, confidence float64, mentions ...string) *FakeRecognizer {
	entities := make([]highlight.RawEntity, 0, len(mentions))
	for _, m := range mentions {
		byteIdx := strings.Index(text, m)
		if byteIdx < 0 {
			continue
		}
		start := len([]rune(text[:byteIdx]))
		entities = append(entities, highlight.RawEntity{
			Text:       m,
			Label:      label,
			Span:       highlight.Span{Start: start, End: start + len([]rune(m))},
			Confidence: confidence,
		})
	}
	return f.On(text, entities...)
}

// Fail makes calls for text return err.
func (f *FakeRecognizer) Fail(text string, err error) *FakeRecognizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[text] = err
	return f
}

// Delay makes every call wait d or until its context ends.
func (f *FakeRecognizer) Delay(d time.Duration) *FakeRecognizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

func (f *FakeRecognizer) Name() string { return f.name }

func (f *FakeRecognizer) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	f.mu.Lock()
	f.calls[text]++
	delay := f.delay
	entities, err := f.scripts[text], f.errs[text]
	f.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err != nil {
		return nil, err
	}
	return append([]highlight.RawEntity(nil), entities...), nil
}

// Calls returns how often text was recognized.
func (f *FakeRecognizer) Calls(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[text]
}

// TotalCalls returns the number of calls across all texts.
func (f *FakeRecognizer) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

var _ highlight.Recognizer = (*FakeRecognizer)(nil)

//Personal.AI order the ending
