package highlight

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Default filter parameters.
const (
	DefaultThreshold = 0.7
	DefaultMinLength = 2
)

// Filter is a pure predicate over recognizer output. The three rejection rules
// are independent, so the order in which entities are filtered is irrelevant.
type Filter struct {
	threshold float64
	minLength int
	stop      map[string]struct{}
}

// NewFilter builds a Filter. Stop-list entries are compared lowercased and
// trimmed.
func NewFilter(threshold float64, minLength int, stopList []string) *Filter {
	stop := make(map[string]struct{}, len(stopList))
	for _, w := range stopList {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stop[w] = struct{}{}
		}
	}
	return &Filter{threshold: threshold, minLength: minLength, stop: stop}
}

// Threshold returns the minimum accepted confidence.
func (f *Filter) Threshold() float64 { return f.threshold }

// WithThreshold returns a copy of f using threshold t.
func (f *Filter) WithThreshold(t float64) *Filter {
	clone := *f
	clone.threshold = t
	return &clone
}

// Accept reports whether e survives filtering.
func (f *Filter) Accept(e RawEntity) bool {
	if math.IsNaN(e.Confidence) || e.Confidence < f.threshold {
		return false
	}
	if utf8.RuneCountInString(e.Text) < f.minLength {
		return false
	}
	if _, stopped := f.stop[strings.ToLower(strings.TrimSpace(e.Text))]; stopped {
		return false
	}
	return true
}

// Apply returns the accepted entities in input order.
func (f *Filter) Apply(entities []RawEntity) []RawEntity {
	out := make([]RawEntity, 0, len(entities))
	for _, e := range entities {
		if f.Accept(e) {
			out = append(out, e)
		}
	}
	return out
}

//Personal.AI order the ending
