package highlight

import (
	"sort"
)

// Deduplicator resolves overlapping spans within each cell into a
// non-overlapping set.
//
// Entities are sorted by (cell, start, -confidence) and walked greedily. A
// candidate that overlaps accepted entities replaces them only if it beats
// every one of them: strictly higher confidence, or equal confidence and a
// longer span. Otherwise the earlier entities stay. Since accepted spans are
// disjoint and sorted, the candidates it can overlap always form a suffix of
// the accepted list.
//
// This is a local greedy policy, not weighted interval scheduling: a long
// low-confidence span that is replaced can no longer block later candidates,
// so the result is not guaranteed to maximize total confidence.
type Deduplicator struct {
	rescorer Rescorer
}

// NewDeduplicator returns a Deduplicator applying rescorer to every survivor.
// A nil rescorer keeps confidences unchanged.
func NewDeduplicator(rescorer Rescorer) *Deduplicator {
	if rescorer == nil {
		rescorer = IdentityRescorer
	}
	return &Deduplicator{rescorer: rescorer}
}

// Resolve returns the surviving entities ordered by descending confidence,
// then cell, then start.
func (d *Deduplicator) Resolve(entities []ResolvedEntity) []ResolvedEntity {
	sorted := make([]ResolvedEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if c := a.Cell.Compare(b.Cell); c != 0 {
			return c < 0
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.Confidence > b.Confidence
	})

	accepted := make([]ResolvedEntity, 0, len(sorted))
	cellStart := 0
	for i, cand := range sorted {
		if i > 0 && cand.Cell != sorted[i-1].Cell {
			cellStart = len(accepted)
		}

		k := len(accepted)
		for k > cellStart && accepted[k-1].Span.End > cand.Span.Start {
			k--
		}
		if k == len(accepted) {
			accepted = append(accepted, cand)
			continue
		}
		if beatsAll(cand, accepted[k:]) {
			accepted = append(accepted[:k], cand)
		}
	}

	for i := range accepted {
		accepted[i].Confidence = clamp01(d.rescorer.Rescore(accepted[i]))
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if c := a.Cell.Compare(b.Cell); c != 0 {
			return c < 0
		}
		return a.Span.Start < b.Span.Start
	})
	return accepted
}

func beatsAll(cand ResolvedEntity, incumbents []ResolvedEntity) bool {
	for _, inc := range incumbents {
		if !beats(cand, inc) {
			return false
		}
	}
	return true
}

// beats reports whether a should replace an overlapping b.
func beats(a, b ResolvedEntity) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.Span.Len() > b.Span.Len()
}

//Personal.AI order the ending
