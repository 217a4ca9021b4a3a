package highlight

import (
	"fmt"
	"sort"
	"strings"

	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Summary aggregates the counters of one run. Recovered errors are counted
// per kind here instead of being interleaved with normal output.
type Summary struct {
	Units       int `json:"units"`
	UnitsFailed int `json:"units_failed"`

	RawEntities  int `json:"raw_entities"`
	FilteredOut  int `json:"filtered_out"`
	Remapped     int `json:"remapped"`
	Resolved     int `json:"resolved"`
	Highlights   int `json:"highlights"`
	CellsSkipped int `json:"cells_skipped"`

	Errors map[errs.Kind]int `json:"errors"`
}

func newSummary() Summary {
	return Summary{Errors: make(map[errs.Kind]int)}
}

func (s *Summary) recordError(err error) {
	if s.Errors == nil {
		s.Errors = make(map[errs.Kind]int)
	}
	s.Errors[errs.KindOf(err)]++
}

// Dropped returns the number of entities lost after filtering, through offset
// mismatches, cell-bound violations or overlap resolution.
func (s Summary) Dropped() int {
	return s.Remapped - s.Resolved + s.Errors[errs.KindOffsetMismatch] + s.Errors[errs.KindCellBounds]
}

// ErrorCount returns the total number of recovered errors.
func (s Summary) ErrorCount() int {
	total := 0
	for _, n := range s.Errors {
		total += n
	}
	return total
}

func (s Summary) String() string {
	kinds := make([]string, 0, len(s.Errors))
	for k := range s.Errors {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.Errors[errs.Kind(k)]))
	}
	return fmt.Sprintf("units=%d failed=%d raw=%d filtered_out=%d resolved=%d highlights=%d skipped=%d errors[%s]",
		s.Units, s.UnitsFailed, s.RawEntities, s.FilteredOut, s.Resolved, s.Highlights, s.CellsSkipped,
		strings.Join(parts, " "))
}

//Personal.AI order the ending
