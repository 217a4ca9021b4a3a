package highlight

import (
	"fmt"
	"sort"
	"unicode/utf8"

	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// CellIndex maps every source cell of a document to its original text.
type CellIndex map[CellRef]string

// NewCellIndex builds the index for a set of text units.
func NewCellIndex(units []TextUnit) CellIndex {
	idx := make(CellIndex, len(units))
	for _, u := range units {
		idx[u.Cell] = u.Text
	}
	return idx
}

// Locate returns the cell an entity belongs to. The cell travels with the
// entity from the unit it was recognized in; Locate only checks that the cell
// is known and that the span lies inside its text.
func Locate(e ResolvedEntity, index CellIndex) (CellRef, error) {
	text, ok := index[e.Cell]
	if !ok {
		return CellRef{}, errs.New(errs.ErrCodeCellBounds, "entity refers to an unknown cell").
			WithDetail("cell=" + e.Cell.String())
	}
	if n := utf8.RuneCountInString(text); !e.Span.Within(n) {
		return CellRef{}, errs.New(errs.ErrCodeCellBounds, "entity span outside cell text").
			WithDetail(fmt.Sprintf("cell=%s span=%s len=%d", e.Cell, e.Span, n))
	}
	return e.Cell, nil
}

// GroupByCell locates every entity and groups them per cell. Groups come back
// in cell order (sheet, column, row); entities keep their input order inside
// a group. Entities that cannot be located are reported and left out.
func GroupByCell(entities []ResolvedEntity, index CellIndex) ([]EntityGroup, []error) {
	byCell := make(map[CellRef]int)
	var groups []EntityGroup
	var failures []error

	for _, e := range entities {
		cell, err := Locate(e, index)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		i, ok := byCell[cell]
		if !ok {
			i = len(groups)
			byCell[cell] = i
			groups = append(groups, EntityGroup{Cell: cell})
		}
		groups[i].Entities = append(groups[i].Entities, e)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Cell.Compare(groups[j].Cell) < 0 })
	return groups, failures
}

//Personal.AI order the ending
