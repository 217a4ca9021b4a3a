// Package highlight implements the position-accurate reconciliation pipeline
// that turns recognizer output into one color-coded, annotated highlight per
// spreadsheet cell.
//
// Pipeline per text unit:
//
//	original → Normalizer → Recognizer → Filter → Remapper → Deduplicator
//
// and once per document, after every unit has been processed:
//
//	GroupByCell → Composer (per cell) → BuildLegend
//
// All offsets are rune offsets. Every stage returns new values and never
// mutates its input.
package highlight

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Span
// ---------------------------------------------------------------------------

// Span is a half-open [Start, End) rune range in one coordinate space.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Valid reports whether 0 ≤ Start < End.
func (s Span) Valid() bool { return s.Start >= 0 && s.Start < s.End }

// Overlaps reports whether the two spans share at least one rune.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }

// Within reports whether s lies entirely inside [0, n).
func (s Span) Within(n int) bool { return s.Valid() && s.End <= n }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// ---------------------------------------------------------------------------
// CellRef
// ---------------------------------------------------------------------------

// CellRef addresses one source cell. Row and Col are 1-based; Axis is the A1
// reference ("B7") and Column the header name of the cell's column.
type CellRef struct {
	Sheet  string `json:"sheet"`
	Column string `json:"column"`
	Axis   string `json:"axis"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

func (c CellRef) String() string {
	if c.Sheet == "" {
		return c.Axis
	}
	return c.Sheet + "!" + c.Axis
}

// Compare orders cells by sheet, then column index, then row.
func (c CellRef) Compare(o CellRef) int {
	if r := strings.Compare(c.Sheet, o.Sheet); r != 0 {
		return r
	}
	if c.Col != o.Col {
		if c.Col < o.Col {
			return -1
		}
		return 1
	}
	if c.Row != o.Row {
		if c.Row < o.Row {
			return -1
		}
		return 1
	}
	return strings.Compare(c.Axis, o.Axis)
}

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

// RawEntity is one recognizer hit in normalized-text coordinates. Confidence
// is always set; adapters default a missing score to 0.
type RawEntity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Span       Span    `json:"span"`
	Confidence float64 `json:"confidence"`
}

// ResolvedEntity is a RawEntity translated to original-text coordinates. Text
// equals the original substring at Span.
type ResolvedEntity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Span       Span    `json:"span"`
	Confidence float64 `json:"confidence"`
	Cell       CellRef `json:"cell"`
}

// EntityGroup holds the resolved entities of one cell.
type EntityGroup struct {
	Cell     CellRef
	Entities []ResolvedEntity
}

// TextUnit is one cell's text, processed atomically by the recognizer.
type TextUnit struct {
	Cell CellRef
	Text string
}

// ---------------------------------------------------------------------------
// Output artifacts
// ---------------------------------------------------------------------------

// Highlight is the single visual representation of one cell.
type Highlight struct {
	Cell       CellRef `json:"cell"`
	Color      string  `json:"color"`
	Label      string  `json:"label"`
	Annotation string  `json:"annotation"`
	// Entities is the number of entities summarized by Annotation.
	Entities int `json:"entities"`
}

// LegendEntry describes one label observed across the document.
type LegendEntry struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

//Personal.AI order the ending
