package highlight

import (
	"fmt"
	"sort"
	"strings"

	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Composer derives one Highlight per cell.
type Composer struct {
	palette *Palette
}

// NewComposer returns a Composer coloring cells from palette.
func NewComposer(palette *Palette) *Composer {
	return &Composer{palette: palette}
}

// Compose picks the representative entity of g and builds the annotation.
//
// The representative is the entity with the highest confidence; ties go to
// the earliest start, then the longer span, then label and text. Because this
// is a total order the result does not depend on the order of g.Entities.
// The annotation lists every entity as "LABEL: text (0.92)", one per line,
// in the same order.
func (c *Composer) Compose(g EntityGroup) (Highlight, error) {
	if len(g.Entities) == 0 {
		return Highlight{}, errs.InvalidParam("cannot compose a highlight for an empty group").
			WithDetail("cell=" + g.Cell.String())
	}

	ranked := make([]ResolvedEntity, len(g.Entities))
	copy(ranked, g.Entities)
	sort.SliceStable(ranked, func(i, j int) bool { return ranksBefore(ranked[i], ranked[j]) })

	rep := ranked[0]
	swatch, err := c.palette.Lookup(rep.Label)
	if err != nil {
		return Highlight{}, errs.Wrap(err, errs.ErrCodeUnknownLabel, "cannot color cell "+g.Cell.String())
	}

	lines := make([]string, len(ranked))
	for i, e := range ranked {
		lines[i] = fmt.Sprintf("%s: %s (%.2f)", e.Label, e.Text, e.Confidence)
	}

	return Highlight{
		Cell:       g.Cell,
		Color:      swatch.Color,
		Label:      rep.Label,
		Annotation: strings.Join(lines, "\n"),
		Entities:   len(ranked),
	}, nil
}

func ranksBefore(a, b ResolvedEntity) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	if a.Span.Len() != b.Span.Len() {
		return a.Span.Len() > b.Span.Len()
	}
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.Text < b.Text
}

//Personal.AI order the ending
