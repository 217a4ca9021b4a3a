package highlight

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Remapper translates entities from normalized to original coordinates and
// verifies that the original text under the new span still says the same
// thing.
//
// Equivalence: the original substring is run through the same Normalizer,
// both sides are NFC-composed and all whitespace is ignored. Under this rule
// "α" in the original matches "alpha" reported by the recognizer.
type Remapper struct {
	normalizer *Normalizer
}

// NewRemapper returns a Remapper whose equivalence check uses normalizer.
func NewRemapper(normalizer *Normalizer) *Remapper {
	return &Remapper{normalizer: normalizer}
}

// Remap resolves raw against original. A span outside the normalized text or
// a text mismatch yields an ErrCodeOffsetMismatch error and a zero entity.
func (r *Remapper) Remap(raw RawEntity, m *NormalizationMap, original string, cell CellRef) (ResolvedEntity, error) {
	if !raw.Span.Within(m.NormalizedLen()) {
		return ResolvedEntity{}, errs.OffsetMismatch("entity span outside normalized text").
			WithDetail(fmt.Sprintf("cell=%s span=%s len=%d", cell, raw.Span, m.NormalizedLen()))
	}

	span := Span{Start: m.ToOriginal(raw.Span.Start), End: m.ToOriginalEnd(raw.Span.End)}
	src := []rune(original)
	if !span.Within(len(src)) {
		return ResolvedEntity{}, errs.OffsetMismatch("remapped span outside original text").
			WithDetail(fmt.Sprintf("cell=%s span=%s len=%d", cell, span, len(src)))
	}

	text := string(src[span.Start:span.End])
	if !r.equivalent(text, raw.Text) {
		return ResolvedEntity{}, errs.OffsetMismatch("original text does not match entity").
			WithDetail(fmt.Sprintf("cell=%s span=%s original=%q entity=%q", cell, span, text, raw.Text))
	}

	return ResolvedEntity{
		Text:       text,
		Label:      raw.Label,
		Span:       span,
		Confidence: raw.Confidence,
		Cell:       cell,
	}, nil
}

func (r *Remapper) equivalent(original, entity string) bool {
	normalized, _ := r.normalizer.Normalize(original)
	return canonical(normalized) == canonical(entity)
}

func canonical(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

//Personal.AI order the ending
