package highlight

import (
	"sort"
	"strings"

	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Swatch is the fill color (6-digit hex RGB, no '#') and legend description of
// one label.
type Swatch struct {
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Palette is an immutable label → Swatch mapping. It is passed explicitly to
// the composer and legend builder so concurrent runs can use different
// palettes.
type Palette struct {
	swatches map[string]Swatch
}

// NewPalette copies swatches into a Palette. Colors are upper-cased and a
// leading '#' is dropped.
func NewPalette(swatches map[string]Swatch) *Palette {
	p := &Palette{swatches: make(map[string]Swatch, len(swatches))}
	for label, s := range swatches {
		s.Color = strings.ToUpper(strings.TrimPrefix(s.Color, "#"))
		if s.Description == "" {
			s.Description = label
		}
		p.swatches[label] = s
	}
	return p
}

// DefaultPalette returns the built-in biomedical palette.
func DefaultPalette() *Palette {
	return NewPalette(map[string]Swatch{
		"GENE_OR_GENE_PRODUCT": {Color: "FFFF00", Description: "Gene/Gene Product"},
		"PROTEIN":              {Color: "90EE90", Description: "Protein"},
		"CHEMICAL":             {Color: "FFA07A", Description: "Chemical"},
		"DISEASE":              {Color: "FFB6C1", Description: "Disease"},
		"GENE":                 {Color: "FFFF00", Description: "Gene"},
	})
}

// Lookup returns the swatch for label or an ErrCodeUnknownLabel error. There
// is no fallback color.
func (p *Palette) Lookup(label string) (Swatch, error) {
	s, ok := p.swatches[label]
	if !ok {
		return Swatch{}, errs.UnknownLabel(label)
	}
	return s, nil
}

// Has reports whether label has a swatch.
func (p *Palette) Has(label string) bool {
	_, ok := p.swatches[label]
	return ok
}

// Labels returns every label in alphabetical order.
func (p *Palette) Labels() []string {
	out := make([]string, 0, len(p.swatches))
	for l := range p.swatches {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
