package highlight

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ---------------------------------------------------------------------------
// NormalizationMap
// ---------------------------------------------------------------------------

// Edit is one breakpoint of a NormalizationMap: OriginalLen runes starting at
// Original were replaced by NormalizedLen runes starting at Normalized.
type Edit struct {
	Original      int
	Normalized    int
	OriginalLen   int
	NormalizedLen int
}

// Delta is the length change introduced by the edit.
func (e Edit) Delta() int { return e.NormalizedLen - e.OriginalLen }

// NormalizationMap translates rune offsets between an original string and its
// normalized form. Edits are sorted by both Original and Normalized, so every
// lookup is a binary search.
type NormalizationMap struct {
	edits         []Edit
	originalLen   int
	normalizedLen int
}

// Edits returns a copy of the map's breakpoints.
func (m *NormalizationMap) Edits() []Edit {
	out := make([]Edit, len(m.edits))
	copy(out, m.edits)
	return out
}

// OriginalLen is the rune length of the original string.
func (m *NormalizationMap) OriginalLen() int { return m.originalLen }

// NormalizedLen is the rune length of the normalized string.
func (m *NormalizationMap) NormalizedLen() int { return m.normalizedLen }

// Identity reports whether normalization changed nothing.
func (m *NormalizationMap) Identity() bool { return len(m.edits) == 0 }

// ToNormalized maps an original offset to the normalized space. An offset
// inside an edited run maps to the start of that edit's replacement.
func (m *NormalizationMap) ToNormalized(i int) int {
	k := sort.Search(len(m.edits), func(n int) bool { return m.edits[n].Original > i }) - 1
	if k < 0 {
		return i
	}
	e := m.edits[k]
	if i < e.Original+e.OriginalLen {
		return e.Normalized
	}
	return e.Normalized + e.NormalizedLen + (i - e.Original - e.OriginalLen)
}

// ToOriginal maps a normalized offset to the original space. An offset inside
// an expansion maps to the start of the original run it replaced; an offset at
// a deletion point maps past the deleted run.
func (m *NormalizationMap) ToOriginal(j int) int {
	k := m.lastEditAtOrBefore(j)
	if k < 0 {
		return j
	}
	e := m.edits[k]
	if j < e.Normalized+e.NormalizedLen {
		return e.Original
	}
	return e.Original + e.OriginalLen + (j - e.Normalized - e.NormalizedLen)
}

// ToOriginalEnd maps an exclusive normalized end offset. The last covered rune
// is mapped and the end lands just past its original image, so an entity that
// ends inside an expansion covers the whole original run.
func (m *NormalizationMap) ToOriginalEnd(j int) int {
	if j <= 0 {
		return m.ToOriginal(j)
	}
	last := j - 1
	k := m.lastEditAtOrBefore(last)
	if k >= 0 {
		e := m.edits[k]
		if last < e.Normalized+e.NormalizedLen {
			return e.Original + e.OriginalLen
		}
	}
	return m.ToOriginal(last) + 1
}

// lastEditAtOrBefore returns the index of the last edit whose normalized start
// is ≤ j, or -1.
func (m *NormalizationMap) lastEditAtOrBefore(j int) int {
	return sort.Search(len(m.edits), func(n int) bool { return m.edits[n].Normalized > j }) - 1
}

// ---------------------------------------------------------------------------
// Normalizer
// ---------------------------------------------------------------------------

// NormalizerOptions toggles the individual rewrite rules.
type NormalizerOptions struct {
	StripMarkup    bool
	DecodeEntities bool
	ExpandGreek    bool
	ExpandSymbols  bool
	FoldWidth      bool
}

// AllRules enables every rewrite rule.
func AllRules() NormalizerOptions {
	return NormalizerOptions{
		StripMarkup:    true,
		DecodeEntities: true,
		ExpandGreek:    true,
		ExpandSymbols:  true,
		FoldWidth:      true,
	}
}

// Normalizer rewrites text before recognition in one left-to-right pass.
// Each rewrite looks only at the runes it replaces.
type Normalizer struct {
	opts NormalizerOptions
}

// NewNormalizer returns a Normalizer applying the rules enabled in opts.
func NewNormalizer(opts NormalizerOptions) *Normalizer {
	return &Normalizer{opts: opts}
}

var greekNames = map[rune]string{
	'α': "alpha", 'β': "beta", 'γ': "gamma", 'δ': "delta", 'ε': "epsilon",
	'ζ': "zeta", 'η': "eta", 'θ': "theta", 'ι': "iota", 'κ': "kappa",
	'λ': "lambda", 'μ': "mu", 'ν': "nu", 'ξ': "xi", 'ο': "omicron",
	'π': "pi", 'ρ': "rho", 'σ': "sigma", 'ς': "sigma", 'τ': "tau",
	'υ': "upsilon", 'φ': "phi", 'χ': "chi", 'ψ': "psi", 'ω': "omega",
	'Α': "Alpha", 'Β': "Beta", 'Γ': "Gamma", 'Δ': "Delta", 'Ε': "Epsilon",
	'Ζ': "Zeta", 'Η': "Eta", 'Θ': "Theta", 'Ι': "Iota", 'Κ': "Kappa",
	'Λ': "Lambda", 'Μ': "Mu", 'Ν': "Nu", 'Ξ': "Xi", 'Ο': "Omicron",
	'Π': "Pi", 'Ρ': "Rho", 'Σ': "Sigma", 'Τ': "Tau", 'Υ': "Upsilon",
	'Φ': "Phi", 'Χ': "Chi", 'Ψ': "Psi", 'Ω': "Omega",
	'µ': "mu", // micro sign
}

var symbolReplacements = map[rune]string{
	'™': "",
	'®': "",
	'©': "",
	'±': "+/-",
	'→': "->",
	'≤': "<=",
	'≥': ">=",
}

var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
	"nbsp": " ",
}

// maxEntityLen bounds the scan for a character reference's closing ';'.
const maxEntityLen = 10

// Normalize returns the normalized text and the map between the two.
func (n *Normalizer) Normalize(original string) (string, *NormalizationMap) {
	src := []rune(original)
	var b strings.Builder
	b.Grow(len(original))

	m := &NormalizationMap{originalLen: len(src)}
	out := 0

	for i := 0; i < len(src); {
		consumed, replacement, ok := n.rewriteAt(src, i)
		if !ok {
			b.WriteRune(src[i])
			i++
			out++
			continue
		}
		repLen := len([]rune(replacement))
		m.edits = append(m.edits, Edit{
			Original:      i,
			Normalized:    out,
			OriginalLen:   consumed,
			NormalizedLen: repLen,
		})
		b.WriteString(replacement)
		i += consumed
		out += repLen
	}

	m.normalizedLen = out
	return b.String(), m
}

// rewriteAt reports the rewrite starting at src[i], if any.
func (n *Normalizer) rewriteAt(src []rune, i int) (consumed int, replacement string, ok bool) {
	r := src[i]
	switch {
	case r == '<' && n.opts.StripMarkup:
		if l := markupTagLen(src, i); l > 0 {
			return l, "", true
		}
	case r == '&' && n.opts.DecodeEntities:
		if l, s := characterReference(src, i); l > 0 {
			return l, s, true
		}
	}
	if n.opts.ExpandGreek {
		if s, found := greekNames[r]; found {
			return 1, s, true
		}
	}
	if n.opts.ExpandSymbols {
		if s, found := symbolReplacements[r]; found {
			return 1, s, true
		}
	}
	if n.opts.FoldWidth && r >= 0x3000 {
		if folded := width.Fold.String(string(r)); folded != string(r) {
			return 1, folded, true
		}
	}
	return 0, "", false
}

// markupTagLen returns the rune length of a tag like <i>, </sup> or <br/>
// starting at src[i], or 0.
func markupTagLen(src []rune, i int) int {
	j := i + 1
	if j < len(src) && src[j] == '/' {
		j++
	}
	if j >= len(src) || !unicode.IsLetter(src[j]) {
		return 0
	}
	for ; j < len(src); j++ {
		switch src[j] {
		case '>':
			return j - i + 1
		case '<', '\n':
			return 0
		}
	}
	return 0
}

// characterReference decodes &name; &#NN; or &#xHH; at src[i].
func characterReference(src []rune, i int) (int, string) {
	end := -1
	for j := i + 1; j < len(src) && j-i <= maxEntityLen; j++ {
		if src[j] == ';' {
			end = j
			break
		}
	}
	if end < 0 {
		return 0, ""
	}
	body := string(src[i+1 : end])
	if s, ok := namedEntities[body]; ok {
		return end - i + 1, s
	}
	if strings.HasPrefix(body, "#") {
		digits, base := body[1:], 10
		if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
			digits, base = digits[1:], 16
		}
		v, err := strconv.ParseInt(digits, base, 32)
		if err != nil || v <= 0 || v > unicode.MaxRune {
			return 0, ""
		}
		return end - i + 1, string(rune(v))
	}
	return 0, ""
}

//Personal.AI order the ending
