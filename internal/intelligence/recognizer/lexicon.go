package recognizer

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Labels emitted by the built-in lexicon. They follow the bionlp13cg label
// set so the default palette covers them.
const (
	LabelGene     = "GENE_OR_GENE_PRODUCT"
	LabelProtein  = "PROTEIN"
	LabelChemical = "CHEMICAL"
	LabelDisease  = "DISEASE"
)

// LexiconName is the model id that selects the lexicon recognizer.
const LexiconName = "lexicon"

// Term is one dictionary entry.
type Term struct {
	Text          string  `yaml:"text"`
	Label         string  `yaml:"label"`
	Confidence    float64 `yaml:"confidence"`
	CaseSensitive bool    `yaml:"case_sensitive"`
}

// Lexicon is the dictionary and gene-symbol pattern of a LexiconRecognizer.
type Lexicon struct {
	Terms []Term `yaml:"terms"`
	// GenePattern matches gene symbols not listed in Terms. Empty disables it.
	GenePattern    string  `yaml:"gene_pattern"`
	GeneLabel      string  `yaml:"gene_label"`
	GeneConfidence float64 `yaml:"gene_confidence"`
	// ReplaceDefaults drops the built-in terms when loading from a file.
	ReplaceDefaults bool `yaml:"replace_defaults"`
}

// DefaultGenePattern matches upper-case symbols ending in digits (BRCA1,
// TP53, HER2) and the p53 family.
const DefaultGenePattern = `\b(?:[A-Z][A-Z0-9]{1,5}[0-9][A-Z]?|p[0-9]{2,3})\b`

// DefaultLexicon returns the built-in dictionary.
func DefaultLexicon() Lexicon {
	gene := func(t string) Term { return Term{Text: t, Label: LabelGene, Confidence: 0.92, CaseSensitive: true} }
	protein := func(t string) Term { return Term{Text: t, Label: LabelProtein, Confidence: 0.85} }
	chemical := func(t string) Term { return Term{Text: t, Label: LabelChemical, Confidence: 0.88} }
	disease := func(t string) Term { return Term{Text: t, Label: LabelDisease, Confidence: 0.8} }

	return Lexicon{
		Terms: []Term{
			gene("BRCA1"), gene("BRCA2"), gene("TP53"), gene("p53"), gene("EGFR"),
			gene("MYC"), gene("KRAS"), gene("HER2"), gene("PTEN"), gene("APOE"),
			protein("tau protein"), protein("amyloid beta"), protein("TNF-alpha"),
			protein("insulin"), protein("interleukin-6"), protein("hemoglobin"),
			chemical("erlotinib"), chemical("cisplatin"), chemical("tamoxifen"),
			chemical("doxorubicin"), chemical("aspirin"), chemical("metformin"),
			disease("breast cancer"), disease("lung cancer"), disease("Alzheimer's disease"),
			disease("cancer"), disease("cancers"), disease("tumor"), disease("diabetes"),
		},
		GenePattern:    DefaultGenePattern,
		GeneLabel:      LabelGene,
		GeneConfidence: 0.75,
	}
}

// LoadLexicon reads a YAML lexicon. Its terms extend the built-in ones unless
// replace_defaults is set; an empty gene_pattern keeps the default pattern.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, errors.Wrap(err, errors.ErrCodeInput, "read lexicon").WithDetail("path=" + path)
	}
	var file Lexicon
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Lexicon{}, errors.Wrap(err, errors.ErrCodeInput, "parse lexicon").WithDetail("path=" + path)
	}

	lex := DefaultLexicon()
	if file.ReplaceDefaults {
		lex.Terms = nil
	}
	lex.Terms = append(lex.Terms, file.Terms...)
	if file.GenePattern != "" {
		lex.GenePattern = file.GenePattern
	}
	if file.GeneLabel != "" {
		lex.GeneLabel = file.GeneLabel
	}
	if file.GeneConfidence > 0 {
		lex.GeneConfidence = file.GeneConfidence
	}
	return lex, nil
}

type compiledTerm struct {
	re    *regexp.Regexp
	label string
	conf  float64
}

// LexiconRecognizer finds dictionary terms and gene symbols with whole-word
// regular expressions. It is deterministic, needs no network and is safe for
// concurrent use.
type LexiconRecognizer struct {
	terms    []compiledTerm
	gene     *regexp.Regexp
	geneConf float64
	geneTag  string
}

// NewLexiconRecognizer compiles lex.
func NewLexiconRecognizer(lex Lexicon) (*LexiconRecognizer, error) {
	r := &LexiconRecognizer{geneConf: lex.GeneConfidence, geneTag: lex.GeneLabel}
	for _, t := range lex.Terms {
		if t.Text == "" || t.Label == "" {
			return nil, errors.InvalidParam("lexicon term needs text and label").WithDetail(fmt.Sprintf("%+v", t))
		}
		pattern := `\b` + regexp.QuoteMeta(t.Text) + `\b`
		if !t.CaseSensitive {
			pattern = `(?i)` + pattern
		}
		conf := t.Confidence
		if conf <= 0 {
			conf = 0.85
		}
		r.terms = append(r.terms, compiledTerm{re: regexp.MustCompile(pattern), label: t.Label, conf: conf})
	}
	if lex.GenePattern != "" {
		re, err := regexp.Compile(lex.GenePattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidParam, "compile gene pattern")
		}
		r.gene = re
		if r.geneTag == "" {
			r.geneTag = LabelGene
		}
		if r.geneConf <= 0 {
			r.geneConf = 0.75
		}
	}
	return r, nil
}

// NewDefaultLexiconRecognizer returns a recognizer over DefaultLexicon.
func NewDefaultLexiconRecognizer() *LexiconRecognizer {
	r, err := NewLexiconRecognizer(DefaultLexicon())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *LexiconRecognizer) Name() string { return LexiconName }

// Recognize returns every term and gene-symbol hit ordered by start, longer
// spans first. A gene-pattern hit at exactly the span of a term hit is
// dropped. Overlapping hits are left to the deduplicator.
func (r *LexiconRecognizer) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []highlight.RawEntity
	seen := make(map[highlight.Span]bool)
	add := func(start, end int, label string, conf float64) {
		span := highlight.Span{
			Start: utf8.RuneCountInString(text[:start]),
			End:   utf8.RuneCountInString(text[:end]),
		}
		out = append(out, highlight.RawEntity{Text: text[start:end], Label: label, Span: span, Confidence: conf})
		seen[span] = true
	}

	for _, t := range r.terms {
		for _, loc := range t.re.FindAllStringIndex(text, -1) {
			add(loc[0], loc[1], t.label, t.conf)
		}
	}
	if r.gene != nil {
		for _, loc := range r.gene.FindAllStringIndex(text, -1) {
			span := highlight.Span{
				Start: utf8.RuneCountInString(text[:loc[0]]),
				End:   utf8.RuneCountInString(text[:loc[1]]),
			}
			if seen[span] {
				continue
			}
			add(loc[0], loc[1], r.geneTag, r.geneConf)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}
		return out[i].Span.Len() > out[j].Span.Len()
	})
	return out, nil
}

//Personal.AI order the ending
