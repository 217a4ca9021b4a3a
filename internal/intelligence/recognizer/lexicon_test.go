package recognizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

type hit struct {
	text  string
	label string
	start int
	end   int
}

func hits(ents []highlight.RawEntity) []hit {
	out := make([]hit, len(ents))
	for i, e := range ents {
		out[i] = hit{e.Text, e.Label, e.Span.Start, e.Span.End}
	}
	return out
}

func TestLexiconRecognizer_Defaults(t *testing.T) {
	r := NewDefaultLexiconRecognizer()
	assert.Equal(t, LexiconName, r.Name())

	ents, err := r.Recognize(context.Background(), "BRCA1 mutations are associated with p53 pathway disruption in breast cancer.")
	require.NoError(t, err)
	assert.Equal(t, []hit{
		{"BRCA1", LabelGene, 0, 5},
		{"p53", LabelGene, 36, 39},
		{"breast cancer", LabelDisease, 62, 75},
		{"cancer", LabelDisease, 69, 75},
	}, hits(ents))
}

func TestLexiconRecognizer_CaseHandling(t *testing.T) {
	r := NewDefaultLexiconRecognizer()

	ents, err := r.Recognize(context.Background(), "Treated with Cisplatin; egfr is not a symbol.")
	require.NoError(t, err)
	assert.Equal(t, []hit{{"Cisplatin", LabelChemical, 13, 22}}, hits(ents))
}

func TestLexiconRecognizer_GenePattern(t *testing.T) {
	r := NewDefaultLexiconRecognizer()

	ents, err := r.Recognize(context.Background(), "CDK4 and TP53 but not DNA")
	require.NoError(t, err)
	got := hits(ents)
	assert.Contains(t, got, hit{"CDK4", LabelGene, 0, 4})
	assert.Contains(t, got, hit{"TP53", LabelGene, 9, 13})
	assert.Len(t, got, 2, "a term hit suppresses the identical pattern hit")

	for _, e := range ents {
		if e.Text == "TP53" {
			assert.Equal(t, 0.92, e.Confidence, "dictionary confidence wins")
		}
		if e.Text == "CDK4" {
			assert.Equal(t, 0.75, e.Confidence)
		}
	}
}

func TestLexiconRecognizer_RuneOffsets(t *testing.T) {
	r := NewDefaultLexiconRecognizer()
	ents, err := r.Recognize(context.Background(), "Der Wirkstoff für EGFR")
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, highlight.Span{Start: 18, End: 22}, ents[0].Span)
}

func TestLexiconRecognizer_WholeWordsOnly(t *testing.T) {
	r := NewDefaultLexiconRecognizer()
	ents, err := r.Recognize(context.Background(), "MYCN and precancerous tumors")
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestLexiconRecognizer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDefaultLexiconRecognizer().Recognize(ctx, "BRCA1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLexiconRecognizer_Invalid(t *testing.T) {
	_, err := NewLexiconRecognizer(Lexicon{Terms: []Term{{Text: "x"}}})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = NewLexiconRecognizer(Lexicon{GenePattern: "("})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func writeLexicon(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadLexicon_ExtendsDefaults(t *testing.T) {
	path := writeLexicon(t, `
terms:
  - text: imatinib
    label: CHEMICAL
    confidence: 0.9
gene_confidence: 0.7
`)
	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultLexicon().Terms)+1, len(lex.Terms))
	assert.Equal(t, DefaultGenePattern, lex.GenePattern)
	assert.Equal(t, 0.7, lex.GeneConfidence)

	r, err := NewLexiconRecognizer(lex)
	require.NoError(t, err)
	ents, err := r.Recognize(context.Background(), "Imatinib and BRCA2")
	require.NoError(t, err)
	assert.Equal(t, []hit{{"Imatinib", LabelChemical, 0, 8}, {"BRCA2", LabelGene, 13, 18}}, hits(ents))
}

func TestLoadLexicon_ReplaceDefaults(t *testing.T) {
	path := writeLexicon(t, `
replace_defaults: true
gene_pattern: '\bFOO[0-9]\b'
gene_label: GENE
terms:
  - text: widget protein
    label: PROTEIN
`)
	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	require.Len(t, lex.Terms, 1)

	r, err := NewLexiconRecognizer(lex)
	require.NoError(t, err)
	ents, err := r.Recognize(context.Background(), "BRCA1 FOO7 Widget Protein")
	require.NoError(t, err)
	assert.Equal(t, []hit{{"FOO7", "GENE", 6, 10}, {"Widget Protein", LabelProtein, 11, 25}}, hits(ents))
	assert.Equal(t, 0.85, ents[1].Confidence)
}

func TestLoadLexicon_Errors(t *testing.T) {
	_, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInput))

	_, err = LoadLexicon(writeLexicon(t, "terms: [unclosed"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInput))
}

//Personal.AI order the ending
