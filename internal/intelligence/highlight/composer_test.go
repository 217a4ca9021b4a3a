package highlight

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

func TestCompose_RepresentativeAndAnnotation(t *testing.T) {
	g := EntityGroup{Cell: testCell, Entities: []ResolvedEntity{
		{Text: "lung cancer", Label: "DISEASE", Span: Span{20, 31}, Confidence: 0.81, Cell: testCell},
		{Text: "EGFR", Label: "GENE", Span: Span{0, 4}, Confidence: 0.92, Cell: testCell},
	}}

	h, err := NewComposer(DefaultPalette()).Compose(g)
	require.NoError(t, err)
	assert.Equal(t, testCell, h.Cell)
	assert.Equal(t, "GENE", h.Label)
	assert.Equal(t, "FFFF00", h.Color)
	assert.Equal(t, 2, h.Entities)
	assert.Equal(t, "GENE: EGFR (0.92)\nDISEASE: lung cancer (0.81)", h.Annotation)
}

func TestCompose_TieBreaks(t *testing.T) {
	cases := []struct {
		name  string
		a, b  ResolvedEntity
		label string
	}{
		{
			name:  "earliest start",
			a:     ResolvedEntity{Text: "tumor", Label: "DISEASE", Span: Span{9, 14}, Confidence: 0.9},
			b:     ResolvedEntity{Text: "KRAS", Label: "GENE", Span: Span{0, 4}, Confidence: 0.9},
			label: "GENE",
		},
		{
			name:  "longer span",
			a:     ResolvedEntity{Text: "KRAS", Label: "GENE", Span: Span{0, 4}, Confidence: 0.9},
			b:     ResolvedEntity{Text: "KRAS protein", Label: "PROTEIN", Span: Span{0, 12}, Confidence: 0.9},
			label: "PROTEIN",
		},
		{
			name:  "label",
			a:     ResolvedEntity{Text: "KRAS", Label: "PROTEIN", Span: Span{0, 4}, Confidence: 0.9},
			b:     ResolvedEntity{Text: "KRAS", Label: "GENE", Span: Span{0, 4}, Confidence: 0.9},
			label: "GENE",
		},
	}
	c := NewComposer(DefaultPalette())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, order := range [][]ResolvedEntity{{tc.a, tc.b}, {tc.b, tc.a}} {
				h, err := c.Compose(EntityGroup{Cell: testCell, Entities: order})
				require.NoError(t, err)
				assert.Equal(t, tc.label, h.Label)
			}
		})
	}
}

func TestCompose_OrderIndependent(t *testing.T) {
	entities := []ResolvedEntity{
		{Text: "BRCA1", Label: "GENE", Span: Span{0, 5}, Confidence: 0.8},
		{Text: "cisplatin", Label: "CHEMICAL", Span: Span{10, 19}, Confidence: 0.8},
		{Text: "ovarian cancer", Label: "DISEASE", Span: Span{24, 38}, Confidence: 0.95},
		{Text: "p53", Label: "PROTEIN", Span: Span{40, 43}, Confidence: 0.7},
	}
	c := NewComposer(DefaultPalette())
	want, err := c.Compose(EntityGroup{Cell: testCell, Entities: entities})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		shuffled := append([]ResolvedEntity(nil), entities...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := c.Compose(EntityGroup{Cell: testCell, Entities: shuffled})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCompose_UnknownLabel(t *testing.T) {
	g := EntityGroup{Cell: testCell, Entities: []ResolvedEntity{
		{Text: "mouse", Label: "SPECIES", Span: Span{0, 5}, Confidence: 0.99},
		{Text: "EGFR", Label: "GENE", Span: Span{6, 10}, Confidence: 0.9},
	}}
	_, err := NewComposer(DefaultPalette()).Compose(g)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeUnknownLabel))
	assert.Contains(t, err.Error(), "SPECIES")
}

func TestCompose_EmptyGroup(t *testing.T) {
	_, err := NewComposer(DefaultPalette()).Compose(EntityGroup{Cell: testCell})
	assert.True(t, errs.IsCode(err, errs.CodeInvalidParam))
}

func TestPalette(t *testing.T) {
	p := NewPalette(map[string]Swatch{
		"GENE":   {Color: "#ffff00", Description: "Gene"},
		"CUSTOM": {Color: "abcdef"},
	})
	s, err := p.Lookup("GENE")
	require.NoError(t, err)
	assert.Equal(t, "FFFF00", s.Color)

	s, err = p.Lookup("CUSTOM")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", s.Color)
	assert.Equal(t, "CUSTOM", s.Description)

	assert.True(t, p.Has("GENE"))
	assert.False(t, p.Has("gene"))
	assert.Equal(t, []string{"CUSTOM", "GENE"}, p.Labels())

	_, err = p.Lookup("SPECIES")
	assert.True(t, errs.IsCode(err, errs.ErrCodeUnknownLabel))
}

//Personal.AI order the ending
