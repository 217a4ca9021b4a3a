package highlighting

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/spreadsheet"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
)

// DemoSentences are run by the demo when no workbook is given.
var DemoSentences = []string{
	"BRCA1 mutations are associated with p53 pathway disruption in breast cancer.",
	"The EGFR protein shows overexpression in lung cancer patients treated with erlotinib.",
	"TP53 mutations lead to loss of DNA damage response and increased cancer risk.",
	"MYC oncogene amplification drives tumor cell proliferation in various cancers.",
	"Alzheimer's disease is characterized by amyloid beta plaques and tau protein aggregation.",
}

// maxExamples bounds the distinct entity texts listed per label.
const maxExamples = 3

const rule = "----------------------------------------"

type labelStats struct {
	label    string
	total    int
	examples []string
	seen     map[string]bool
}

// RunDemo annotates DemoSentences and prints the entities of each sentence,
// per-label statistics and the palette.
func (s *serviceImpl) RunDemo(ctx context.Context, w io.Writer) error {
	engine := s.engine.Load()
	units := make([]highlight.TextUnit, len(DemoSentences))
	for i, text := range DemoSentences {
		units[i] = highlight.TextUnit{
			Cell: highlight.CellRef{Column: "Sample", Axis: fmt.Sprintf("A%d", i+1), Row: i + 1, Col: 1},
			Text: text,
		}
	}
	res, err := engine.Run(ctx, units)
	if err != nil {
		return err
	}

	byRow := make(map[int][]highlight.ResolvedEntity)
	for _, e := range res.Entities {
		byRow[e.Cell.Row] = append(byRow[e.Cell.Row], e)
	}

	p := &printer{w: w}
	p.line("Gene/Protein Recognition Demo")
	if name := s.RecognizerName(); name != "" {
		p.line("Recognizer: %s", name)
	}
	p.line("")
	p.line("1. Text analysis")
	p.line(rule)

	stats := make(map[string]*labelStats)
	total := 0
	for i, text := range DemoSentences {
		ents := byRow[i+1]
		sort.SliceStable(ents, func(a, b int) bool { return ents[a].Span.Start < ents[b].Span.Start })
		total += len(ents)

		p.line("")
		p.line("Sample %d: %s", i+1, text)
		p.line("Found %d entities", len(ents))
		for _, e := range ents {
			p.line("  -> '%s' [%s] (pos: %d-%d, confidence: %.2f)", e.Text, e.Label, e.Span.Start, e.Span.End, e.Confidence)
			ls, ok := stats[e.Label]
			if !ok {
				ls = &labelStats{label: e.Label, seen: make(map[string]bool)}
				stats[e.Label] = ls
			}
			ls.total++
			if !ls.seen[e.Text] {
				ls.seen[e.Text] = true
				ls.examples = append(ls.examples, e.Text)
			}
		}
	}
	if res.Summary.UnitsFailed > 0 {
		p.line("")
		p.line("%d sample(s) could not be analyzed", res.Summary.UnitsFailed)
	}

	ordered := make([]*labelStats, 0, len(stats))
	for _, ls := range stats {
		ordered = append(ordered, ls)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].total != ordered[j].total {
			return ordered[i].total > ordered[j].total
		}
		return ordered[i].label < ordered[j].label
	})

	p.line("")
	p.line("2. Summary statistics")
	p.line(rule)
	p.line("Total entities found: %d", total)
	for _, ls := range ordered {
		examples := ls.examples
		if len(examples) > maxExamples {
			examples = examples[:maxExamples]
		}
		p.line("%s: %d total, %d unique", ls.label, ls.total, len(ls.examples))
		p.line("  Examples: %s", strings.Join(examples, ", "))
	}

	palette := engine.Palette()
	p.line("")
	p.line("3. Entity types and colors")
	p.line(rule)
	for _, label := range palette.Labels() {
		sw, _ := palette.Lookup(label)
		p.line("  %-22s #%s  %s", label, sw.Color, sw.Description)
	}
	p.line("")
	p.line("Run 'genehl <workbook.xlsx>' to highlight a spreadsheet.")
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// SampleRows is a small abstract table for trying the highlighter.
var SampleRows = [][]string{
	{"Title", "Abstract"},
	{"BRCA1 mutations in breast cancer", "BRCA1 mutations are associated with p53 pathway disruption in breast cancer. The EGFR protein shows overexpression in lung cancer patients."},
	{"p53 pathway analysis", "Investigation of p53 tumor suppressor gene mutations in colorectal cancer. TP53 mutations lead to loss of DNA damage response."},
	{"EGFR targeted therapy", "EGFR overexpression in non-small cell lung cancer patients responds to erlotinib treatment. HER2 protein levels correlate with prognosis."},
	{"Oncogene expression study", "MYC oncogene amplification drives tumor cell proliferation. KRAS mutations are frequently found in pancreatic adenocarcinoma."},
	{"Alzheimer's disease biomarkers", "Amyloid beta plaques and tau protein aggregation are hallmarks of Alzheimer's disease. ApoE4 allele increases disease risk."},
}

// WriteSampleWorkbook writes SampleRows as a workbook to location.
func WriteSampleWorkbook(ctx context.Context, storage *Storage, location string) error {
	wb, err := spreadsheet.FromRows("Sheet1", SampleRows)
	if err != nil {
		return err
	}
	defer wb.Close()
	data, err := wb.Bytes()
	if err != nil {
		return err
	}
	return storage.Write(ctx, location, data)
}

//Personal.AI order the ending
