// Package highlighting orchestrates one highlight run: it loads a workbook,
// feeds its cells through the highlight engine, writes fills, comments and the
// legend back, and reports what happened.
package highlighting

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/spreadsheet"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Service is the application entry point used by the CLI and HTTP layers.
type Service interface {
	HighlightWorkbook(ctx context.Context, req *Request) (*Report, error)
	Annotate(ctx context.Context, text string) (*Annotation, error)
	RunDemo(ctx context.Context, w io.Writer) error
	// SetEngine swaps the engine used by subsequent runs.
	SetEngine(engine *highlight.Engine)
	RecognizerName() string
}

// Request selects the workbook, sheet and columns of one run.
type Request struct {
	Input   string
	Output  string // "" derives <base><suffix>.xlsx
	Sheet   string // "" uses the active sheet
	Columns []string
}

// ColumnStats is the per-column outcome of a run.
type ColumnStats struct {
	Column      string         `json:"column"`
	Cells       int            `json:"cells"`
	Highlighted int            `json:"highlighted"`
	Entities    int            `json:"entities"`
	Labels      map[string]int `json:"labels"`
}

// Report describes a finished workbook run.
type Report struct {
	RunID     string                  `json:"run_id"`
	Input     string                  `json:"input"`
	Output    string                  `json:"output"`
	Sheet     string                  `json:"sheet"`
	Summary   highlight.Summary       `json:"summary"`
	Legend    []highlight.LegendEntry `json:"legend"`
	Columns   []ColumnStats           `json:"columns"`
	LegendRow int                     `json:"legend_row,omitempty"`
	Duration  time.Duration           `json:"duration"`
}

// Annotation is the result of annotating a single text.
type Annotation struct {
	RunID     string                     `json:"run_id"`
	Entities  []highlight.ResolvedEntity `json:"entities"`
	Highlight *highlight.Highlight       `json:"highlight,omitempty"`
	Legend    []highlight.LegendEntry    `json:"legend"`
	Summary   highlight.Summary          `json:"summary"`
	Dropped   int                        `json:"dropped"`
}

// Options configure a Service.
type Options struct {
	// OutputSuffix is appended to the input's base name when Request.Output is empty.
	OutputSuffix  string
	CommentAuthor string
	Recognizer    string
}

type serviceImpl struct {
	engine  atomic.Pointer[highlight.Engine]
	storage *Storage
	metrics *prometheus.PipelineMetrics
	logger  logging.Logger
	opts    Options
}

// NewService wires a Service. metrics may be nil.
func NewService(engine *highlight.Engine, storage *Storage, metrics *prometheus.PipelineMetrics, logger logging.Logger, opts Options) (Service, error) {
	if engine == nil {
		return nil, errors.InvalidParam("engine is required")
	}
	if storage == nil {
		storage = NewStorage(nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.OutputSuffix == "" {
		opts.OutputSuffix = "_highlighted"
	}
	s := &serviceImpl{storage: storage, metrics: metrics, logger: logger.Named("highlighting"), opts: opts}
	s.engine.Store(engine)
	return s, nil
}

func (s *serviceImpl) SetEngine(engine *highlight.Engine) {
	if engine != nil {
		s.engine.Store(engine)
	}
}

func (s *serviceImpl) RecognizerName() string { return s.opts.Recognizer }

func (s *serviceImpl) startRun(ctx context.Context) (context.Context, string, func(*highlight.Summary, error)) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	start := time.Now()
	if s.metrics != nil {
		s.metrics.ActiveRuns.WithLabelValues().Inc()
	}
	return ctx, runID, func(summary *highlight.Summary, err error) {
		if s.metrics != nil {
			s.metrics.ActiveRuns.WithLabelValues().Dec()
			prometheus.RecordRun(s.metrics, summary, err, time.Since(start))
		}
	}
}

// HighlightWorkbook runs the whole pipeline over one workbook and saves the
// highlighted copy.
func (s *serviceImpl) HighlightWorkbook(ctx context.Context, req *Request) (report *Report, err error) {
	if req == nil || strings.TrimSpace(req.Input) == "" {
		return nil, errors.Input("input workbook is required")
	}
	ctx, runID, finish := s.startRun(ctx)
	var summary *highlight.Summary
	defer func() { finish(summary, err) }()

	log := s.logger.WithContext(ctx)
	start := time.Now()

	output := req.Output
	if output == "" {
		output = OutputPath(req.Input, s.opts.OutputSuffix)
	}

	data, err := s.storage.Read(ctx, req.Input)
	if err != nil {
		return nil, err
	}
	var wbOpts []spreadsheet.Option
	if s.opts.CommentAuthor != "" {
		wbOpts = append(wbOpts, spreadsheet.WithCommentAuthor(s.opts.CommentAuthor))
	}
	wb, err := spreadsheet.OpenBytes(data, req.Input, wbOpts...)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet, err := wb.ResolveSheet(req.Sheet)
	if err != nil {
		return nil, err
	}
	units, err := wb.SourceCells(sheet, req.Columns)
	if err != nil {
		return nil, err
	}
	log.Info("workbook loaded",
		logging.String("input", req.Input),
		logging.String("sheet", sheet),
		logging.Int("cells", len(units)))

	res, err := s.engine.Load().Run(ctx, units)
	if err != nil {
		return nil, err
	}
	summary = &res.Summary

	if err := wb.ApplyHighlights(res.Highlights); err != nil {
		return nil, err
	}
	legendRow := 0
	if len(res.Legend) > 0 {
		if legendRow, err = wb.AppendLegend(sheet, res.Legend); err != nil {
			return nil, err
		}
	}

	out, err := wb.Bytes()
	if err != nil {
		return nil, err
	}
	if err := s.storage.Write(ctx, output, out); err != nil {
		return nil, err
	}

	report = &Report{
		RunID:     runID,
		Input:     req.Input,
		Output:    output,
		Sheet:     sheet,
		Summary:   res.Summary,
		Legend:    res.Legend,
		Columns:   columnStats(units, res),
		LegendRow: legendRow,
		Duration:  time.Since(start),
	}
	log.Info("workbook highlighted",
		logging.String("output", output),
		logging.Int("highlights", res.Summary.Highlights),
		logging.Int("dropped", res.Summary.Dropped()),
		logging.Duration("duration", report.Duration))
	return report, nil
}

// columnStats counts cells, highlights and resolved entities per column, in
// the order the columns were read.
func columnStats(units []highlight.TextUnit, res *highlight.Result) []ColumnStats {
	var order []string
	byName := make(map[string]*ColumnStats)
	get := func(name string) *ColumnStats {
		cs, ok := byName[name]
		if !ok {
			cs = &ColumnStats{Column: name, Labels: make(map[string]int)}
			byName[name] = cs
			order = append(order, name)
		}
		return cs
	}
	for _, u := range units {
		get(u.Cell.Column).Cells++
	}
	for _, h := range res.Highlights {
		get(h.Cell.Column).Highlighted++
	}
	for _, e := range res.Entities {
		cs := get(e.Cell.Column)
		cs.Entities++
		cs.Labels[e.Label]++
	}

	out := make([]ColumnStats, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// annotateCell is the pseudo cell a single text is placed in.
var annotateCell = highlight.CellRef{Column: "text", Axis: "A1", Row: 1, Col: 1}

// Annotate runs the pipeline over one text. A failed recognizer call is
// returned as an error; dropped entities are only counted.
func (s *serviceImpl) Annotate(ctx context.Context, text string) (ann *Annotation, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidParam("text is required")
	}
	ctx, runID, finish := s.startRun(ctx)
	var summary *highlight.Summary
	defer func() { finish(summary, err) }()

	res, err := s.engine.Load().Run(ctx, []highlight.TextUnit{{Cell: annotateCell, Text: text}})
	if err != nil {
		return nil, err
	}
	summary = &res.Summary
	if len(res.UnitErrors) > 0 {
		cause := res.UnitErrors[0].Err
		code := errors.GetCode(cause)
		if code == errors.CodeUnknown {
			code = errors.ErrCodeRecognition
		}
		return nil, errors.Wrap(cause, code, errors.DefaultMessageForCode(code))
	}

	entities := append([]highlight.ResolvedEntity(nil), res.Entities...)
	sort.SliceStable(entities, func(i, j int) bool { return entities[i].Span.Start < entities[j].Span.Start })
	ann = &Annotation{
		RunID:    runID,
		Entities: entities,
		Legend:   res.Legend,
		Summary:  res.Summary,
		Dropped:  res.Summary.Dropped(),
	}
	if len(res.Highlights) > 0 {
		h := res.Highlights[0]
		ann.Highlight = &h
	}
	return ann, nil
}

//Personal.AI order the ending
