package highlight

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Recognizer is the external entity recognizer. Implementations are
// long-lived and injected; Recognize receives normalized text and returns
// entities in normalized coordinates.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, text string) ([]RawEntity, error)
}

// Metrics records pipeline telemetry.
type Metrics interface {
	RecordUnit(status string, elapsed time.Duration)
	RecordEntities(stage string, n int)
	RecordError(kind errs.Kind)
	RecordHighlight(label string)
}

// Unit outcome labels passed to Metrics.RecordUnit.
const (
	UnitOK      = "ok"
	UnitFailed  = "failed"
	UnitTimeout = "timeout"
)

// Entity stage labels passed to Metrics.RecordEntities.
const (
	StageRaw      = "raw"
	StageFiltered = "filtered"
	StageRemapped = "remapped"
	StageResolved = "resolved"
)

type noopMetrics struct{}

func (noopMetrics) RecordUnit(string, time.Duration) {}
func (noopMetrics) RecordEntities(string, int)       {}
func (noopMetrics) RecordError(errs.Kind)            {}
func (noopMetrics) RecordHighlight(string)           {}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// EngineConfig tunes one Engine.
type EngineConfig struct {
	Normalizer NormalizerOptions
	Threshold  float64
	MinLength  int
	StopList   []string
	Rescorer   Rescorer

	// Workers bounds the number of units processed concurrently.
	Workers int
	// Timeout bounds every recognizer call. Zero disables the per-call limit.
	Timeout time.Duration
	// Strict aborts the run on an unknown label instead of skipping the cell.
	Strict bool
}

// DefaultEngineConfig returns the defaults used when nothing is configured.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Normalizer: AllRules(),
		Threshold:  DefaultThreshold,
		MinLength:  DefaultMinLength,
		Rescorer:   IdentityRescorer,
		Workers:    4,
		Timeout:    30 * time.Second,
	}
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Result is the output of one document run.
type Result struct {
	// Entities holds every resolved entity, grouped by unit in input order.
	Entities   []ResolvedEntity
	Highlights []Highlight
	Legend     []LegendEntry
	Summary    Summary
	// UnitErrors lists the recognizer failures of skipped units in input order.
	UnitErrors []UnitError
}

// UnitError is the error that made one unit fail.
type UnitError struct {
	Cell CellRef
	Err  error
}

// Engine runs the pipeline over the text units of one document.
type Engine struct {
	cfg        EngineConfig
	recognizer Recognizer
	palette    *Palette
	normalizer *Normalizer
	filter     *Filter
	remapper   *Remapper
	dedup      *Deduplicator
	composer   *Composer
	logger     logging.Logger
	metrics    Metrics
}

// NewEngine wires an Engine. logger and metrics may be nil.
func NewEngine(cfg EngineConfig, recognizer Recognizer, palette *Palette, logger logging.Logger, metrics Metrics) (*Engine, error) {
	if recognizer == nil {
		return nil, errs.InvalidParam("recognizer is required")
	}
	if palette == nil {
		return nil, errs.InvalidParam("palette is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	normalizer := NewNormalizer(cfg.Normalizer)
	return &Engine{
		cfg:        cfg,
		recognizer: recognizer,
		palette:    palette,
		normalizer: normalizer,
		filter:     NewFilter(cfg.Threshold, cfg.MinLength, cfg.StopList),
		remapper:   NewRemapper(normalizer),
		dedup:      NewDeduplicator(cfg.Rescorer),
		composer:   NewComposer(palette),
		logger:     logger.Named("engine"),
		metrics:    metrics,
	}, nil
}

// Palette returns the palette the engine colors cells with.
func (e *Engine) Palette() *Palette { return e.palette }

// unitResult is what one worker hands back for one unit.
type unitResult struct {
	entities []ResolvedEntity
	raw      int
	kept     int
	remapped int
	failures []error
	unitErr  error
}

// Run processes units concurrently, then groups, composes and builds the
// legend. Recovered errors are counted in Result.Summary. Run fails only when
// ctx is cancelled or, in strict mode, on an unknown label.
func (e *Engine) Run(ctx context.Context, units []TextUnit) (*Result, error) {
	log := e.logger.WithContext(ctx)
	results := make([]unitResult, len(units))

	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		go func(idx int, unit TextUnit) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = unitResult{unitErr: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[idx] = e.processUnit(ctx, unit)
		}(i, u)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("highlight run cancelled: %w", err)
	}

	res := &Result{Summary: newSummary()}
	res.Summary.Units = len(units)
	for i, r := range results {
		res.Summary.RawEntities += r.raw
		res.Summary.FilteredOut += r.raw - r.kept
		res.Summary.Remapped += r.remapped
		res.Summary.Resolved += len(r.entities)
		for _, f := range r.failures {
			res.Summary.recordError(f)
			e.metrics.RecordError(errs.KindOf(f))
			log.WithError(f).Debug("entity dropped", logging.Cell(units[i].Cell.String()))
		}
		if r.unitErr != nil {
			res.Summary.UnitsFailed++
			res.UnitErrors = append(res.UnitErrors, UnitError{Cell: units[i].Cell, Err: r.unitErr})
			res.Summary.recordError(r.unitErr)
			e.metrics.RecordError(errs.KindOf(r.unitErr))
			logging.LogCellSkipped(log, units[i].Cell.String(), r.unitErr)
		}
		res.Entities = append(res.Entities, r.entities...)
	}

	groups, failures := GroupByCell(res.Entities, NewCellIndex(units))
	for _, f := range failures {
		res.Summary.recordError(f)
		e.metrics.RecordError(errs.KindOf(f))
		log.WithError(f).Warn("entity outside its cell")
	}

	for _, g := range groups {
		h, err := e.composer.Compose(g)
		if err != nil {
			if e.cfg.Strict && errs.IsCode(err, errs.ErrCodeUnknownLabel) {
				return nil, err
			}
			res.Summary.CellsSkipped++
			res.Summary.recordError(err)
			e.metrics.RecordError(errs.KindOf(err))
			logging.LogCellSkipped(log, g.Cell.String(), err)
			continue
		}
		res.Highlights = append(res.Highlights, h)
		e.metrics.RecordHighlight(h.Label)
	}
	res.Summary.Highlights = len(res.Highlights)

	legend, err := BuildLegend(res.Highlights, e.palette)
	if err != nil {
		return nil, err
	}
	res.Legend = legend

	log.Info("highlight run finished", logging.String("summary", res.Summary.String()))
	return res, nil
}

// processUnit runs normalize → recognize → filter → remap → dedupe for one cell.
func (e *Engine) processUnit(ctx context.Context, unit TextUnit) unitResult {
	start := time.Now()
	normalized, m := e.normalizer.Normalize(unit.Text)

	raw, err := e.recognize(ctx, normalized)
	if err != nil {
		status := UnitFailed
		if errs.IsCode(err, errs.ErrCodeRecognitionTimeout) {
			status = UnitTimeout
		}
		e.metrics.RecordUnit(status, time.Since(start))
		return unitResult{unitErr: err}
	}

	kept := e.filter.Apply(raw)
	out := unitResult{raw: len(raw), kept: len(kept)}

	remapped := make([]ResolvedEntity, 0, len(kept))
	for _, r := range kept {
		re, err := e.remapper.Remap(r, m, unit.Text, unit.Cell)
		if err != nil {
			out.failures = append(out.failures, err)
			continue
		}
		remapped = append(remapped, re)
	}
	out.remapped = len(remapped)
	out.entities = e.dedup.Resolve(remapped)

	e.metrics.RecordEntities(StageRaw, out.raw)
	e.metrics.RecordEntities(StageFiltered, out.kept)
	e.metrics.RecordEntities(StageRemapped, out.remapped)
	e.metrics.RecordEntities(StageResolved, len(out.entities))
	e.metrics.RecordUnit(UnitOK, time.Since(start))
	return out
}

// recognize calls the recognizer under the per-call timeout. The call runs in
// its own goroutine and is raced against the context, so a recognizer that
// ignores ctx cannot stall the worker.
func (e *Engine) recognize(ctx context.Context, text string) ([]RawEntity, error) {
	if text == "" {
		return nil, nil
	}
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	type outcome struct {
		entities []RawEntity
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		ents, err := e.recognizer.Recognize(ctx, text)
		done <- outcome{ents, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			if stderrors.Is(o.err, context.DeadlineExceeded) {
				return nil, errs.Wrap(o.err, errs.ErrCodeRecognitionTimeout, "recognizer "+e.recognizer.Name()+" timed out")
			}
			return nil, errs.Wrap(o.err, errs.ErrCodeRecognition, "recognizer "+e.recognizer.Name()+" failed")
		}
		return o.entities, nil
	case <-ctx.Done():
		return nil, errs.Wrap(ctx.Err(), errs.ErrCodeRecognitionTimeout, "recognizer "+e.recognizer.Name()+" timed out")
	}
}

//Personal.AI order the ending
