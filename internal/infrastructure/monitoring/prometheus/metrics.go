package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	errs "github.com/turtacn/GeneHighlighter/pkg/errors"
)

// PipelineMetrics holds every metric GeneHighlighter exports. It implements
// highlight.Metrics for the engine and adds recognizer, cache, run and HTTP
// instruments for the adapters around it.
type PipelineMetrics struct {
	// Engine
	UnitsTotal      CounterVec
	UnitDuration    HistogramVec
	EntitiesTotal   CounterVec
	ErrorsTotal     CounterVec
	HighlightsTotal CounterVec

	// Recognizer
	RecognizerRequestsTotal CounterVec
	RecognizerDuration      HistogramVec
	CacheHitsTotal          CounterVec
	CacheMissesTotal        CounterVec

	// Runs
	RunsTotal    CounterVec
	RunDuration  HistogramVec
	LastRunCells GaugeVec
	ActiveRuns   GaugeVec

	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPActiveRequests  GaugeVec
}

var _ highlight.Metrics = (*PipelineMetrics)(nil)

// Default Buckets
var (
	DefaultHTTPDurationBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRecognizerDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30}
	DefaultRunDurationBuckets        = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}
	DefaultSizeBuckets               = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
)

// NewPipelineMetrics registers all metrics on collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	m := &PipelineMetrics{}

	// Engine
	m.UnitsTotal = collector.RegisterCounter("units_total", "Text units processed", "status")
	m.UnitDuration = collector.RegisterHistogram("unit_duration_seconds", "Per-unit pipeline duration", DefaultRecognizerDurationBuckets, "status")
	m.EntitiesTotal = collector.RegisterCounter("entities_total", "Entities leaving each pipeline stage", "stage")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Recovered and fatal errors", "kind")
	m.HighlightsTotal = collector.RegisterCounter("highlights_total", "Highlighted cells by representative label", "label")

	// Recognizer
	m.RecognizerRequestsTotal = collector.RegisterCounter("recognizer_requests_total", "Recognizer calls", "recognizer", "status")
	m.RecognizerDuration = collector.RegisterHistogram("recognizer_duration_seconds", "Recognizer call duration", DefaultRecognizerDurationBuckets, "recognizer")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Recognizer cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Recognizer cache misses", "cache")

	// Runs
	m.RunsTotal = collector.RegisterCounter("runs_total", "Workbook runs", "status")
	m.RunDuration = collector.RegisterHistogram("run_duration_seconds", "Workbook run duration", DefaultRunDurationBuckets, "status")
	m.LastRunCells = collector.RegisterGauge("last_run_cells", "Cells of the last run by outcome", "outcome")
	m.ActiveRuns = collector.RegisterGauge("active_runs", "Runs in progress")

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	return m
}

// RecordUnit implements highlight.Metrics.
func (m *PipelineMetrics) RecordUnit(status string, elapsed time.Duration) {
	m.UnitsTotal.WithLabelValues(status).Inc()
	m.UnitDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// RecordEntities implements highlight.Metrics.
func (m *PipelineMetrics) RecordEntities(stage string, n int) {
	m.EntitiesTotal.WithLabelValues(stage).Add(float64(n))
}

// RecordError implements highlight.Metrics.
func (m *PipelineMetrics) RecordError(kind errs.Kind) {
	m.ErrorsTotal.WithLabelValues(string(kind)).Inc()
}

// RecordHighlight implements highlight.Metrics.
func (m *PipelineMetrics) RecordHighlight(label string) {
	m.HighlightsTotal.WithLabelValues(label).Inc()
}

// Helpers

func RecordRecognizerCall(m *PipelineMetrics, recognizer string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RecognizerRequestsTotal.WithLabelValues(recognizer, status).Inc()
	m.RecognizerDuration.WithLabelValues(recognizer).Observe(duration.Seconds())
}

func RecordCacheAccess(m *PipelineMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordRun stores the outcome of one workbook run. summary may be nil for a
// run that failed before the engine finished.
func RecordRun(m *PipelineMetrics, summary *highlight.Summary, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
		m.ErrorsTotal.WithLabelValues(string(errs.KindOf(err))).Inc()
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(duration.Seconds())
	if summary != nil {
		m.LastRunCells.WithLabelValues("units").Set(float64(summary.Units))
		m.LastRunCells.WithLabelValues("highlighted").Set(float64(summary.Highlights))
		m.LastRunCells.WithLabelValues("skipped").Set(float64(summary.CellsSkipped))
		m.LastRunCells.WithLabelValues("failed").Set(float64(summary.UnitsFailed))
	}
}

func RecordHTTPRequest(m *PipelineMetrics, method, path string, statusCode int, duration time.Duration, reqSize int64) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if reqSize >= 0 {
		m.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	}
}

//Personal.AI order the ending
