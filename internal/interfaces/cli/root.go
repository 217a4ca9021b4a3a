// Package cli implements the genehl command tree: the highlight root command,
// the HTTP server, sample data and version output.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/GeneHighlighter/internal/application/highlighting"
	"github.com/turtacn/GeneHighlighter/internal/config"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds the global flags and the highlight flags of the root command.
type RootOptions struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Strict      bool
	Workers     int
	Threshold   float64
	MetricsFile string

	Output  string
	Columns []string
	Sheet   string
	Model   string
	JSON    bool

	// Port is the listen port of the serve subcommand.
	Port int
}

// CLIContext carries the loaded configuration and logger through the command tree.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger
	// ConfigPath is the file the configuration was read from, if any.
	ConfigPath string
	// Overrides are reapplied when the configuration is reloaded.
	Overrides []config.Override
	// LexiconFallback is set when no recognizer endpoint was configured and
	// the built-in lexicon replaced the configured model.
	LexiconFallback bool
}

// NewRootCommand creates the root command with all flags and subcommands.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genehl [input.xlsx]",
		Short: "Highlight genes, proteins, chemicals and diseases in spreadsheets",
		Long: "genehl runs biomedical named-entity recognition over the text cells of a\n" +
			"workbook, fills every cell that mentions an entity with the color of its\n" +
			"label, attaches a comment listing the entities and appends a legend.\n\n" +
			"Without an input file a short demo runs over built-in sample sentences.\n" +
			"Inputs and outputs may be local paths or s3://bucket/key locations.",
		Example: "  genehl papers.xlsx -c Title Abstract\n" +
			"  genehl s3://papers/q3.xlsx -o s3://papers/q3_marked.xlsx -m lexicon",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		Args:    rootArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runDemo(cmd, opts)
			}
			opts.Columns = append(opts.Columns, args[1:]...)
			return runHighlight(cmd, opts, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "config file path (YAML)")
	pf.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&opts.LogFormat, "log-format", config.DefaultLogFormat, "log format (console, json)")
	pf.BoolVar(&opts.Strict, "strict", false, "abort the run on entity labels without a palette color")
	pf.IntVar(&opts.Workers, "workers", config.DefaultPipelineWorkers, "number of cells recognized concurrently")
	pf.Float64Var(&opts.Threshold, "threshold", config.DefaultFilterThreshold, "minimum entity confidence")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics to this file in Prometheus text format")

	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "output location (default <input>_highlighted.xlsx)")
	f.StringArrayVarP(&opts.Columns, "columns", "c", nil, "columns to process by header name, space separated (default all)")
	f.StringVarP(&opts.Sheet, "sheet", "s", "", "sheet to process (default active sheet)")
	f.StringVarP(&opts.Model, "model", "m", "", "recognizer model id (\"lexicon\" uses the built-in recognizer)")
	f.BoolVar(&opts.JSON, "json", false, "print the run report as JSON")

	cmd.AddCommand(
		NewServeCmd(opts),
		NewSampleCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// rootArgs accepts at most the input path, unless -c/--columns was given:
// words following the input are then further column names.
func rootArgs(cmd *cobra.Command, args []string) error {
	if f := cmd.Flags().Lookup("columns"); f != nil && f.Changed {
		return nil
	}
	return cobra.MaximumNArgs(1)(cmd, args)
}

// persistentPreRun loads the configuration and logger and stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	fallback := false
	overrides := append(flagOverrides(cmd, opts), lexiconFallback(&fallback))

	cfg, err := config.Load(opts.ConfigPath, overrides...)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInput, "configuration is invalid")
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidParam, "logger initialization failed")
	}
	if fallback {
		logger.Warn("no recognizer endpoint configured, using the built-in lexicon")
	}

	cliCtx := &CLIContext{
		Config:          cfg,
		Logger:          logger,
		ConfigPath:      opts.ConfigPath,
		Overrides:       overrides,
		LexiconFallback: fallback,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// lexiconFallback selects the built-in lexicon when the configured model has
// no endpoint to call, recording the switch in *used.
func lexiconFallback(used *bool) config.Override {
	return func(c *config.Config) {
		if c.Recognizer.Model != config.ModelLexicon && c.Recognizer.Endpoint == "" {
			c.Recognizer.Model = config.ModelLexicon
			*used = true
		}
	}
}

// flagOverrides turns the flags the user actually set into config overrides,
// giving them priority over file and environment values.
func flagOverrides(cmd *cobra.Command, opts *RootOptions) []config.Override {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	var out []config.Override
	if changed("log-level") {
		out = append(out, func(c *config.Config) { c.Log.Level = strings.ToLower(opts.LogLevel) })
	}
	if changed("log-format") {
		out = append(out, func(c *config.Config) { c.Log.Format = strings.ToLower(opts.LogFormat) })
	}
	if changed("strict") {
		out = append(out, func(c *config.Config) { c.Pipeline.Strict = opts.Strict })
	}
	if changed("workers") {
		out = append(out, func(c *config.Config) { c.Pipeline.Workers = opts.Workers })
	}
	if changed("threshold") {
		out = append(out, func(c *config.Config) { c.Filter.Threshold = opts.Threshold })
	}
	if changed("metrics-file") {
		out = append(out, func(c *config.Config) { c.Metrics.Textfile = opts.MetricsFile })
	}
	if changed("model") {
		out = append(out, func(c *config.Config) { c.Recognizer.Model = opts.Model })
	}
	if changed("port") {
		out = append(out, func(c *config.Config) { c.Server.Port = opts.Port })
	}
	return out
}

// initLogger creates a logger writing to stderr so stdout stays free for reports.
func initLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           cfg.Log.Format,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// runtime is everything one command needs to drive the highlighting service.
type runtime struct {
	collector  prometheus.MetricsCollector
	metrics    *prometheus.PipelineMetrics
	recognizer *highlighting.RecognizerStack
	service    highlighting.Service
}

func (r *runtime) Close() {
	_ = r.recognizer.Close()
}

// newRuntime wires metrics, recognizer, engine, storage and service for cfg.
// Long-running servers also export process and Go runtime metrics.
func newRuntime(ctx context.Context, cfg *config.Config, logger logging.Logger, server bool) (*runtime, error) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		EnableProcessMetrics: server,
		EnableGoMetrics:      server,
	}, logger)
	if err != nil {
		return nil, err
	}
	metrics := prometheus.NewPipelineMetrics(collector)

	stack, err := highlighting.NewRecognizer(ctx, cfg, logger, metrics)
	if err != nil {
		return nil, err
	}
	rt := &runtime{collector: collector, metrics: metrics, recognizer: stack}

	engine, err := highlighting.NewEngine(cfg, stack.Recognizer, logger, metrics)
	if err != nil {
		rt.Close()
		return nil, err
	}
	objects, err := highlighting.NewObjectStore(cfg.Storage, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.service, err = highlighting.NewService(engine, highlighting.NewStorage(objects), metrics, logger, highlighting.Options{
		OutputSuffix:  cfg.Output.Suffix,
		CommentAuthor: cfg.Output.CommentAuthor,
		Recognizer:    stack.Recognizer.Name(),
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// writeMetrics dumps the run's metrics when a textfile is configured.
func (r *runtime) writeMetrics(cfg *config.Config, logger logging.Logger) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	if err := r.collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.WithError(err).Warn("failed to write metrics textfile", logging.String("path", cfg.Metrics.Textfile))
	}
}

func runDemo(cmd *cobra.Command, opts *RootOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context(), cliCtx.Config, cliCtx.Logger, false)
	if err != nil {
		return err
	}
	defer rt.Close()
	defer rt.writeMetrics(cliCtx.Config, cliCtx.Logger)

	return rt.service.RunDemo(cmd.Context(), cmd.OutOrStdout())
}

func runHighlight(cmd *cobra.Command, opts *RootOptions, input string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context(), cliCtx.Config, cliCtx.Logger, false)
	if err != nil {
		return err
	}
	defer rt.Close()
	defer rt.writeMetrics(cliCtx.Config, cliCtx.Logger)

	report, err := rt.service.HighlightWorkbook(cmd.Context(), &highlighting.Request{
		Input:   input,
		Output:  opts.Output,
		Sheet:   opts.Sheet,
		Columns: opts.Columns,
	})
	if err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}

// printReport writes the per-column label counts and the run summary.
func printReport(cmd *cobra.Command, r *highlighting.Report) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Loaded %s (sheet %q)\n", r.Input, r.Sheet)
	fmt.Fprintf(w, "Found entities: %d\n", r.Summary.Resolved)
	for _, col := range r.Columns {
		fmt.Fprintf(w, "\nColumn '%s' results:\n", col.Column)
		fmt.Fprintf(w, "   cells: %d, highlighted: %d\n", col.Cells, col.Highlighted)
		labels := make([]string, 0, len(col.Labels))
		for label := range col.Labels {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(w, "   %s: %d\n", label, col.Labels[label])
		}
	}
	fmt.Fprintln(w)
	if len(r.Legend) > 0 {
		rows := make([][]string, 0, len(r.Legend))
		for _, e := range r.Legend {
			rows = append(rows, []string{e.Label, "#" + e.Color, fmt.Sprintf("%d", e.Count)})
		}
		fmt.Fprint(w, FormatTable([]string{"LABEL", "COLOR", "CELLS"}, rows))
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %s\n", r.Summary.String())
	fmt.Fprintf(w, "Highlighted %d cells\n", r.Summary.Highlights)
	fmt.Fprintf(w, "Saved results to %s\n", r.Output)
}

// Execute is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// printJSON outputs data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(padRight(h, colWidths[i]))
	}
	sb.WriteString("\n")
	for i, w := range colWidths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i := 0; i < len(headers); i++ {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// padRight pads s with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
