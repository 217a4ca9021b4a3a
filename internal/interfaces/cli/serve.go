package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/GeneHighlighter/internal/application/highlighting"
	"github.com/turtacn/GeneHighlighter/internal/config"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/GeneHighlighter/internal/interfaces/http"
	"github.com/turtacn/GeneHighlighter/internal/interfaces/http/handlers"
	"github.com/turtacn/GeneHighlighter/internal/interfaces/http/middleware"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotation API over HTTP",
		Long: "Serve exposes POST /api/v1/annotate, GET /healthz, GET /readyz and\n" +
			"GET /metrics. When started with --config, edits to the palette, filter,\n" +
			"normalizer and pipeline sections are applied without a restart.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	cmd.Flags().IntVarP(&opts.Port, "port", "p", config.DefaultServerPort, "listen port")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	var checkers []handlers.HealthChecker
	if rt.recognizer.Cache != nil {
		checkers = append(checkers, handlers.NewPingChecker("cache", rt.recognizer.Cache.Ping))
	}
	router := httpapi.NewRouter(httpapi.RouterConfig{
		AnnotateHandler:  handlers.NewAnnotateHandler(rt.service, logger),
		HealthHandler:    handlers.NewHealthHandler(Version, rt.service.RecognizerName(), checkers...),
		Logger:           logger,
		Metrics:          rt.metrics,
		MetricsCollector: rt.collector,
		Mode:             cfg.Server.Mode,
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logging:          middleware.DefaultLoggingConfig(),
	})
	server := httpapi.NewServer(httpapi.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	if cliCtx.ConfigPath != "" {
		if err := watchConfig(cliCtx, rt); err != nil {
			logger.WithError(err).Warn("config hot reload disabled")
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+time.Second)
	defer cancel()
	if err := server.Stop(stopCtx); err != nil {
		return err
	}
	return <-errCh
}

// watchConfig rebuilds the engine whenever the config file changes. The
// recognizer, cache and server settings are fixed for the process lifetime.
func watchConfig(cliCtx *CLIContext, rt *runtime) error {
	logger := cliCtx.Logger.Named("reload")
	current := cliCtx.Config.Recognizer

	return config.Watch(cliCtx.ConfigPath, func(cfg *config.Config) {
		if cfg.Recognizer != current {
			logger.Warn("recognizer settings changed; restart to apply them")
		}
		engine, err := highlighting.NewEngine(cfg, rt.recognizer.Recognizer, cliCtx.Logger, rt.metrics)
		if err != nil {
			logger.WithError(err).Error("config reload rejected")
			return
		}
		rt.service.SetEngine(engine)
		logger.Info("configuration reloaded",
			logging.Int("palette_labels", len(cfg.Palette)),
			logging.Float64("threshold", cfg.Filter.Threshold),
			logging.Bool("strict", cfg.Pipeline.Strict))
	}, func(err error) {
		logger.WithError(err).Error("config reload rejected")
	}, cliCtx.Overrides...)
}

//Personal.AI order the ending
