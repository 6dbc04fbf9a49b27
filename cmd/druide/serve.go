package main

import (
	"fmt"

	"github.com/aretw0/druide"
	"github.com/aretw0/druide/internal/cli"
	"github.com/aretw0/druide/internal/presentation/tui"
	httpAdapter "github.com/aretw0/druide/pkg/adapters/http"
	"github.com/aretw0/druide/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the evaluator in server mode, exposing a JSON API over HTTP.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg.Verbose)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		store, closeStore, err := cli.NewStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}

		eng := cli.NewEngine(cfg, logger, store, metrics.Hooks())
		handler, err := httpAdapter.NewHandler(eng,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(reg),
			httpAdapter.WithVersion(druide.Version),
		)
		if err != nil {
			return err
		}

		stderr := cmd.ErrOrStderr()
		if cli.IsTerminal(stderr) {
			tui.PrintBanner(stderr, cli.Profile(cfg.Color, stderr))
		}
		logger.Info("Serving report store", "kind", cfg.Store.Kind)
		return httpAdapter.Serve(ctx, fmt.Sprintf(":%d", cfg.HTTP.Port), handler, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("color", "auto", "Colour of the banner: auto, always or never")
}
