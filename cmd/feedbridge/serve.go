package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/feedbridge/feedbridge"
	"github.com/feedbridge/feedbridge/internal/config"
	"github.com/feedbridge/feedbridge/internal/logging"
	"github.com/feedbridge/feedbridge/internal/metrics"
	mcpadapter "github.com/feedbridge/feedbridge/pkg/adapters/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Starts the feedbridge MCP server.

Supported transports:
- stdio (default): JSON-RPC on standard input/output, for local agent runtimes.
- sse: Server-Sent Events over HTTP, for remote agents; also serves /healthz and /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg := config.Default()
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			var err error
			cfg, err = config.Load(path)
			if err != nil {
				log.Fatalf("Error loading config: %v", err)
			}
		}

		logger := logging.New(cfg.Level())
		slog.SetDefault(logger)

		m := metrics.New()
		b, err := feedbridge.New(
			feedbridge.WithScratchDir(cfg.ScratchDir),
			feedbridge.WithDialogCommand(cfg.DialogCommand),
			feedbridge.WithTimeout(cfg.Timeout()),
			feedbridge.WithPassthrough(cfg.EnvPassthrough),
			feedbridge.WithLegacyDialogFields(cfg.Legacy.Title, cfg.Legacy.TimeoutMS),
			feedbridge.WithLogger(logger),
			feedbridge.WithObserver(m),
		)
		if err != nil {
			log.Fatalf("Error initializing bridge: %v", err)
		}

		srv := mcpadapter.NewServer(b, feedbridge.Version, m.Handler(), logger)

		switch transport {
		case "stdio":
			// Keep Stdout clean for JSON-RPC.
			log.SetOutput(os.Stderr)
			logger.Info("starting feedbridge MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, port); err != nil {
				logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		default:
			log.Fatalf("Unknown transport %q (expected stdio or sse)", transport)
		}
	},
}

func init() {
	serveCmd.Flags().String("transport", "stdio", "Transport to use: stdio or sse")
	serveCmd.Flags().Int("port", 8736, "Port for the SSE transport")
	rootCmd.AddCommand(serveCmd)
}
