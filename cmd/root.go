package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"ctxdocs.ai/mcp/internal/config"
	"ctxdocs.ai/mcp/internal/core/session"
	"ctxdocs.ai/mcp/internal/core/telemetry"
	"ctxdocs.ai/mcp/internal/core/workflow"
	"ctxdocs.ai/mcp/internal/infrastructure/api"
	"ctxdocs.ai/mcp/internal/infrastructure/logging"
	"ctxdocs.ai/mcp/internal/interfaces/mcptools"
	"ctxdocs.ai/mcp/internal/interfaces/transport"
)

// rootFlags holds command-line overrides applied on top of the
// environment configuration.
type rootFlags struct {
	transport     string
	port          int
	apiKey        string
	minimumTokens int
	logLevel      string
}

func NewRootCommand(version, commit, date string) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "ctxdocs-mcp",
		Short: "ctxdocs - MCP documentation server",
		Long: `ctxdocs serves up-to-date library documentation to MCP clients through a
two-step workflow: resolve a library name to an ID, then fetch its docs.

Supports three transports:
  stdio   single persistent pipe (default, for subprocess use)
  http    streamable HTTP on POST /mcp
  sse     SSE channels on GET /sse + POST /messages`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.transport, "transport", "", "Transport to serve on (stdio, http, sse)")
	rootCmd.Flags().IntVar(&flags.port, "port", 0, "Port for the http and sse transports")
	rootCmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Documentation backend API key")
	rootCmd.Flags().IntVar(&flags.minimumTokens, "minimum-tokens", 0, "Token floor for get-library-docs requests")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	cfg := config.Load()
	applyFlags(cmd, flags, cfg)

	// A bad transport must never open a socket.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.LogLevel)
	clock := clockwork.NewRealClock()

	store := session.NewStore()
	gate := workflow.NewGate(store, clock)
	calls := telemetry.NewLog(clock)
	backend := api.NewClient(cfg.APIBaseURL, cfg.APIKey)

	deps := mcptools.Deps{
		Gate:          gate,
		Backend:       backend,
		Telemetry:     calls,
		Logger:        logger,
		MinimumTokens: cfg.MinimumTokens,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watchdog := session.NewWatchdog(store, clock, cfg.WatchdogInterval, cfg.SessionExpiry, logger)
	go watchdog.Run(ctx)

	if cfg.Transport != config.TransportStdio {
		fmt.Fprintln(os.Stderr, banner(cfg.Transport, cfg.Port))
	}

	router := transport.NewRouter(cfg, store, deps, logger)
	return router.Run(ctx)
}

func applyFlags(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	if cmd.Flags().Changed("transport") {
		cfg.Transport = config.Transport(flags.transport)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flags.port
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = flags.apiKey
	}
	if cmd.Flags().Changed("minimum-tokens") {
		cfg.MinimumTokens = flags.minimumTokens
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
}
