package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/orchestrator"
	"github.com/dyluth/moot/internal/printer"
	"github.com/dyluth/moot/internal/provider"
	"github.com/dyluth/moot/internal/server"
	"github.com/dyluth/moot/pkg/debate"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the debate orchestration HTTP server",
	Long: `Run the HTTP server exposing the debate lifecycle: create debates,
conduct turns, and adjudicate completed transcripts.

Provider API keys are supplied by callers per request, never configured
on the server.

Examples:
  # Serve with defaults (in-memory store, port 8000)
  moot serve

  # Serve with a config file and an explicit address
  moot serve --config moot.yml --listen :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListenAddr, "listen", "l", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Check the syntax of " + configPath},
		)
	}
	if serveListenAddr != "" {
		cfg.Server.ListenAddr = serveListenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return printer.Error(
			"store unreachable",
			fmt.Sprintf("Cannot reach the %s store: %v", cfg.Store.Backend, err),
			[]string{"Verify store.redis_url in " + configPath, "Check that Redis is running"},
		)
	}

	registry := provider.NewRegistry(provider.Config{Timeout: cfg.LLM.Timeout()})
	engine := orchestrator.NewEngine(store, registry)
	srv := server.New(cfg, store, engine)

	printer.Success("moot serving on %s (store: %s)\n", cfg.Server.ListenAddr, cfg.Store.Backend)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	printer.Info("shutdown complete\n")
	return nil
}

// buildStore constructs the debate store named by the configuration.
func buildStore(cfg *config.MootConfig) (debate.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		opts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid store.redis_url: %w", err)
		}
		return debate.NewRedisStore(opts, cfg.Store.Instance)
	default:
		return debate.NewMemoryStore(), nil
	}
}
