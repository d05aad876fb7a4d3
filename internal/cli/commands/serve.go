package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/pgtypes/internal/cache"
	"github.com/conduit-lang/pgtypes/internal/cli/config"
	"github.com/conduit-lang/pgtypes/internal/web/typesapi"
	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
	"github.com/conduit-lang/pgtypes/pkg/postgres"
)

var (
	serveAddrFlag     string
	serveSnapshotFlag string
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the types registry over HTTP",
		Long: `Serve a read-only HTTP view of the types registry. The registry
starts from the builtin types and can be warmed from a Redis snapshot
saved with "pgtypes fetch --save".`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddrFlag, "addr", "", "Listen address (overrides configuration)")
	cmd.Flags().StringVar(&serveSnapshotFlag, "snapshot", "", "Redis snapshot key to warm the registry from")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	// Derived from the builtin registry: shares its index until the
	// snapshot load writes into it.
	registry := pgtypes.DeriveTypesRegistry(postgres.Types)

	if serveSnapshotFlag != "" {
		if err := warmFromSnapshot(cmd.Context(), cfg, registry, serveSnapshotFlag, logger); err != nil {
			return err
		}
	}

	addr := serveAddrFlag
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	handler := typesapi.NewHandler(registry, logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving types API", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down types API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func warmFromSnapshot(ctx context.Context, cfg *config.Config, registry *pgtypes.TypesRegistry, key string, logger *zap.Logger) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	storeCfg := cache.DefaultConfig()
	if cfg.Redis.Prefix != "" {
		storeCfg.Prefix = cfg.Redis.Prefix
	}
	store := cache.NewStore(client, storeCfg)

	n, err := store.LoadInto(ctx, key, registry)
	if err != nil {
		var miss cache.ErrSnapshotMiss
		if errors.As(err, &miss) {
			logger.Warn("no types snapshot to load", zap.String("key", key))
			return nil
		}
		return err
	}

	logger.Info("loaded types snapshot", zap.String("key", key), zap.Int("types", n))
	return nil
}
