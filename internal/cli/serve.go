package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/promptkeeper/internal/server"
	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates the "serve" subcommand. The server runs until SIGINT or
// SIGTERM, drains in-flight requests, then the store is detached.
func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.settings.serverConfig()
			if addr != "" {
				cfg.ListenAddr = addr
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				return serve(ctx, server.New(store, cfg, a.log), a)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :5173)")
	return cmd
}

func serve(ctx context.Context, srv *server.Server, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return &exitError{code: exitSysError, err: fmt.Errorf("serve: %w", err)}
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return &exitError{code: exitSysError, err: fmt.Errorf("shutdown: %w", err)}
	}
	if err := <-errCh; err != nil {
		return &exitError{code: exitSysError, err: fmt.Errorf("serve: %w", err)}
	}
	return nil
}
