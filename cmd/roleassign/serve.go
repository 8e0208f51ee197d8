package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	specpkg "github.com/daap14/roleassign/api"
	"github.com/daap14/roleassign/internal/api"
	"github.com/daap14/roleassign/internal/api/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the role assignment HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if rawKey, err := a.auth.BootstrapAdmin(ctx, cfg.AdminEmail); err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	} else if rawKey != "" {
		fmt.Fprintf(os.Stderr, "Admin API key for %s: %s\n", cfg.AdminEmail, rawKey)
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger: a.db,
		Server: handler.ServerInfo{
			Version:     cfg.Version,
			Port:        cfg.Port,
			Store:       cfg.Store,
			Environment: cfg.Environment,
		},
		OpenAPISpec:      specpkg.OpenAPISpec,
		Authenticator:    a.auth,
		Assignments:      a.workflow,
		Users:            a.users,
		Keys:             a.auth,
		Roles:            a.roles,
		PublicAssignment: cfg.PublicAssignment,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting roleassign server", "port", cfg.Port, "version", cfg.Version, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
