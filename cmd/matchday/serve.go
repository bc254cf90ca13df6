package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"matchday/internal/api"
	"matchday/internal/api/live"
	"matchday/internal/config"
	"matchday/internal/store"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the match API with live websocket streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			// Archive is optional; without DATABASE_URL finished matches
			// only live in memory.
			var archive *store.Archive
			if cfg.HasDatabase() {
				logger.Info("Connecting to database...")
				archive, err = store.NewArchive(ctx, cfg.DatabaseURL, store.PoolConfig{
					MinConns:    cfg.DBPoolMinConns,
					MaxConns:    cfg.DBPoolMaxConns,
					MaxConnLife: cfg.DBPoolMaxLife,
				})
				if err != nil {
					return fmt.Errorf("connect database: %w", err)
				}
				defer archive.Close()
				logger.Info("Database connected",
					"min_conns", cfg.DBPoolMinConns,
					"max_conns", cfg.DBPoolMaxConns)
			} else {
				logger.Info("No DATABASE_URL set, match archive disabled")
			}

			manager := live.NewManager(cfg, archive, logger)
			go manager.StartJanitor(ctx, live.DefaultJanitorConfig())
			router := api.NewRouter(manager, archive, cfg)

			addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
			srv := &http.Server{
				Addr:        addr,
				Handler:     router,
				ReadTimeout: 10 * time.Second,
				IdleTimeout: 60 * time.Second,
			}

			go func() {
				logger.Info("Starting Matchday API",
					"addr", addr,
					"environment", cfg.Environment,
					"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Server failed", "error", err)
					os.Exit(1)
				}
			}()

			<-ctx.Done()
			logger.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", "error", err)
			}
			manager.Shutdown()
			logger.Info("Server stopped")
			return nil
		},
	}
	return cmd
}
