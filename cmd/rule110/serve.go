package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"uk.ac.bris.cs/rule110/internal/config"
	"uk.ac.bris.cs/rule110/rule110/server"
)

func newServeCmd() *cobra.Command {
	var addr, metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the automaton over net/rpc",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Address = addr
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Server.MetricsAddress = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Server.MetricsAddress != "" {
				ms := server.NewMetricsServer(cfg.Server.MetricsAddress)
				go func() {
					if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						slog.Error("metrics server stopped", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					ms.Shutdown(shutdownCtx)
				}()
			}

			l, err := net.Listen("tcp", cfg.Server.Address)
			if err != nil {
				return err
			}
			return server.Serve(ctx, l, server.NewRule110Operations(ctx, slog.Default()))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.Default().Server.Address, "RPC listen address")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus /metrics listen address")
	return cmd
}
