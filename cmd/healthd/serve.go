package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/healthkit/config"
	"github.com/kbukum/healthkit/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve health reports over HTTP and gRPC",
		Long: `Serve GET /health, GET /health/:name, /livez, /metrics and /version,
plus the grpc.health.v1 service on the same port.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.loadOptions()...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}

// serve runs the server until ctx is done.
func serve(ctx context.Context, cfg *config.HealthConfig) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.release(ctx)

	srv := server.New(cfg.Server, a.log)
	srv.ApplyDefaults(cfg.Name, a.aggregator, a.prom)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return srv.Stop(context.WithoutCancel(ctx))
}
