package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/metrics"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/server"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		transport   string
		addr        string
		sseEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve embedding creation and search as MCP tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if transport != "stdio" && transport != "sse" {
				return vecerr.New(vecerr.CodeCLIInputInvalid, "unknown transport (expected: stdio or sse)",
					vecerr.Field("transport", transport))
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			defer closeService(svc, a.log)

			if a.cfg.Metrics.Enabled {
				if err := metrics.Enable(a.cfg.Metrics.Addr); err != nil {
					return vecerr.Wrap(err, vecerr.CodeServerStartFailure, "failed to start metrics exporter")
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mcpServer := server.NewMCPServer(svc, a.log)
			a.log.Info("starting MCP server", zap.String("transport", transport))
			if transport == "sse" {
				return mcpServer.RunSSE(ctx, addr, sseEndpoint)
			}
			return mcpServer.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "transport to use: stdio or sse")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on when using SSE transport")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path when using SSE transport")
	return cmd
}
