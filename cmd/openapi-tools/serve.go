package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jedisct1/openapi-tools/pkg/openapi2mcp"
	"github.com/spf13/cobra"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("http") {
				a.cfg.HTTP.Addr = addr
			}
			opts, err := a.extractOptions()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := openapi2mcp.NewHTTPExtractServer(opts, a.cfg.LoadOptions(), a.logger)
			return srv.ServeHTTPExtract(ctx, a.cfg.HTTP.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "Address to listen on (default from config, :8080)")
	return cmd
}
