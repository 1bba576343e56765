package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/burrow/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and listing over HTTP",
	Long: `Expose the search engine to a host UI.

Endpoints:
  GET /api/search?q=<substring>&path=<root>&strategy=parallel|pool
  GET /api/list?path=<dir>
  GET /healthz
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := searchOptions()
		if err != nil {
			return err
		}
		defer opts.Logger.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(opts).ListenAndServe(ctx, viper.GetString("serve.addr"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:7878", "Address to listen on")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}
