package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the comparison engine over HTTP",
	Long: `Serve a JSON API under /api/v1 for lookups, catalog queries and
comparisons, including server-held comparison sessions.

The listen address comes from server.addr in config.yaml, POKEDEX_SERVER_ADDR,
or --addr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.client, a.catalog,
		server.WithLogger(logger.Named("server")),
		server.WithPageSize(cfg.Catalog.PageSize))
	return srv.ListenAndServe(ctx, addr)
}
