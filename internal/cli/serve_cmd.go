package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/roadmap/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roadmap over a JSON API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := web.Start(ctx, web.StartOpts{
				Roadmap: app.Roadmap,
				Addr:    addr,
				Out:     cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			return app.Roadmap.Flush(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default "+web.DefaultAddr+" or ROADMAP_ADDR)")

	return cmd
}
