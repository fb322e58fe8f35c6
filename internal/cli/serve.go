package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Routes:
  GET  /healthz
  GET  /api/v1/builds
  GET  /api/v1/coordinates?text=7:1000-2000
  GET  /api/v1/cytobands/{build}/{chrom}
  POST /api/v1/layout
  POST /api/v1/render?format=svg

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	srv := server.New(runner, c.Logger, server.Options{
		Build:         c.defaultBuild(),
		ViewportWidth: c.Config.Layout.ViewportWidth,
		ImageBase:     c.Config.Layout.ImageBase,
	})

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	err = srv.ListenAndServe(ctx, addr, c.Config.Server.ShutdownTimeout)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
