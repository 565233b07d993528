package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bicolour/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve editing sessions over HTTP",
		Long: `Serve editing sessions over HTTP.

Every mutation returns the ordered view operations (remove edges, remove
vertices, replace snapshot, add vertices, add edges, recolour) so that a
browser can replay them against its own scene.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	renders, err := c.newCache(noCache)
	if err != nil {
		return err
	}
	defer renders.Close()

	srv := server.New(c.Config.Server, c.Logger,
		server.WithRenderCache(renders, c.Config.Render.CacheTTL),
		server.WithRenderOptions(c.Config.Render.Engine, c.Config.Render.Labels),
	)
	return srv.ListenAndServe(ctx)
}
