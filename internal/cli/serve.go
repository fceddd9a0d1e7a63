package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/metrics"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
	"github.com/matzehuels/edgebundle/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve layouts and overview renders over HTTP until interrupted.

Endpoints:
  POST /v1/layouts   scene in, routes document out
  POST /v1/renders   scene in, SVG or DOT out
  GET  /healthz      build information
  GET  /metrics      Prometheus metrics

The [server] and [layout] tables of the config file set the address,
timeouts and default layout options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, withMetrics bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg := c.cfg.Server
	if addr != "" {
		cfg.Addr = addr
	}

	var metricsHandler http.Handler
	if withMetrics {
		reg := metrics.DefaultRegistry()
		reg.Install()
		metricsHandler = reg.Handler()
	}

	srv := server.New(server.Options{
		Runner:   runner,
		Defaults: c.cfg.Layout,
		Config:   cfg,
		Metrics:  metricsHandler,
		Logger:   logger,
	})

	printInfo("Serving on %s", StyleHighlight.Render(listenAddr(cfg.Addr)))
	defaults := c.cfg.Layout
	defaults.SetDefaults()
	printKeyValue("strategy", defaults.Strategy)
	printKeyValue("cache", cacheLabel(c, noCache))
	printKeyValue("metrics", onOff(withMetrics))
	printNewline()

	return srv.ListenAndServe(ctx)
}

func listenAddr(addr string) string {
	if addr == "" {
		return pipeline.DefaultAddr
	}
	return addr
}

func cacheLabel(c *CLI, noCache bool) string {
	if noCache {
		return "off"
	}
	return backendName(c.cfg.Cache)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
