package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// renderFlags holds the render-specific options.
type renderFlags struct {
	output  string
	routes  string
	noCache bool
	render  pipeline.RenderOptions
	layout  layoutFlags
}

// renderCommand creates the render command for drawing the routed hierarchy.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render an overview of the hierarchy and its routes",
		Long: `Render the containment hierarchy of a scene as nested clusters with every
routed edge drawn between its endpoints, colored by route shape. Routes are
computed with the layout flags unless --routes names an existing document.

Formats:
  svg    Graphviz-rendered SVG (default)
  dot    Graphviz DOT source`,
		Example: `  edgebundle render city.json
  edgebundle render city.json --routes city.routes.json --show-lca -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := f.layout.apply(cmd, c.cfg.Layout)
			return c.runRender(cmd.Context(), args[0], f, opts)
		},
	}

	cmd.Flags().StringVarP(&f.render.Format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <scene>.overview.<format>)")
	cmd.Flags().StringVar(&f.routes, "routes", "", "use an existing routes document instead of routing")
	cmd.Flags().BoolVar(&f.render.ShowLCA, "show-lca", false, "label bundled routes with their common ancestor")
	cmd.Flags().BoolVar(&f.render.Detailed, "detailed", false, "label leaves with their level and height")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	addLayoutFlags(cmd, &f.layout)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, f renderFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	ropts := f.render
	ropts.Format = strings.ToLower(ropts.Format)
	if err := ropts.Validate(); err != nil {
		return err
	}
	output := f.output
	if output == "" {
		output = overviewPath(input, ropts.Format)
	}
	if err := errs.ValidatePath(output); err != nil {
		return err
	}

	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var l graph.Layout
	if f.routes != "" {
		if l, err = graph.ReadLayoutFile(f.routes); err != nil {
			return fmt.Errorf("load routes: %w", err)
		}
		logger.Debug("using routes document", "path", f.routes, "id", l.ID)
	} else {
		opts.Logger = logger
		if l, _, err = runner.Layout(ctx, g, opts); err != nil {
			return err
		}
	}

	prog := newProgress(logger)
	data, cached, err := runner.Render(ctx, g, l, ropts)
	if err != nil {
		return err
	}
	prog.done("rendered overview", "format", ropts.Format, "cached", cached)

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %s overview of %d routes", strings.ToUpper(ropts.Format), len(l.Routes))
	printFile(output)
	return nil
}

// overviewPath derives the default overview path from a scene path.
func overviewPath(scenePath, format string) string {
	base := strings.TrimSuffix(scenePath, filepath.Ext(scenePath))
	return base + ".overview." + format
}
