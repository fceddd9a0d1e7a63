package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// layoutCommand creates the layout command for routing the edges of a scene.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <scene>",
		Short: "Route the edges of a scene",
		Long: `Route every edge of a scene file (JSON or YAML) and write the control points
to a routes document. The document is written next to the scene as
<scene>.routes.json unless --output is given; a .yaml extension selects YAML.`,
		Example: `  edgebundle layout city.json
  edgebundle layout city.yaml --strategy direct -o routes.yaml
  edgebundle layout city.json --below --min-elevation 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.apply(cmd, c.cfg.Layout)
			return c.runLayout(cmd.Context(), args[0], output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.routes.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)

	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if output == "" {
		output = routesPath(input)
	}
	if err := errs.ValidatePath(output); err != nil {
		return err
	}
	if _, err := graph.FormatFor(output); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = logger
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Routing %d edges...", len(g.Edges)))
	spinner.Start()
	l, cached, err := runner.Layout(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write routes: %w", err)
	}
	logger.Debug("wrote routes", "path", output, "id", l.ID)

	printSuccess("Routed %d edges (%s)", len(l.Routes), l.Strategy)
	printFile(output)
	printStats(l, cached)
	printNewline()
	printNextStep("Inspect the routes", appName+" inspect "+output)
	printNextStep("Render an overview", appName+" render "+input+" --routes "+output)
	return nil
}

// routesPath derives the default routes document path from a scene path.
func routesPath(scenePath string) string {
	base := strings.TrimSuffix(scenePath, filepath.Ext(scenePath))
	return base + ".routes.json"
}
