package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/render/overview"
	"github.com/matzehuels/edgebundle/pkg/scene"
)

// RenderOverview draws s and its routes in the requested format. opts must
// already be validated.
func RenderOverview(ctx context.Context, s *scene.Scene, l graph.Layout, opts RenderOptions) ([]byte, error) {
	dot := overview.ToDOT(s, l, overview.Options{ShowLCA: opts.ShowLCA, Detailed: opts.Detailed})

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		svg, err := overview.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", opts.Format)
}
