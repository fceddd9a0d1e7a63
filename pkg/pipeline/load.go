package pipeline

import (
	"context"
	"io"

	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/scene"
)

// LoadGraph reads a scene file. The format follows the extension.
func LoadGraph(path string) (graph.Graph, error) {
	return graph.ReadGraphFile(path)
}

// ReadGraph decodes a scene from r in the given format.
func ReadGraph(r io.Reader, format string) (graph.Graph, error) {
	return graph.ReadGraph(r, format)
}

// LoadScene reads and validates a scene file.
func LoadScene(ctx context.Context, path string) (graph.Graph, *scene.Scene, error) {
	g, err := LoadGraph(path)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Graph{}, nil, err
	}
	s, err := scene.Build(g)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	return g, s, nil
}
