package overview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/layout"
	"github.com/matzehuels/edgebundle/pkg/scene"
)

// Options configures the overview diagram.
type Options struct {
	// ShowLCA labels bundled edges with the ancestor they were routed through.
	ShowLCA bool

	// Detailed adds level and height to leaf labels.
	Detailed bool
}

var shapeColors = map[string]string{
	layout.ShapeSelfLoop.String():     "gray45",
	layout.ShapeBetweenTrees.String(): "firebrick",
	layout.ShapeDirect.String():       "steelblue",
	layout.ShapeHierarchical.String(): "forestgreen",
	layout.ShapeStraight.String():     "black",
}

// ToDOT converts a scene and a layout computed for it to Graphviz DOT.
// Routes naming nodes missing from s are skipped.
func ToDOT(s *scene.Scene, l graph.Layout, opts Options) string {
	w := &dotWriter{s: s, opts: opts, cluster: make(map[string]string)}

	w.line(0, "digraph G {")
	w.line(1, "compound=true;")
	w.line(1, "rankdir=BT;")
	w.line(1, `bgcolor="transparent";`)
	w.line(1, `node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14];`)
	w.line(1, "edge [arrowsize=0.7];")
	w.buf.WriteString("\n")

	for _, n := range s.Nodes() {
		if n.Parent() == nil {
			w.node(n.(*scene.Node), 1)
		}
	}

	w.buf.WriteString("\n")
	for _, r := range l.Routes {
		w.edge(r)
	}

	w.line(0, "}")
	return w.buf.String()
}

type dotWriter struct {
	buf     bytes.Buffer
	s       *scene.Scene
	opts    Options
	cluster map[string]string // inner node ID -> cluster name
}

func (w *dotWriter) line(indent int, format string, args ...any) {
	w.buf.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *dotWriter) node(n *scene.Node, indent int) {
	if n.IsLeaf() {
		w.line(indent, "%q [label=%q];", n.ID(), w.label(n))
		return
	}

	name := fmt.Sprintf("cluster_%d", len(w.cluster))
	w.cluster[n.ID()] = name
	w.line(indent, "subgraph %s {", name)
	w.line(indent+1, "label=%q;", n.Label())
	w.line(indent+1, `style="rounded"; color=gray60;`)
	// Anchor for edges that start or end at the inner node itself.
	w.line(indent+1, "%q [shape=point, width=0.08, label=\"\"];", n.ID())
	for _, c := range n.Children() {
		w.node(c.(*scene.Node), indent+1)
	}
	w.line(indent, "}")
}

func (w *dotWriter) label(n *scene.Node) string {
	if !w.opts.Detailed {
		return n.Label()
	}
	return fmt.Sprintf("%s\nlevel %d, height %g", n.Label(), n.Level(), n.Scale().Y)
}

func (w *dotWriter) edge(r graph.Route) {
	if _, ok := w.s.Node(r.From); !ok {
		return
	}
	if _, ok := w.s.Node(r.To); !ok {
		return
	}

	attrs := []string{fmt.Sprintf("color=%s", colorFor(r.Shape))}
	if r.Shape == layout.ShapeSelfLoop.String() || r.Shape == layout.ShapeBetweenTrees.String() {
		attrs = append(attrs, `style="dashed"`)
	}
	if c, ok := w.cluster[r.From]; ok && r.From != r.To {
		attrs = append(attrs, "ltail="+c)
	}
	if c, ok := w.cluster[r.To]; ok && r.From != r.To {
		attrs = append(attrs, "lhead="+c)
	}
	if w.opts.ShowLCA && r.LCA != "" && r.Shape == layout.ShapeHierarchical.String() {
		attrs = append(attrs, fmt.Sprintf("label=%q, fontsize=10", "via "+r.LCA))
	}
	attrs = append(attrs, fmt.Sprintf("tooltip=%q", fmt.Sprintf("%s: %d control points", r.Shape, len(r.Points))))
	w.line(1, "%q -> %q [%s];", r.From, r.To, strings.Join(attrs, ", "))
}

func colorFor(shape string) string {
	if c, ok := shapeColors[shape]; ok {
		return c
	}
	return "black"
}
