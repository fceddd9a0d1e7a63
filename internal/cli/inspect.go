package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/layout"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// shapeColors follows the edge colors of the rendered overview. Straight
// routes keep the terminal's foreground.
var shapeColors = map[string]lipgloss.Color{
	layout.ShapeHierarchical.String(): colorGreen,
	layout.ShapeDirect.String():       colorBlue,
	layout.ShapeBetweenTrees.String(): colorRed,
	layout.ShapeSelfLoop.String():     colorGray,
}

// inspectCommand creates the inspect command for browsing a routes document.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <routes>",
		Short: "Browse the routes of a layout document",
		Long: `Browse the routed edges of a routes document written by the layout command.
Use the arrow keys to move, tab to filter by shape and enter to show the
control points of the selected route. --plain prints the table instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := graph.ReadLayoutFile(args[0])
			if err != nil {
				return err
			}
			m := NewRouteListModel(l)
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), m.tableView(len(m.rows)))
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the route table and exit")
	return cmd
}

// =============================================================================
// RouteListModel - Interactive route browser
// =============================================================================

// RouteListModel is the bubbletea model for browsing routes.
type RouteListModel struct {
	Layout graph.Layout
	Cursor int
	Offset int
	Height int

	// Detail shows the control points of the route under the cursor.
	Detail bool

	// filter indexes filters(); 0 shows every shape.
	filter int
	rows   []int
}

// NewRouteListModel creates a browser over every route of l.
func NewRouteListModel(l graph.Layout) RouteListModel {
	m := RouteListModel{Layout: l, Height: 15}
	m.applyFilter()
	return m
}

// filters lists "all" followed by the shapes present in the layout.
func (m RouteListModel) filters() []string {
	out := []string{"all"}
	byShape := m.Layout.ByShape()
	for _, s := range layout.Shapes() {
		if len(byShape[s.String()]) > 0 {
			out = append(out, s.String())
		}
	}
	return out
}

// Filter returns the shape currently shown, or "all".
func (m RouteListModel) Filter() string { return m.filters()[m.filter] }

// Selected returns the route under the cursor.
func (m RouteListModel) Selected() (graph.Route, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return graph.Route{}, false
	}
	return m.Layout.Routes[m.rows[m.Cursor]], true
}

func (m *RouteListModel) applyFilter() {
	shape := m.Filter()
	m.rows = nil
	for i, r := range m.Layout.Routes {
		if shape == "all" || r.Shape == shape {
			m.rows = append(m.rows, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m RouteListModel) Init() tea.Cmd {
	return nil
}

func (m RouteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.rows); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "tab":
			m.filter = (m.filter + 1) % len(m.filters())
			m.applyFilter()
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RouteListModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Routes · %s · %s", m.Layout.Strategy, m.Filter())
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter  ⏎ points  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  no routes"))
		return b.String()
	}

	b.WriteString(m.tableView(m.Height))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	if r, ok := m.Selected(); ok && m.Detail {
		b.WriteString("\n\n")
		b.WriteString(pointsView(r))
	}
	return b.String()
}

// tableView renders up to height rows starting at the scroll offset.
func (m RouteListModel) tableView(height int) string {
	end := min(m.Offset+height, len(m.rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Layout.Routes[m.rows[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		lca := r.LCA
		if lca == "" {
			lca = "—"
		}
		rows = append(rows, []string{cursor, r.From, r.To, r.Shape, lca, strconv.Itoa(len(r.Points))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "From", "To", "Shape", "LCA", "Points").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(shapeColors[m.Layout.Routes[m.rows[idx]].Shape])
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			if col == 4 || col == 5 {
				return base.Foreground(colorDim)
			}
			return base
		})
	return t.Render()
}

// pointsView lists the control points of r, one per line.
func pointsView(r graph.Route) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("%s → %s", r.From, r.To)))
	b.WriteString("\n")
	for i, p := range r.Points {
		fmt.Fprintf(&b, "  %s  %s\n",
			StyleNumber.Render(fmt.Sprintf("%2d", i)),
			StyleValue.Render(fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)))
	}
	return b.String()
}
