package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/layout"
)

// Palette. Shape colors in inspect reuse green, blue, red and gray so the
// table reads like the rendered overview.
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusLine prefixes msg with a colored marker.
func statusLine(marker string, color lipgloss.Color, format string, args ...any) {
	fmt.Println(lipgloss.NewStyle().Foreground(color).Render(marker) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { statusLine("✓", colorGreen, format, args...) }
func printError(format string, args ...any)   { statusLine("✗", colorRed, format, args...) }
func printInfo(format string, args ...any)    { statusLine("›", colorGray, format, args...) }

func printWarning(format string, args ...any) {
	statusLine("!", colorAmber, "%s", lipgloss.NewStyle().Foreground(colorAmber).Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints one line with the scene size, the route count of each
// shape present and whether the layout came from the cache.
func printStats(l graph.Layout, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", l.Stats.Nodes),
		fmt.Sprintf("%d edges", l.Stats.Edges),
	}
	for _, shape := range layout.Shapes() {
		if n := l.Stats.Shapes[shape.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, shape))
		}
	}

	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + origin)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
