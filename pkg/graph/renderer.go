package graph

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Box drawing characters for graph visualization
const (
	// Vertical lines
	LineVertical = "│"
	LineSkip     = "┊"

	// Lanes joining or leaving a commit
	JoinLeft  = "╯"
	JoinRight = "╰"
	ForkLeft  = "╮"
	ForkRight = "╭"

	// Commit markers
	CommitNormal    = "●"
	CommitMerge     = "◎"
	CommitInitial   = "◆"
	CommitCollapsed = "◌"
)

// Colors for different lanes
var laneColors = []lipgloss.Color{
	lipgloss.Color("#00D7FF"), // Cyan
	lipgloss.Color("#AF87FF"), // Purple
	lipgloss.Color("#00FF87"), // Green
	lipgloss.Color("#FFD700"), // Gold
	lipgloss.Color("#FF5F87"), // Pink
	lipgloss.Color("#5FD7FF"), // Light Blue
	lipgloss.Color("#FFD787"), // Light Orange
	lipgloss.Color("#87FFD7"), // Aqua
}

// LabelFunc returns the text printed after the graph prefix of a row.
type LabelFunc func(row int) string

// GraphRenderer renders a LinearGraph as text with colors
type GraphRenderer struct {
	graph  LinearGraph
	layout *Layout
	label  LabelFunc
}

// NewRenderer creates a renderer for g. label may be nil.
func NewRenderer(g LinearGraph, label LabelFunc) *GraphRenderer {
	return &GraphRenderer{
		graph:  g,
		layout: NewLayout(g),
		label:  label,
	}
}

// Render renders the whole graph, one line per row
func (r *GraphRenderer) Render() string {
	var output strings.Builder

	for row := range r.layout.Rows {
		prefix, _ := r.RenderRow(row)
		output.WriteString(prefix)
		if r.label != nil {
			output.WriteString(" ")
			output.WriteString(r.label(row))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// RenderRow renders the graph prefix of a row and returns it with the
// row's marker alone, for callers that lay lines out themselves.
func (r *GraphRenderer) RenderRow(row int) (string, string) {
	if row < 0 || row >= len(r.layout.Rows) {
		return "", ""
	}

	rl := r.layout.Rows[row]
	cells := make([]string, r.layout.Width)
	for i := range cells {
		cells[i] = " "
	}

	for _, p := range rl.Through {
		if p.Skip {
			cells[p.Lane] = LineSkip
		} else {
			cells[p.Lane] = LineVertical
		}
	}
	for _, lane := range rl.Joins {
		if lane > rl.Lane {
			cells[lane] = JoinLeft
		} else {
			cells[lane] = JoinRight
		}
	}
	for _, lane := range rl.Forks {
		if lane > rl.Lane {
			cells[lane] = ForkLeft
		} else {
			cells[lane] = ForkRight
		}
	}

	marker := r.marker(row)
	cells[rl.Lane] = marker

	var line strings.Builder
	for lane, cell := range cells {
		line.WriteString(r.colorize(cell, r.getLaneColor(lane)))
		if lane < len(cells)-1 {
			line.WriteString(" ")
		}
	}

	return line.String(), r.colorize(marker, r.getLaneColor(rl.Lane))
}

// marker picks the commit glyph of a row
func (r *GraphRenderer) marker(row int) string {
	down := r.graph.Edges(row, FilterDown)
	for _, e := range r.graph.Edges(row, FilterAll) {
		if e.IsSkip() {
			return CommitCollapsed
		}
	}
	switch {
	case len(down) == 0:
		return CommitInitial
	case len(down) > 1:
		return CommitMerge
	default:
		return CommitNormal
	}
}

// getLaneColor returns the color for a specific lane
func (r *GraphRenderer) getLaneColor(lane int) lipgloss.Color {
	return laneColors[lane%len(laneColors)]
}

// colorize applies color to text
func (r *GraphRenderer) colorize(text string, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(color)
	return style.Render(text)
}
