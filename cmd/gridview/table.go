package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"gridview/internal/domain"
	"gridview/internal/service"
)

var (
	colorDim   = lipgloss.Color("240")
	colorGray  = lipgloss.Color("245")
	colorGhost = lipgloss.Color("214")
)

// renderTable prints the nodes of a view, one row each, followed by a link and
// group summary
func renderTable(w io.Writer, result *service.ViewResult) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	ghostStyle := lipgloss.NewStyle().Foreground(colorGhost)

	rows := make([][]string, 0, len(result.Nodes))
	for _, n := range result.Nodes {
		rows = append(rows, []string{n.ID, string(n.Type), n.Label, formatPosition(n), nodeFlags(n)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Type", "Label", "Position", "Flags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(result.Nodes) && result.Nodes[row].IsExternal {
				return ghostStyle
			}
			return lipgloss.NewStyle()
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	boundary := 0
	for _, l := range result.Links {
		if l.IsBoundary {
			boundary++
		}
	}
	groups := make([]string, 0, len(result.Groups))
	for _, g := range result.Groups {
		groups = append(groups, g.Label)
	}
	_, err := fmt.Fprintf(w, "%s view, layout %s: %d nodes, %d links (%d boundary), groups: %s\n",
		result.Kind, result.Layout, len(result.Nodes), len(result.Links), boundary, strings.Join(groups, ", "))
	return err
}

func formatPosition(n domain.Node) string {
	if n.Position == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f, %.0f", n.Position.X, n.Position.Y)
}

func nodeFlags(n domain.Node) string {
	var flags []string
	if n.IsExternal {
		flags = append(flags, "ghost")
	}
	if n.Pinned {
		flags = append(flags, "pinned")
	}
	return strings.Join(flags, " ")
}
