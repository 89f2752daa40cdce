package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gridview/internal/codec"
	"gridview/internal/config"
	"gridview/internal/domain"
	"gridview/internal/layout"
	"gridview/internal/logging"
	"gridview/internal/service"
	"gridview/internal/view"
)

func newViewCmd() *cobra.Command {
	var (
		focus   string
		trace   string
		fixed   bool
		asTable bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Print a derived view of a diagram file as JSON",
		Long: `Derive the whole-diagram, group-focus or upstream-trace view of a diagram file.
When both --focus and --trace are given, --trace wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			svc := service.NewDiagramService(nil, nil, config.DefaultConfig(), logger)
			if err := importFile(svc, args[0]); err != nil {
				return err
			}

			mode := config.LayoutForce
			if fixed {
				mode = config.LayoutFixed
			}
			result := svc.View(view.Selector{FocusGroup: focus, TraceNode: trace}, mode)
			logger.Debug("view derived", "kind", result.Kind, "nodes", len(result.Nodes), "links", len(result.Links))

			return writeOutput(output, func(w io.Writer) error {
				if asTable {
					return renderTable(w, result)
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			})
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "focus on a group ID")
	cmd.Flags().StringVar(&trace, "trace", "", "trace upstream of a node ID")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "assign hierarchical layout coordinates")
	cmd.Flags().BoolVarP(&asTable, "table", "t", false, "print a table instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func newLayoutCmd() *cobra.Command {
	var (
		output         string
		format         string
		levelSpacing   float64
		siblingSpacing float64
	)

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Write hierarchical layout positions into a diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			snapshot, err := readSnapshot(args[0])
			if err != nil {
				return err
			}

			opts := layout.Options{LevelSpacing: levelSpacing, SiblingSpacing: siblingSpacing}
			d := snapshot.Diagram()
			positions := layout.Compute(d.Nodes, d.Links, opts)
			for _, n := range d.Nodes {
				if p, ok := positions[n.ID]; ok {
					snapshot = snapshot.MoveNode(n.ID, p)
				}
			}
			logger.Info("layout computed", "nodes", len(positions))

			if format == "" {
				format = formatOf(args[0])
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			return writeOutput(output, func(w io.Writer) error {
				return c.Encode(snapshot, w)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default: input format)")
	cmd.Flags().Float64Var(&levelSpacing, "level-spacing", layout.DefaultLevelSpacing, "vertical distance between tree levels")
	cmd.Flags().Float64Var(&siblingSpacing, "sibling-spacing", layout.DefaultSiblingSpacing, "horizontal distance between leaves")

	return cmd
}

// formatOf guesses a codec format from a file extension, defaulting to json
func formatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "yaml" || ext == "yml" {
		return "yaml"
	}
	return "json"
}

func readSnapshot(path string) (*domain.Snapshot, error) {
	c, err := codec.ForFormat(formatOf(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snapshot, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

func importFile(svc *service.DiagramService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := svc.Import(formatOf(path), f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
