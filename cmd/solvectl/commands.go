package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/services"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "solvectl",
		Short:         "Inspect CVRP solver output offline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newInterpretCmd(), newGeometryCmd(), newPathCmd())
	return root
}

func newInterpretCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "interpret [file|-]",
		Short: "Parse solver stdout into routes, totals and summary (JSON)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			interp := services.InterpretRun(domain.SolverKind(kind), stdout)
			interp.Routes = services.AssignColors(interp.Routes)

			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"found":   interp.Found(),
				"routes":  interp.Routes,
				"summary": interp.Summary,
				"totals":  interp.Totals,
				"display": map[string]string{
					"distance":    services.FormatMetric(interp.Totals.Distance),
					"timeSeconds": services.FormatMetric(interp.Totals.TimeSeconds),
				},
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(domain.SolverClassical), "solver kind that produced the output")
	return cmd
}

func newGeometryCmd() *cobra.Command {
	var (
		locationsPath string
		kind          string
	)

	cmd := &cobra.Command{
		Use:   "geometry [file|-]",
		Short: "Resolve routes in solver stdout against a location table (GeoJSON)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := readLocations(locationsPath)
			if err != nil {
				return err
			}

			stdout, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			routes := services.AssignColors(services.InterpretRun(domain.SolverKind(kind), stdout).Routes)
			geoms := services.BuildAllGeometry(routes, locations)
			return writeJSON(cmd.OutOrStdout(), services.RouteFeatureCollection(routes, geoms))
		},
	}

	cmd.Flags().StringVar(&locationsPath, "locations", "", "JSON array of locations in problem city order")
	cmd.Flags().StringVar(&kind, "kind", string(domain.SolverClassical), "solver kind that produced the output")
	_ = cmd.MarkFlagRequired("locations")
	return cmd
}

func newPathCmd() *cobra.Command {
	path := &cobra.Command{
		Use:   "path",
		Short: "Convert between path text and node indices",
	}

	path.AddCommand(
		&cobra.Command{
			Use:   "format <index>...",
			Short: `Render indices as "a → b → c"`,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				indices := services.ParsePath(strings.Join(args, "-"))
				fmt.Fprintln(cmd.OutOrStdout(), services.FormatPath(indices))
				return nil
			},
		},
		&cobra.Command{
			Use:   "parse <text>",
			Short: "Parse path text into indices (JSON)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return writeJSON(cmd.OutOrStdout(), services.ParsePath(strings.Join(args, " ")))
			},
		},
		&cobra.Command{
			Use:   "anchor <text>",
			Short: "Rotate a path to start and end at the depot",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				indices := services.AnchorToDepot(services.ParsePath(strings.Join(args, " ")))
				fmt.Fprintln(cmd.OutOrStdout(), services.FormatPath(indices))
				return nil
			},
		},
	)
	return path
}

// readInput reads the named file, or stdin when the argument is absent or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %q: %w", args[0], err)
	}
	return string(b), nil
}

func readLocations(path string) ([]domain.Location, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations %q: %w", path, err)
	}

	var locations []domain.Location
	if err := json.Unmarshal(b, &locations); err != nil {
		return nil, fmt.Errorf("parse locations %q: %w", path, err)
	}
	return locations, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
