package cmd

import (
	"errors"

	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/record"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func newCmd() *cobra.Command {
	var (
		cost        int
		description string
		x, y        float64
		placed      bool
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty tower record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := args[0]
			if err := record.ValidName(name); err != nil {
				fail("%v", err)
			}

			s, err := openStore(cfg)
			if err != nil {
				fail("%v", err)
			}

			r := record.New(name)
			r.Kind = cfg.Store.Kind
			r.Cost = cost
			r.Description = description
			placed = cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
			if placed {
				r.SetPosition(geom.Pt(x, y))
			}

			path := s.PathFor(name)
			if err := s.Create(r, path); err != nil {
				if errors.Is(err, record.ErrExists) {
					fail("Tower %q already exists (%s)", name, path)
				}
				fail("Failed to create %s: %v", name, err)
			}

			ui.Good.Fprintf(ui.Out, "  %s Created %s\n", ui.StatusIcon(true), ui.Brand.Sprint(name))
			ui.Subtle.Fprintf(ui.Out, "  %s\n", path)
			postSave(name)
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 0, "Tower cost")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().Float64Var(&x, "x", 0, "Editor position x")
	cmd.Flags().Float64Var(&y, "y", 0, "Editor position y")
	return cmd
}
