package cmd

import (
	"fmt"

	"github.com/msalah0e/towergraph/internal/record"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one tower and its upgrade neighbours",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := args[0]

			idx, _, err := loadIndex(cfg)
			if err != nil {
				fail("Failed to read towers: %v", err)
			}
			r := idx.Get(name)
			if r == nil {
				fail("Tower %q not found", name)
			}

			if format != "" {
				codec, err := record.CodecFor(format)
				if err != nil {
					fail("%v", err)
				}
				data, err := codec.Marshal(r)
				if err != nil {
					fail("Failed to encode %s: %v", name, err)
				}
				fmt.Fprint(ui.Out, string(data))
				return
			}

			fmt.Fprintln(ui.Out)
			ui.Tree(r.Name,
				[]string{"upgrades from", "upgrades to"},
				[][]string{r.UpgradesFrom, r.UpgradesTo})
			fmt.Fprintln(ui.Out)
			if r.Description != "" {
				fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprintf("%-12s", "Description"), r.Description)
			}
			if r.Cost != 0 {
				fmt.Fprintf(ui.Out, "  %s  %d\n", ui.Brand.Sprintf("%-12s", "Cost"), r.Cost)
			}
			if p, ok := r.Position(); ok {
				fmt.Fprintf(ui.Out, "  %s  %g, %g\n", ui.Brand.Sprintf("%-12s", "Position"), p.X, p.Y)
			}
			fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprintf("%-12s", "ID"), ui.Subtle.Sprint(r.ID))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Print the raw record as toml or yaml")
	return cmd
}
