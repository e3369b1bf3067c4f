package cmd

import (
	"fmt"

	"github.com/msalah0e/towergraph/internal/record"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Aliases: []string{"doctor"},
		Short:   "Check stored towers for broken or one-sided upgrade references",
		Run: func(cmd *cobra.Command, args []string) {
			idx, _, err := loadIndex(cfg)
			if err != nil {
				fail("Failed to read towers: %v", err)
			}

			ui.Banner("consistency check")

			problems := idx.Check()
			total := len(idx.All())
			if total == 0 {
				fmt.Fprintf(ui.Out, "  No towers in %s\n", cfg.Store.Dir)
				return
			}

			for _, p := range problems {
				fmt.Fprintf(ui.Out, "  %s %s %s\n", problemIcon(p.Kind), ui.Subtle.Sprintf("%-10s", p.Kind), p)
			}
			if len(problems) > 0 {
				fmt.Fprintf(ui.Out, "\n  %d towers · %d problem(s)\n", total, len(problems))
				exit(1)
				return
			}
			fmt.Fprintf(ui.Out, "  %s %d towers, all references resolve both ways\n", ui.StatusIcon(true), total)
		},
	}
}

func problemIcon(k record.ProblemKind) string {
	switch k {
	case record.ProblemAsymmetric:
		return ui.WarnIcon()
	default:
		return ui.StatusIcon(false)
	}
}
