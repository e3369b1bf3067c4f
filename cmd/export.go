package cmd

import (
	"fmt"
	"os"

	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the upgrade graph as DOT or JSON",
		Run: func(cmd *cobra.Command, args []string) {
			g, _, err := loadGraph(cfg)
			if err != nil {
				fail("Failed to read towers: %v", err)
			}

			var data []byte
			switch format {
			case "json":
				data, err = g.ExportJSON()
				if err != nil {
					fail("Export failed: %v", err)
				}
				data = append(data, '\n')
			case "dot":
				data = []byte(g.ExportDOT())
			default:
				fail("Unknown format: %s (use dot or json)", format)
			}

			if output == "" || output == "-" {
				fmt.Fprint(ui.Out, string(data))
				return
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				fail("Failed to write %s: %v", output, err)
			}
			ui.Good.Fprintf(ui.Out, "  %s Exported %d towers to %s\n", ui.StatusIcon(true), g.Len(), output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "dot", "Export format: dot or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
