package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/msalah0e/towergraph/internal/record"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tower records",
		Run: func(cmd *cobra.Command, args []string) {
			idx, handles, err := loadIndex(cfg)
			if err != nil {
				fail("Failed to read towers: %v", err)
			}

			recs := idx.All()
			if query != "" {
				recs = idx.Search(query)
			}
			if len(recs) == 0 {
				fmt.Fprintf(ui.Out, "  No towers in %s\n", cfg.Store.Dir)
				ui.Info.Fprintln(ui.Out, "  towergraph new <name>")
				return
			}

			ui.Banner(fmt.Sprintf("%d towers in %s", len(recs), cfg.Store.Dir))
			ui.Table([]string{"NAME", "FROM", "TO", "POSITION", "FILE"}, listRows(recs, handles))
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Only towers whose name or description matches")
	return cmd
}

func listRows(recs []*record.Record, handles []record.Handle) [][]string {
	files := make(map[string]string, len(handles))
	for _, h := range handles {
		if _, ok := files[h.Name]; !ok {
			files[h.Name] = filepath.Base(h.Path)
		}
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		pos := "-"
		if p, ok := r.Position(); ok {
			pos = fmt.Sprintf("%g,%g", p.X, p.Y)
		}
		rows = append(rows, []string{
			r.Name,
			strconv.Itoa(len(r.UpgradesFrom)),
			strconv.Itoa(len(r.UpgradesTo)),
			pos,
			files[r.Name],
		})
	}
	return rows
}
