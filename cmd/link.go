package cmd

import (
	"github.com/msalah0e/towergraph/internal/hooks"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "link <from> <to>",
		Short:             "Record that <to> upgrades from <from>",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: towerCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			from, to := args[0], args[1]

			g, br, err := loadGraph(cfg)
			if err != nil {
				fail("Failed to read towers: %v", err)
			}
			if err := runHook(cfg, hooks.PreSave, nil, ui.Out); err != nil {
				fail("%v", err)
			}
			added, err := br.Link(g, from, to)
			if err != nil {
				fail("%v", err)
			}
			if !added {
				ui.Notice(ui.LevelInfo, "%s already upgrades to %s", from, to)
				return
			}
			ui.Good.Fprintf(ui.Out, "  %s %s %s %s\n", ui.StatusIcon(true), from, ui.Subtle.Sprint("->"), to)
			postSave(from, to)
		},
	}
}

func unlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "unlink <from> <to>",
		Short:             "Remove the upgrade from <from> to <to>",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: towerCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			from, to := args[0], args[1]

			g, br, err := loadGraph(cfg)
			if err != nil {
				fail("Failed to read towers: %v", err)
			}
			if err := runHook(cfg, hooks.PreSave, nil, ui.Out); err != nil {
				fail("%v", err)
			}
			removed, err := br.Unlink(g, from, to)
			if err != nil {
				fail("%v", err)
			}
			if !removed {
				ui.Notice(ui.LevelInfo, "%s does not upgrade to %s", from, to)
				return
			}
			ui.Good.Fprintf(ui.Out, "  %s Removed %s -> %s\n", ui.StatusIcon(true), from, to)
			postSave(from, to)
		},
	}
}

// postSave runs the post_save hook for a link edit. A failing hook is
// reported but the records stay written.
func postSave(changed ...string) {
	if err := runHook(cfg, hooks.PostSave, changed, ui.Out); err != nil {
		ui.Notice(ui.LevelWarn, "%v", err)
	}
}
