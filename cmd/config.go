package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/msalah0e/towergraph/internal/config"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			if initFile {
				if err := config.EnsureExists(); err != nil {
					fail("Failed to write %s: %v", config.Path(), err)
				}
				ui.Good.Fprintf(ui.Out, "  %s %s\n", ui.StatusIcon(true), config.Path())
				return
			}

			fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprintf("%-8s", "User"), config.Path())
			wd, _ := os.Getwd()
			if p := config.FindProjectFile(wd); p != "" {
				fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprintf("%-8s", "Project"), p)
			}
			fmt.Fprintf(ui.Out, "  %s  %s\n\n", ui.Brand.Sprintf("%-8s", "Log"), config.LogPath())

			if err := toml.NewEncoder(ui.Out).Encode(cfg); err != nil {
				fail("%v", err)
			}
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Write the default user config if none exists")
	return cmd
}
