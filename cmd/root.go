package cmd

import (
	"fmt"
	"os"

	"github.com/msalah0e/towergraph/internal/config"
	"github.com/msalah0e/towergraph/internal/logger"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	cfg        *config.Config
	configFile string
	storeDir   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "towergraph",
	Short: "towergraph: tower upgrade graph editor",
	Long: ui.Brand.Sprint(ui.Tower+" towergraph") + ": edit tower upgrade chains as a node graph\n" +
		ui.Subtle.Sprint("One record file per tower; connections are stored as upgrades_from/upgrades_to"),
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := setup(); err != nil {
			ui.Bad.Fprintf(os.Stderr, "towergraph: %v\n", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor(false)
	},
}

// setup loads configuration, applies flag overrides and starts logging.
func setup() error {
	if configFile != "" {
		c, err := config.LoadFile(configFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", configFile, err)
		}
		cfg = c
	} else {
		cfg = config.Load()
	}
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}
	ui.SetColor(cfg.UI.Color && os.Getenv("NO_COLOR") == "")

	if err := logger.Init(config.LogPath(), verbose); err != nil {
		// Logging is diagnostic only; carry on without it.
		fmt.Fprintln(os.Stderr, ui.Subtle.Sprintf("  log file unavailable: %v", err))
	}
	logger.Get().Debug("config loaded")
	return nil
}

func init() {
	rootCmd.SetVersionTemplate("towergraph {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&storeDir, "dir", "", "Tower record folder (overrides store.dir)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file to use instead of the user and project files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-level logging to the log file")

	rootCmd.AddCommand(
		editCmd(),
		listCmd(),
		showCmd(),
		newCmd(),
		linkCmd(),
		unlinkCmd(),
		exportCmd(),
		checkCmd(),
		configCmd(),
		initCmd(),
		completionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// exit is swapped out by tests.
var exit = os.Exit

func fail(format string, args ...any) {
	ui.Bad.Fprintf(os.Stderr, "  "+format+"\n", args...)
	exit(1)
}
