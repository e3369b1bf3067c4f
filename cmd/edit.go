package cmd

import (
	"os"

	"github.com/msalah0e/towergraph/internal/config"
	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/logger"
	"github.com/msalah0e/towergraph/internal/state"
	"github.com/msalah0e/towergraph/internal/theme"
	"github.com/msalah0e/towergraph/internal/tui"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/msalah0e/towergraph/internal/viewport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func editCmd() *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:     "edit",
		Aliases: []string{"ui"},
		Short:   "Open the node graph canvas",
		Long: `Open the terminal canvas.

  Right-click empty canvas     add a tower
  Click an output then input   connect two towers
  Click a connection's x       remove it
  Drag a tower / empty canvas  move it / move everything
  Alt+drag or middle drag      pan the view
  Wheel or +/-                 zoom
  s / l                        save / load towers
  Delete                       remove the selected tower
  q                            quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(load)
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "Load stored towers before opening")
	return cmd
}

func runEditor(load bool) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}

	view := viewport.New()
	view.SetLimits(cfg.Editor.ZoomMin, cfg.Editor.ZoomMax)
	view.SetSpeed(cfg.Editor.ZoomSpeed)
	if v, ok := state.ViewFor(cfg.Store.Dir); ok {
		view.Restore(v.Zoom, v.Origin)
	}

	watchDir := ""
	if info, err := os.Stat(cfg.Store.Dir); err == nil && info.IsDir() {
		watchDir = cfg.Store.Dir
	}

	before, after := editorHooks(cfg)
	app, err := tui.New(tui.Options{
		Theme:    theme.For(cfg.UI.Color),
		Graph:    newGraph(cfg),
		Viewport: view,
		Bridge:   newBridge(cfg, s),
		Cell:     geom.Size{W: cfg.Editor.CellWidth, H: cfg.Editor.CellHeight},
		WatchDir: watchDir,
		Logger:   logger.Get(),

		BeforeSave: before,
		AfterSave:  after,
	})
	if err != nil {
		return err
	}
	if load {
		app.Load()
	}
	if err := app.Run(); err != nil {
		return err
	}
	if err := state.RecordView(cfg.Store.Dir, view.Zoom(), view.Origin()); err != nil {
		logger.Get().Warn("recording view", zap.Error(err))
	}
	if verbose {
		ui.Subtle.Printf("  log: %s\n", config.LogPath())
	}
	return nil
}
