package cmd

import (
	"bytes"
	"errors"
	"io"

	"github.com/msalah0e/towergraph/internal/bridge"
	"github.com/msalah0e/towergraph/internal/config"
	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/hooks"
	"github.com/msalah0e/towergraph/internal/logger"
	"github.com/msalah0e/towergraph/internal/record"
	"go.uber.org/zap"
)

func openStore(c *config.Config) (*record.FileStore, error) {
	codec, err := record.CodecFor(c.Store.Format)
	if err != nil {
		return nil, err
	}
	return record.NewFileStore(c.Store.Dir, codec), nil
}

func newBridge(c *config.Config, s record.Store) *bridge.Bridge {
	return bridge.New(s,
		bridge.WithKind(c.Store.Kind),
		bridge.WithScopes(c.Store.Scopes...),
		bridge.WithPrune(c.Save.Prune),
		bridge.WithLogger(logger.Get()),
	)
}

func newGraph(c *config.Config) *graph.Graph {
	g := graph.New()
	g.SetNodeSize(geom.Size{W: c.Editor.NodeWidth, H: c.Editor.NodeHeight})
	return g
}

// loadGraph builds a graph from every stored record. An empty store gives
// an empty graph.
func loadGraph(c *config.Config) (*graph.Graph, *bridge.Bridge, error) {
	s, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}
	br := newBridge(c, s)
	g := newGraph(c)
	if _, err := br.Load(g); err != nil && !errors.Is(err, bridge.ErrNothingToLoad) {
		return nil, nil, err
	}
	return g, br, nil
}

func loadIndex(c *config.Config) (*record.Index, []record.Handle, error) {
	s, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}
	recs, handles, err := record.LoadAll(s, c.Store.Kind, c.Store.Scopes)
	if err != nil {
		return nil, nil, err
	}
	return record.NewIndex(recs), handles, nil
}

func runHook(c *config.Config, phase string, changed []string, out io.Writer) error {
	return hooks.Run(c.Hooks, phase, c.Store.Dir, changed, out)
}

// editorHooks adapts the save hooks for the canvas, where script output
// goes to the log instead of the terminal.
func editorHooks(c *config.Config) (func() error, func(bridge.SaveReport) error) {
	logged := func(phase string, changed []string) error {
		var buf bytes.Buffer
		err := runHook(c, phase, changed, &buf)
		if buf.Len() > 0 {
			logger.Get().Info("hook output", zap.String("phase", phase), zap.String("output", buf.String()))
		}
		return err
	}
	before := func() error { return logged(hooks.PreSave, nil) }
	after := func(r bridge.SaveReport) error { return logged(hooks.PostSave, r.Changed()) }
	return before, after
}
