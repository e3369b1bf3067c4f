// Package tui is the terminal canvas. It draws the graph with tcell,
// translates mouse and key input into controller events, and runs save and
// load from the toolbar.
//
// Screen positions handed to the controller are in screen units: one
// terminal cell is Cell.W by Cell.H units, so a 200x50 node at zoom 1 with
// the default cell size covers 20 columns and 4 rows.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/msalah0e/towergraph/internal/bridge"
	"github.com/msalah0e/towergraph/internal/controller"
	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/theme"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/msalah0e/towergraph/internal/viewport"
)

// DefaultCell is the screen-unit size of one terminal cell.
var DefaultCell = geom.Size{W: 10, H: 12.5}

// saveEcho is how long file events are ignored after our own save.
const saveEcho = time.Second

// Options wires an App. Graph and Bridge are required.
type Options struct {
	Screen   tcell.Screen
	Theme    *theme.Theme
	Graph    *graph.Graph
	Viewport *viewport.Viewport
	Bridge   *bridge.Bridge
	Cell     geom.Size
	WatchDir string
	Logger   *zap.Logger

	// BeforeSave may veto a save. AfterSave runs once records were written.
	BeforeSave func() error
	AfterSave  func(bridge.SaveReport) error
}

type notice struct {
	level ui.Level
	text  string
}

// App is one editor session.
type App struct {
	screen   tcell.Screen
	theme    *theme.Theme
	g        *graph.Graph
	view     *viewport.Viewport
	ctl      *controller.Controller
	bridge   *bridge.Bridge
	cell     geom.Size
	watchDir string
	log      *zap.Logger
	before   func() error
	after    func(bridge.SaveReport) error

	notice   notice
	ptr      pointer
	buttons  []button
	hits     map[cellPos]geom.Point
	lastSave time.Time
	quit     bool
}

// New builds an App. A nil screen means the real terminal.
func New(opts Options) (*App, error) {
	if opts.Graph == nil || opts.Bridge == nil {
		return nil, errors.New("tui: graph and bridge are required")
	}
	if opts.Screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("opening terminal: %w", err)
		}
		opts.Screen = s
	}
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	if opts.Viewport == nil {
		opts.Viewport = viewport.New()
	}
	if opts.Cell.W <= 0 || opts.Cell.H <= 0 {
		opts.Cell = DefaultCell
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &App{
		screen:   opts.Screen,
		theme:    opts.Theme,
		g:        opts.Graph,
		view:     opts.Viewport,
		bridge:   opts.Bridge,
		cell:     opts.Cell,
		watchDir: opts.WatchDir,
		log:      opts.Logger,
		before:   opts.BeforeSave,
		after:    opts.AfterSave,
		hits:     make(map[cellPos]geom.Point),
	}
	a.view.SetArea(geom.Pt(0, a.cell.H))
	a.ctl = controller.New(a.g, a.view, bridge.DefaultPayloads(a.g), controller.WithLogger(a.log))
	return a, nil
}

// Controller returns the controller driving the graph.
func (a *App) Controller() *controller.Controller {
	return a.ctl
}

func (a *App) start() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initialising terminal: %w", err)
	}
	a.screen.EnableMouse()
	a.screen.SetStyle(a.theme.Background)
	return nil
}

// Run takes over the terminal until the user quits.
func (a *App) Run() error {
	if err := a.start(); err != nil {
		return err
	}
	defer a.screen.Fini()

	if a.watchDir != "" {
		w, err := watch(a.watchDir, a.screen, a.log)
		if err != nil {
			a.log.Warn("record folder not watched", zap.String("dir", a.watchDir), zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	a.draw()
	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handle(ev) || a.g.Dirty() {
			a.draw()
		}
	}
	return nil
}

func (a *App) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		return true
	case *tcell.EventKey:
		return a.key(e)
	case *tcell.EventMouse:
		return a.mouse(e)
	case *tcell.EventInterrupt:
		return a.interrupt(e)
	}
	return false
}

func (a *App) key(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyCtrlC:
		a.quit = true
		return false
	case tcell.KeyDelete:
		return a.ctl.Handle(controller.Key{Name: "delete"})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return a.ctl.Handle(controller.Key{Name: "backspace"})
	case tcell.KeyEscape:
		return a.ctl.Handle(controller.Key{Name: "escape"})
	case tcell.KeyRune:
	default:
		return false
	}

	switch e.Rune() {
	case 'q':
		a.quit = true
	case 's':
		a.Save()
	case 'l':
		a.Load()
	case '+', '=':
		a.ctl.Handle(controller.Scroll{Pos: a.center(), Delta: geom.Pt(0, -wheelStep)})
	case '-':
		a.ctl.Handle(controller.Scroll{Pos: a.center(), Delta: geom.Pt(0, wheelStep)})
	case '0':
		a.view.Reset()
	default:
		return false
	}
	return true
}

func (a *App) interrupt(e *tcell.EventInterrupt) bool {
	ch, ok := e.Data().(recordsChanged)
	if !ok {
		return false
	}
	if time.Since(a.lastSave) < saveEcho {
		return false
	}
	a.log.Debug("record folder changed", zap.String("file", ch.name))
	a.setNotice(ui.LevelInfo, "%s changed on disk, press l to load new towers", ch.name)
	return true
}

// Save writes the graph to the store and reports the result on the
// status line. Saving an empty graph shows nothing.
func (a *App) Save() {
	if a.before != nil && a.g.Len() > 0 {
		if err := a.before(); err != nil {
			a.log.Warn("save vetoed", zap.Error(err))
			a.setNotice(ui.LevelError, "Save cancelled: %v", err)
			return
		}
	}
	report, err := a.bridge.Save(a.g)
	a.lastSave = time.Now()
	switch {
	case err != nil:
		a.log.Error("save failed", zap.Error(err))
		a.setNotice(ui.LevelError, "Save failed: %v", err)
		return
	case a.g.Len() == 0:
		return
	}
	a.setNotice(ui.LevelGood, "Saved %d towers (%d new, %d updated)",
		a.g.Len(), len(report.Created), len(report.Updated))
	if a.after == nil || report.Empty() {
		return
	}
	if err := a.after(report); err != nil {
		a.log.Warn("post-save hook failed", zap.Error(err))
		a.setNotice(ui.LevelWarn, "Saved, but %v", err)
	}
}

// Load adds stored towers to the graph and reports the result.
func (a *App) Load() {
	report, err := a.bridge.Load(a.g)
	switch {
	case errors.Is(err, bridge.ErrNothingToLoad):
		a.setNotice(ui.LevelInfo, "No tower records to load")
	case errors.Is(err, bridge.ErrAlreadyLoaded):
		a.setNotice(ui.LevelWarn, "Towers already loaded")
	case err != nil:
		a.log.Error("load failed", zap.Error(err))
		a.setNotice(ui.LevelError, "Load failed: %v", err)
	case len(report.Unresolved) > 0:
		a.setNotice(ui.LevelWarn, "Loaded %d towers, %d connections, %d unresolved references",
			len(report.Added), report.Connected, len(report.Unresolved))
	default:
		a.setNotice(ui.LevelGood, "Loaded %d towers, %d connections", len(report.Added), report.Connected)
	}
}

func (a *App) setNotice(level ui.Level, format string, args ...any) {
	a.notice = notice{level: level, text: fmt.Sprintf(format, args...)}
}
