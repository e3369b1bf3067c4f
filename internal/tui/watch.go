package tui

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// recordsChanged is posted into the event loop when a record file changes.
type recordsChanged struct {
	name string
}

// watch reports record folder changes as interrupts. The graph is never
// touched from the watcher goroutine.
func watch(dir string, screen tcell.Screen, log *zap.Logger) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				_ = screen.PostEvent(tcell.NewEventInterrupt(recordsChanged{name: filepath.Base(ev.Name)}))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watch error", zap.Error(err))
			}
		}
	}()
	return w, nil
}

func relevant(ev fsnotify.Event) bool {
	if strings.HasSuffix(ev.Name, ".tmp") || strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	return ev.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename)
}
