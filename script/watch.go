package script

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce window for editors that fire several events per save.
const watchDebounce = 100 * time.Millisecond

// Watcher invalidates a Registry's cache when a script file changes on
// disk, so the next build of a scorer or action picks up the edit.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	closeCh  chan struct{}
	once     sync.Once
}

// Watch starts watching the registry's script directory.
func Watch(r *Registry, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(r.dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		registry: r,
		watcher:  fw,
		log:      log,
		closeCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now

			name := filepath.Base(event.Name)
			w.registry.Invalidate(name)
			w.log.Info("script changed, cache invalidated", zap.String("script", name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("script watcher error", zap.Error(err))
		case <-w.closeCh:
			return
		}
	}
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
