package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/genricoloni/playstatus/internal/domain"
	"go.uber.org/zap"
)

var _ domain.SettingsWatcher = (*Watcher)(nil)

// Watcher reports writes to the settings file. It watches the parent
// directory so editors that replace the file by rename are noticed too.
type Watcher struct {
	logger  *zap.Logger
	path    string
	changes chan struct{}

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for the settings file at path
func NewWatcher(logger *zap.Logger, path string) *Watcher {
	return &Watcher{
		logger:  logger,
		path:    filepath.Clean(path),
		changes: make(chan struct{}, 1),
	}
}

// Start begins watching. It returns once the watch is installed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.watcher = fw

	w.wg.Add(1)
	go w.loop(ctx, fw)

	w.logger.Info("Watching settings file", zap.String("path", w.path))
	return nil
}

// Stop removes the watch and waits for the event loop to exit
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fw := w.watcher
	w.watcher = nil
	w.mu.Unlock()

	if fw == nil {
		return nil
	}
	err := fw.Close()
	w.wg.Wait()
	return err
}

// Changes emits after the settings file was written. Bursts collapse into a
// single pending notification.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Settings file changed", zap.String("op", ev.Op.String()))
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Settings watcher error", zap.Error(err))
		}
	}
}
