package editor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the scene file at path whenever it changes on disk. The directory is
// watched rather than the file, since many editors save by replacing the file. Writes
// made by Save are recognized and skipped. The watcher stops when the editor closes.
func (e *Editor) Watch(path string) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("editor: watch: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("editor: watch: %w", err)
	}
	e.watchers.Add(1)
	go func() {
		defer e.watchers.Done()
		defer w.Close()
		for {
			select {
			case <-e.ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil || len(data) == 0 {
					// Truncated mid-save; the next write event brings the content.
					continue
				}
				e.Queue.Post(func() { e.reload(path, data) })
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				e.log.Warn("scene watcher", "err", err)
			}
		}
	}()
	e.log.Info("watching scene file", "path", path)
	return nil
}

func (e *Editor) reload(path string, data []byte) {
	if bytes.Equal(e.known[path], data) {
		return
	}
	if err := e.importPayload(path, data); err != nil {
		e.log.Warn("scene reload failed", "path", path, "err", err)
		return
	}
	e.log.Info("scene reloaded", "path", path)
}
