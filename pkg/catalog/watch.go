package catalog

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a [Memory] store from its dataset file whenever the file
// is written or replaced. A dataset that fails to parse is logged and the
// previous one stays in place.
type Watcher struct {
	path   string
	store  *Memory
	logger *log.Logger

	mu       sync.Mutex
	onChange []func(n int, err error)
}

// NewWatcher returns a watcher that reloads store from path. A nil logger
// discards output.
func NewWatcher(path string, store *Memory, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Watcher{path: path, store: store, logger: logger}
}

// OnChange registers a callback invoked after every reload attempt, with the
// new record count or the error that kept the previous dataset in place.
func (w *Watcher) OnChange(fn func(n int, err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload re-reads the dataset file immediately.
func (w *Watcher) Reload() error {
	err := w.reload()
	w.mu.Lock()
	callbacks := make([]func(int, error), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(w.store.Len(), err)
	}
	return err
}

func (w *Watcher) reload() error {
	recs, err := ReadRecordsFile(w.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", w.path, err)
	}
	if err := w.store.Replace(recs); err != nil {
		return fmt.Errorf("reload %s: %w", w.path, err)
	}
	return nil
}

// Watch starts a goroutine that reloads on file changes. The parent
// directory is watched so that atomic replacements (write to a temp file,
// then rename) are seen. Call stop to end watching.
func (w *Watcher) Watch() (stop func(), err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dataset watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("dataset watcher add %s: %w", dir, err)
	}
	target := filepath.Clean(w.path)

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		defer fw.Close()
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := w.Reload(); err != nil {
					w.logger.Warn("dataset reload failed, keeping previous", "path", w.path, "err", err)
					continue
				}
				w.logger.Info("dataset reloaded", "path", w.path, "records", w.store.Len())
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("dataset watcher", "err", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-exited
		})
	}, nil
}
