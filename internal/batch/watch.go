package batch

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies onCreate whenever a new document-looking file (matched
// by extension) appears in dir. The caller is responsible for rasterizing
// the file and invoking the batch driver; Watcher only detects arrival.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher starts watching dir for new files.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{watcher: w, logger: logger}, nil
}

// Run blocks, calling onCreate for every newly created file whose
// extension (lowercased) appears in extensions. It returns when the
// watcher is closed or its error channel is closed.
func (w *Watcher) Run(extensions []string, onCreate func(path string)) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if !allowed[ext] {
				continue
			}
			onCreate(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
