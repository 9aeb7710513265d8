package discover

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must be quiet before its change is emitted.
const debounce = 100 * time.Millisecond

// Watcher reports edits to descriptor files under a set of directories.
type Watcher struct {
	Changes <-chan string // Changed descriptors; bursts beyond the buffer are dropped

	changes chan string
	done    chan struct{}
	watcher *fsnotify.Watcher
	match   func(name string) bool
}

// NewWatcher creates a watcher that reports files whose base name equals
// pipelineFile or whose extension is "."+projectExt.
func NewWatcher(pipelineFile, projectExt string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 16)
	suffix := "." + projectExt
	return &Watcher{
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
		match: func(name string) bool {
			base := filepath.Base(name)
			return base == pipelineFile || strings.HasSuffix(base, suffix)
		},
	}, nil
}

// Start watches every directory in dirs. Duplicates are ignored. Stop must
// be called even when Start returns an error.
func (w *Watcher) Start(dirs []string) error {
	go w.loop()

	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		if err := w.watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}
	return nil
}

// Stop closes the watcher and the Changes channel. It does not wait for
// Changes to be drained.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.emit(file)
				}
				return
			}
			if !w.match(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.emit(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emit queues file without blocking. When the buffer is full the change is
// dropped; a consumer already has changes pending and will rescan anyway.
func (w *Watcher) emit(file string) {
	select {
	case w.changes <- file:
	default:
	}
}
