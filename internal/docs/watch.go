// pattern: Imperative Shell

package docs

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"panedit/internal/logging"
)

// ChangeOp says what happened to a document file.
type ChangeOp int

const (
	// Changed means the document was created or rewritten.
	Changed ChangeOp = iota
	// Removed means the document file is gone.
	Removed
)

func (op ChangeOp) String() string {
	if op == Removed {
		return "removed"
	}
	return "changed"
}

// Change is a notification about one document.
type Change struct {
	ID string
	Op ChangeOp
}

// Watcher reports changes to document files in a directory.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	changes chan Change
	logger  *logging.ScopedLogger

	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a watcher for dir. Call Start to begin delivering
// changes.
func NewWatcher(dir string, logger *logging.ScopedLogger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		dir:     dir,
		watcher: fw,
		changes: make(chan Change, 64),
		logger:  logger,
	}, nil
}

// Changes returns the channel changes are delivered on. It is closed when
// Start returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start watches the directory until ctx is cancelled or the watcher is
// closed. Changes are dropped rather than blocking when nobody is reading.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.changes)

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch notes directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			id, ok := IDFromPath(event.Name)
			if !ok {
				continue
			}
			change := Change{ID: id, Op: Changed}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				change.Op = Removed
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
			default:
				continue
			}
			select {
			case w.changes <- change:
			default:
				w.logger.Warn("dropping document change, reader is behind", "id", id)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
