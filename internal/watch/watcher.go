// Package watch provides file system watching for the document source
// directory.
package watch

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventOp represents the type of file system operation.
type EventOp int

const (
	// OpCreate indicates a new document was created.
	OpCreate EventOp = iota
	// OpModify indicates an existing document was modified.
	OpModify
	// OpDelete indicates a document was deleted.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// DocEvent represents a file system event for a markdown document.
type DocEvent struct {
	// Path is the path to the file that changed.
	Path string
	// Op is the operation that occurred (create, modify, delete).
	Op EventOp
}

// Watcher watches the document source directory for changes.
// It uses fsnotify for cross-platform file system event monitoring.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan DocEvent
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	docsDir string
}

// NewWatcher creates a new Watcher instance.
// The watcher must be started with Start() before it will emit events.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: watcher,
		events:  make(chan DocEvent, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the document directory for *.md file events.
// Returns an error if the directory cannot be watched.
func (w *Watcher) Start(docsDir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	w.docsDir = docsDir

	if err := w.watcher.Add(docsDir); err != nil {
		return fmt.Errorf("failed to watch docs directory %s: %w", docsDir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop stops watching for file system events and cleans up resources.
// It blocks until the event processing goroutine has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	// Signal shutdown
	close(w.done)

	// Close the underlying watcher (this will unblock the event loop)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	// Wait for event processing to finish
	w.wg.Wait()

	// Close channels
	close(w.events)
	close(w.errors)

	return nil
}

// Events returns the channel that emits DocEvent notifications.
// This channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan DocEvent {
	return w.events
}

// Errors returns the channel that emits error notifications.
// This channel is closed when the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// processEvents is the main event loop that processes fsnotify events
// and converts them to DocEvent notifications.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if docEvent, ok := convertEvent(event); ok {
				select {
				case w.events <- docEvent:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convertEvent converts an fsnotify event to a DocEvent.
// Returns (DocEvent, true) if the event should be processed,
// or (DocEvent{}, false) if the event should be ignored.
func convertEvent(event fsnotify.Event) (DocEvent, bool) {
	// Only process .md files
	if !strings.HasSuffix(event.Name, ".md") {
		return DocEvent{}, false
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		// Treat rename as delete (the new name will trigger a create)
		op = OpDelete
	default:
		// Ignore chmod and other events
		return DocEvent{}, false
	}

	return DocEvent{Path: event.Name, Op: op}, true
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Coalesce batches bursts of document events into single trigger signals.
// Editors often produce several events per save; a reseed wipes and reloads
// the whole table, so one trigger per burst is enough. The returned channel
// fires after the window elapses with no further events and closes when the
// events channel closes.
func Coalesce(events <-chan DocEvent, window time.Duration) <-chan struct{} {
	triggers := make(chan struct{}, 1)

	go func() {
		defer close(triggers)

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case _, ok := <-events:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}
				if timer == nil {
					timer = time.NewTimer(window)
					fire = timer.C
				} else {
					if !timer.Stop() {
						<-fire
					}
					timer.Reset(window)
				}

			case <-fire:
				timer = nil
				fire = nil
				select {
				case triggers <- struct{}{}:
				default:
				}
			}
		}
	}()

	return triggers
}
