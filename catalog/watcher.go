package catalog

// Watcher watches the catalog file for writes so the product table can
// be resynced while the server runs.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// defaultFlushDuration sets the time given to wait for multiple editor writes
const defaultFlushDuration time.Duration = 25 * time.Millisecond

// Watcher notifies on writes to a single catalog file. It watches the
// file's directory rather than the file itself so editors that replace
// the file on save are still caught.
type Watcher struct {
	path          string
	basename      string
	watcher       *fsnotify.Watcher
	update        chan bool
	flushDuration time.Duration
}

// NewWatcher registers a Watcher for the catalog file at path, which
// must already exist.
func NewWatcher(path string) (*Watcher, error) {
	path = filepath.Clean(path)
	check, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q not found: %w", path, err)
	}
	if check.IsDir() {
		return nil, fmt.Errorf("%q is a directory, not a catalog file", path)
	}

	cw := Watcher{
		path:          path,
		basename:      filepath.Base(path),
		update:        make(chan bool),
		flushDuration: defaultFlushDuration,
	}
	cw.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify new watcher error: %w", err)
	}
	if err := cw.watcher.Add(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("fsnotify add error for %q: %w", filepath.Dir(path), err)
	}
	return &cw, nil
}

// Watch watches the filesystem for writes to the catalog file,
// returning any error found while doing so. Watch blocks, so needs to
// be run in a goroutine. Consumers should iterate over [Update] to
// receive notice of a write requiring a resync.
func (cw *Watcher) Watch(ctx context.Context) error {

	// eventChan is an internal chan used for buffering editor writes.
	eventChan := make(chan bool)

	g, ctx := errgroup.WithContext(ctx)

	// This goroutine watches for *fsnotify.Watcher events.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err, ok := <-cw.watcher.Errors:
				if !ok {
					return errors.New("unexpected close from watcher.Errors")
				}
				return fmt.Errorf("unexpected notify error: %w", err)

			case e, ok := <-cw.watcher.Events:
				if !ok {
					return errors.New("unexpected close from watcher.Events")
				}
				// skip events that aren't writes or creates
				if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
					continue
				}
				if filepath.Base(e.Name) != cw.basename {
					continue
				}
				eventChan <- true
			}
		}
	})

	// Simple buffer of double writes by editors like vim. This
	// goroutine will exit if the context is Done or eventChan is
	// closed.
	g.Go(func() error {
		flush := false
		timer := time.NewTicker(cw.flushDuration)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			// Stack writes in the same flushDuration, giving time for
			// the writes to complete.
			case _, ok := <-eventChan:
				if !ok {
					return nil
				}
				flush = true
				timer.Reset(cw.flushDuration)
			case <-timer.C:
				if flush {
					cw.update <- true
					flush = false
				}
			}
		}
	})

	err := g.Wait()
	close(eventChan)
	close(cw.update)
	_ = cw.watcher.Close()
	return err
}

// Update returns a channel signalling a catalog write event.
func (cw *Watcher) Update() <-chan bool {
	return cw.update
}
